package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"quizproctor/internal/dto"
	"quizproctor/internal/models"
)

func intPtr(v int) *int { return &v }

func validQuestion() dto.QuestionInput {
	return dto.QuestionInput{
		QuestionText:       "What does CSS stand for?",
		Options:            []string{"a", "b", "c", "d"},
		CorrectOptionIndex: intPtr(1),
	}
}

func TestCreateQuizRejectsWrongOptionCount(t *testing.T) {
	svc := NewQuizService(nil, nil)

	q := validQuestion()
	q.Options = []string{"a", "b", "c"}

	_, err := svc.CreateQuiz(context.Background(), &dto.CreateQuizRequest{
		Title:      "CSS Fundamentals",
		Topic:      "css",
		Difficulty: "beginner",
		Questions:  []dto.QuestionInput{q},
	}, "admin-1")
	if err == nil {
		t.Fatal("expected error for 3 options")
	}
	if !strings.Contains(err.Error(), "exactly 4 options") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateQuizRejectsBadCorrectIndex(t *testing.T) {
	svc := NewQuizService(nil, nil)

	for _, idx := range []*int{nil, intPtr(-1), intPtr(4)} {
		q := validQuestion()
		q.CorrectOptionIndex = idx

		_, err := svc.CreateQuiz(context.Background(), &dto.CreateQuizRequest{
			Title:      "CSS Fundamentals",
			Topic:      "css",
			Difficulty: "beginner",
			Questions:  []dto.QuestionInput{q},
		}, "admin-1")
		if err == nil {
			t.Errorf("expected error for correct index %v", idx)
		}
	}
}

func TestDurationFallsBackToDefault(t *testing.T) {
	fallback := 15 * time.Minute

	if got := Duration(&models.Quiz{DurationMinutes: 0}, fallback); got != fallback {
		t.Errorf("Duration = %v, want %v", got, fallback)
	}
	if got := Duration(&models.Quiz{DurationMinutes: 30}, fallback); got != 30*time.Minute {
		t.Errorf("Duration = %v, want 30m", got)
	}
}
