package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"quizproctor/internal/constants"
	"quizproctor/internal/models"
	"quizproctor/internal/service"
	"quizproctor/internal/session"
)

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type memDeadlines struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

func newMemDeadlines() *memDeadlines {
	return &memDeadlines{deadlines: make(map[string]time.Time)}
}

func (s *memDeadlines) GetDeadline(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deadlines[key]
	return d, ok, nil
}

func (s *memDeadlines) SetDeadline(_ context.Context, key string, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadlines[key] = deadline
	return nil
}

func (s *memDeadlines) ClearDeadline(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deadlines, key)
	return nil
}

func (s *memDeadlines) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.deadlines[key]
	return ok
}

type fakeCatalog struct {
	quiz      *models.Quiz
	questions []models.Question
}

func (c *fakeCatalog) GetQuizByID(_ context.Context, quizID string) (*models.Quiz, error) {
	return c.quiz, nil
}

func (c *fakeCatalog) GetQuestions(_ context.Context, quizID string) ([]models.Question, error) {
	return c.questions, nil
}

type fakeProgressStore struct {
	saves   int
	deletes int
}

func (p *fakeProgressStore) FetchRecord(_ context.Context, userID, quizID string) (*models.Progress, error) {
	return nil, nil
}

func (p *fakeProgressStore) SaveSnapshot(_ context.Context, progress *models.Progress) error {
	p.saves++
	return nil
}

func (p *fakeProgressStore) DeleteProgress(_ context.Context, userID, quizID string) error {
	p.deletes++
	return nil
}

type fakeGrader struct {
	calls    int
	statuses []string
}

func (g *fakeGrader) Grade(_ context.Context, userID, quizID string, answers map[int]int, timeTakenSeconds int, status string) (*service.GradeResult, error) {
	g.calls++
	g.statuses = append(g.statuses, status)
	return &service.GradeResult{
		SubmissionID:   "sub-1",
		Score:          len(answers),
		TotalQuestions: 2,
		Passed:         true,
	}, nil
}

func testQuestions() []models.Question {
	return []models.Question{
		{ID: "q-1", QuizID: "quiz-1", QuestionText: "first", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 0, OrderIndex: 0},
		{ID: "q-2", QuizID: "quiz-1", QuestionText: "second", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 1, OrderIndex: 1},
	}
}

func newTestAttempt(t *testing.T) (*Hub, *Client, *fakeGrader, *fakeProgressStore, *memDeadlines) {
	t.Helper()

	quiz := &models.Quiz{
		ID:              "quiz-1",
		Title:           "Go Basics",
		Topic:           "go",
		Difficulty:      "beginner",
		DurationMinutes: 10,
		IsActive:        true,
	}
	catalog := &fakeCatalog{quiz: quiz, questions: testQuestions()}
	progress := &fakeProgressStore{}
	grader := &fakeGrader{}
	store := newMemDeadlines()

	hub := NewHub(catalog, progress, grader, store, 15*time.Minute)
	hub.clock = stubClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	client := NewClient(hub, nil, "user-1", "user@example.com", "quiz-1")
	hub.registerClient(client)
	if client.session == nil {
		t.Fatal("session not attached on register")
	}
	return hub, client, grader, progress, store
}

// lastMessage drains the client's send queue and decodes the final frame.
func lastMessage(t *testing.T, client *Client) Message {
	t.Helper()

	var msg Message
	got := false
	for {
		select {
		case data := <-client.Send:
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("failed to decode frame: %v", err)
			}
			got = true
		default:
			if !got {
				t.Fatal("no message queued")
			}
			return msg
		}
	}
}

func answerAll(t *testing.T, hub *Hub, client *Client) {
	t.Helper()

	hub.handleEnterFullscreen(client)
	for i := 0; i < len(client.questions); i++ {
		if err := client.session.SelectAnswer(0); err != nil {
			t.Fatalf("question %d: select: %v", i, err)
		}
		hub.handleSubmitAnswer(client)
		hub.handleNextQuestion(client)
	}
}

func TestCompletionClearsDeadlineAndProgress(t *testing.T) {
	hub, client, grader, progress, store := newTestAttempt(t)

	answerAll(t, hub, client)

	if client.session.State() != session.StateCompleted {
		t.Fatalf("state = %s, want completed", client.session.State())
	}
	if grader.calls != 1 {
		t.Fatalf("grader calls = %d, want 1", grader.calls)
	}
	if grader.statuses[0] != constants.SubmissionStatusCompleted {
		t.Errorf("status = %q, want %q", grader.statuses[0], constants.SubmissionStatusCompleted)
	}
	if progress.deletes != 1 {
		t.Errorf("progress deletes = %d, want 1", progress.deletes)
	}
	if store.has(attemptKey("user-1", "quiz-1")) {
		t.Error("deadline still persisted after completion")
	}

	msg := lastMessage(t, client)
	if msg.Type != MessageTypeQuizFinished {
		t.Errorf("last message = %s, want %s", msg.Type, MessageTypeQuizFinished)
	}
}

func TestExpiryFinishesInProgressAttempt(t *testing.T) {
	hub, client, grader, _, store := newTestAttempt(t)

	hub.handleEnterFullscreen(client)
	if err := client.session.SelectAnswer(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	hub.handleSubmitAnswer(client)

	hub.handleExpiry(attemptKey("user-1", "quiz-1"))

	if client.session.State() != session.StateCompleted {
		t.Fatalf("state = %s, want completed", client.session.State())
	}
	if grader.calls != 1 || grader.statuses[0] != constants.SubmissionStatusTimedOut {
		t.Fatalf("grader calls = %d statuses = %v, want one timed_out", grader.calls, grader.statuses)
	}
	if store.has(attemptKey("user-1", "quiz-1")) {
		t.Error("deadline still persisted after expiry")
	}

	msg := lastMessage(t, client)
	if msg.Type != MessageTypeTimeExpired {
		t.Errorf("last message = %s, want %s", msg.Type, MessageTypeTimeExpired)
	}
}

func TestStaleExpiryAfterCompletionDoesNotRegrade(t *testing.T) {
	hub, client, grader, progress, _ := newTestAttempt(t)

	answerAll(t, hub, client)
	if grader.calls != 1 {
		t.Fatalf("setup: grader calls = %d, want 1", grader.calls)
	}

	// An expiry queued by the timer goroutine just before the countdown was
	// cleared still arrives on the hub after completion.
	hub.handleExpiry(attemptKey("user-1", "quiz-1"))

	if grader.calls != 1 {
		t.Errorf("grader calls = %d after stale expiry, want 1", grader.calls)
	}
	if progress.deletes != 1 {
		t.Errorf("progress deletes = %d after stale expiry, want 1", progress.deletes)
	}
}

func TestStaleExpiryAfterViolationResetLeavesAttemptRestartable(t *testing.T) {
	hub, client, grader, _, _ := newTestAttempt(t)

	hub.handleEnterFullscreen(client)
	if err := client.session.SelectAnswer(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	hub.handleSubmitAnswer(client)

	hub.handleViolation(client, session.ViolationFullscreenExit)
	if client.session.State() != session.StateNotStarted {
		t.Fatalf("state after reset = %s, want not_started", client.session.State())
	}

	hub.handleExpiry(attemptKey("user-1", "quiz-1"))

	if grader.calls != 0 {
		t.Errorf("grader calls = %d after stale expiry, want 0", grader.calls)
	}
	if client.session.State() != session.StateNotStarted {
		t.Errorf("state = %s, want not_started", client.session.State())
	}

	if err := client.session.EnterFullscreen(); err != nil {
		t.Errorf("restart after reset: %v", err)
	}
}
