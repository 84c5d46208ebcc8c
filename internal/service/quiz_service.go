package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"quizproctor/internal/constants"
	"quizproctor/internal/dto"
	"quizproctor/internal/models"
	"quizproctor/internal/repository"
	"quizproctor/pkg/messaging"
)

type QuizService struct {
	quizRepo *repository.QuizRepository
	rabbitMQ *messaging.RabbitMQClient
}

func NewQuizService(db *sql.DB, rabbitMQ *messaging.RabbitMQClient) *QuizService {
	return &QuizService{
		quizRepo: repository.NewQuizRepository(db),
		rabbitMQ: rabbitMQ,
	}
}

func (s *QuizService) CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest, createdBy string) (*models.Quiz, error) {
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 15
	}

	quiz := &models.Quiz{
		Title:           req.Title,
		Description:     req.Description,
		Topic:           req.Topic,
		Difficulty:      req.Difficulty,
		DurationMinutes: req.DurationMinutes,
		PassingScore:    req.PassingScore,
		TotalQuestions:  len(req.Questions),
		IsActive:        true,
		CreatedBy:       createdBy,
	}

	questions := make([]models.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		if len(q.Options) != constants.OptionsPerQuestion {
			return nil, fmt.Errorf("question %d must have exactly %d options", i+1, constants.OptionsPerQuestion)
		}
		if q.CorrectOptionIndex == nil || *q.CorrectOptionIndex < 0 || *q.CorrectOptionIndex >= constants.OptionsPerQuestion {
			return nil, fmt.Errorf("question %d has an invalid correct option index", i+1)
		}
		questions = append(questions, models.Question{
			QuestionText:       q.QuestionText,
			Options:            q.Options,
			CorrectOptionIndex: *q.CorrectOptionIndex,
			OrderIndex:         i,
		})
	}

	if err := s.quizRepo.CreateQuiz(ctx, quiz, questions); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	event := map[string]string{
		"quiz_id":    quiz.ID,
		"title":      quiz.Title,
		"topic":      quiz.Topic,
		"difficulty": quiz.Difficulty,
	}
	eventData, _ := json.Marshal(event)

	if err := s.rabbitMQ.Publish(ctx, constants.QueueQuizCreated, eventData); err != nil {
		log.Printf("Failed to publish quiz_created event: %v", err)
	}

	return quiz, nil
}

func (s *QuizService) GetActiveQuizzes(ctx context.Context) ([]*models.Quiz, error) {
	return s.quizRepo.GetActiveQuizzes(ctx)
}

func (s *QuizService) GetTopics(ctx context.Context) (map[string][]string, error) {
	return s.quizRepo.GetTopics(ctx)
}

// GetQuizForAttempt resolves a topic and difficulty to the latest active quiz
// with its questions, ready to drive a proctored attempt.
func (s *QuizService) GetQuizForAttempt(ctx context.Context, topic, difficulty string) (*models.Quiz, []models.Question, error) {
	quiz, err := s.quizRepo.GetQuizByTopic(ctx, topic, difficulty)
	if err != nil {
		return nil, nil, err
	}
	if quiz == nil {
		return nil, nil, nil
	}

	questions, err := s.quizRepo.GetQuestionsByQuizID(ctx, quiz.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load questions: %w", err)
	}

	return quiz, questions, nil
}

func (s *QuizService) GetQuizByID(ctx context.Context, quizID string) (*models.Quiz, error) {
	return s.quizRepo.GetQuizByID(ctx, quizID)
}

func (s *QuizService) GetQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	return s.quizRepo.GetQuestionsByQuizID(ctx, quizID)
}

func (s *QuizService) SetQuizActive(ctx context.Context, quizID string, isActive bool) error {
	return s.quizRepo.SetQuizActive(ctx, quizID, isActive)
}

// Duration returns the attempt window for a quiz, falling back to the given
// default when the quiz does not specify one.
func Duration(quiz *models.Quiz, fallback time.Duration) time.Duration {
	if quiz.DurationMinutes <= 0 {
		return fallback
	}
	return time.Duration(quiz.DurationMinutes) * time.Minute
}
