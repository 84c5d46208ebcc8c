package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"quizproctor/internal/constants"
	"quizproctor/internal/models"
	"quizproctor/internal/repository"
	"quizproctor/pkg/messaging"
	"quizproctor/pkg/storage"
)

// GradeResult is what a finished attempt resolves to.
type GradeResult struct {
	SubmissionID   string `json:"submission_id"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Passed         bool   `json:"passed"`
}

// QuizSubmittedEvent is published after every graded attempt so the
// notification consumer can email the candidate their results.
type QuizSubmittedEvent struct {
	SubmissionID   string `json:"submission_id"`
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	QuizID         string `json:"quiz_id"`
	QuizTitle      string `json:"quiz_title"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Passed         bool   `json:"passed"`
}

type GradingService struct {
	quizRepo        *repository.QuizRepository
	userRepo        *repository.UserRepository
	submissionRepo  *repository.SubmissionRepository
	leaderboardRepo *repository.LeaderboardRepository
	analyticsRepo   *repository.AnalyticsRepository
	rabbitMQ        *messaging.RabbitMQClient
	s3              *storage.S3Client
	reportsBucket   string
}

func NewGradingService(db *sql.DB, rabbitMQ *messaging.RabbitMQClient, s3 *storage.S3Client, reportsBucket string) *GradingService {
	return &GradingService{
		quizRepo:        repository.NewQuizRepository(db),
		userRepo:        repository.NewUserRepository(db),
		submissionRepo:  repository.NewSubmissionRepository(db),
		leaderboardRepo: repository.NewLeaderboardRepository(db),
		analyticsRepo:   repository.NewAnalyticsRepository(db),
		rabbitMQ:        rabbitMQ,
		s3:              s3,
		reportsBucket:   reportsBucket,
	}
}

// Grade scores the locked answers against the stored answer key and records
// the submission. Answers maps question order index to the chosen option
// index; unanswered questions count as incorrect. The caller decides the
// status: completed for a full run, timed_out when the window expired.
func (s *GradingService) Grade(ctx context.Context, userID, quizID string, answers map[int]int, timeTakenSeconds int, status string) (*GradeResult, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, fmt.Errorf("quiz not found")
	}

	questions, err := s.quizRepo.GetQuestionsByQuizID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer key: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("quiz has no questions")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	score := 0
	questionStats := make([]*models.QuestionAnalytics, 0, len(answers))
	for _, q := range questions {
		chosen, answered := answers[q.OrderIndex]
		correct := answered && chosen == q.CorrectOptionIndex
		if correct {
			score++
		}
		if answered {
			questionStats = append(questionStats, &models.QuestionAnalytics{
				Topic:      quiz.Topic,
				Difficulty: quiz.Difficulty,
				QuestionID: q.ID,
				WasCorrect: correct,
			})
		}
	}

	total := len(questions)
	passed := total > 0 && score*100 >= quiz.PassingScore*total

	submission := &models.Submission{
		QuizID:           quizID,
		UserID:           userID,
		Score:            score,
		TotalQuestions:   total,
		Passed:           passed,
		TimeTakenSeconds: timeTakenSeconds,
		Status:           status,
	}
	if err := s.submissionRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	entry := &models.LeaderboardEntry{
		Username:         displayName(user),
		Email:            user.Email,
		Topic:            quiz.Topic,
		Difficulty:       quiz.Difficulty,
		Score:            score,
		TotalQuestions:   total,
		TimeTakenSeconds: timeTakenSeconds,
	}
	if err := s.leaderboardRepo.InsertEntry(ctx, entry); err != nil {
		log.Printf("Failed to record leaderboard entry: %v", err)
	}

	if err := s.analyticsRepo.InsertQuizAnalytics(ctx, &models.QuizAnalytics{
		Topic:             quiz.Topic,
		Difficulty:        quiz.Difficulty,
		QuestionsTotal:    total,
		QuestionsAnswered: len(answers),
		CorrectAnswers:    score,
		TimeTakenSeconds:  timeTakenSeconds,
	}); err != nil {
		log.Printf("Failed to record quiz analytics: %v", err)
	}
	if err := s.analyticsRepo.InsertQuestionAnalytics(ctx, questionStats); err != nil {
		log.Printf("Failed to record question analytics: %v", err)
	}

	s.uploadReport(ctx, submission, quiz, answers)

	event := QuizSubmittedEvent{
		SubmissionID:   submission.ID,
		UserID:         userID,
		Email:          user.Email,
		QuizID:         quizID,
		QuizTitle:      quiz.Title,
		Score:          score,
		TotalQuestions: total,
		Passed:         passed,
	}
	eventData, _ := json.Marshal(event)
	if err := s.rabbitMQ.Publish(ctx, constants.QueueQuizSubmitted, eventData); err != nil {
		log.Printf("Failed to publish quiz_submitted event: %v", err)
	}

	return &GradeResult{
		SubmissionID:   submission.ID,
		Score:          score,
		TotalQuestions: total,
		Passed:         passed,
	}, nil
}

func (s *GradingService) GetLatestResult(ctx context.Context, userID, quizID string) (*models.Submission, error) {
	return s.submissionRepo.GetLatestSubmission(ctx, quizID, userID)
}

func (s *GradingService) GetSubmissionsByUser(ctx context.Context, userID string) ([]*models.SubmissionWithQuiz, error) {
	return s.submissionRepo.GetSubmissionsByUser(ctx, userID)
}

// uploadReport stores a JSON audit record of the graded attempt. Failure is
// logged and otherwise ignored, the grade itself is already durable.
func (s *GradingService) uploadReport(ctx context.Context, submission *models.Submission, quiz *models.Quiz, answers map[int]int) {
	if s.s3 == nil {
		return
	}

	report := map[string]any{
		"submission_id":      submission.ID,
		"user_id":            submission.UserID,
		"quiz_id":            quiz.ID,
		"quiz_title":         quiz.Title,
		"topic":              quiz.Topic,
		"difficulty":         quiz.Difficulty,
		"score":              submission.Score,
		"total_questions":    submission.TotalQuestions,
		"passed":             submission.Passed,
		"status":             submission.Status,
		"time_taken_seconds": submission.TimeTakenSeconds,
		"answers":            answersForReport(answers),
		"completed_at":       submission.CompletedAt.Format(time.RFC3339),
	}

	data, err := json.Marshal(report)
	if err != nil {
		log.Printf("Failed to marshal submission report: %v", err)
		return
	}

	objectName := fmt.Sprintf("%s/%s.json", submission.UserID, submission.ID)
	if err := s.s3.UploadFile(ctx, s.reportsBucket, objectName, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		log.Printf("Failed to upload submission report: %v", err)
	}
}

func answersForReport(answers map[int]int) map[string]int {
	out := make(map[string]int, len(answers))
	for idx, opt := range answers {
		out[fmt.Sprintf("%d", idx)] = opt
	}
	return out
}

func displayName(user *models.Profile) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Email
}
