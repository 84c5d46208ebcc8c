package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"quizproctor/internal/dto"
	"quizproctor/internal/models"
	"quizproctor/internal/repository"
)

type ProgressService struct {
	progressRepo *repository.ProgressRepository
}

func NewProgressService(db *sql.DB) *ProgressService {
	return &ProgressService{
		progressRepo: repository.NewProgressRepository(db),
	}
}

func (s *ProgressService) GetProgress(ctx context.Context, userID, quizID string) (*dto.ProgressDTO, error) {
	progress, err := s.progressRepo.Fetch(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}
	if progress == nil {
		return nil, nil
	}

	answers := make(map[string]int, len(progress.Answers))
	for idx, opt := range progress.Answers {
		answers[strconv.Itoa(idx)] = opt
	}

	return &dto.ProgressDTO{
		QuizID:               progress.QuizID,
		CurrentQuestionIndex: progress.CurrentQuestionIndex,
		Answers:              answers,
		Score:                progress.Score,
		LastUpdated:          progress.LastUpdated.Format(time.RFC3339),
	}, nil
}

func (s *ProgressService) SaveProgress(ctx context.Context, userID string, req *dto.SaveProgressRequest) error {
	answers := make(map[int]int, len(req.Answers))
	for key, opt := range req.Answers {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return fmt.Errorf("invalid answer key %q", key)
		}
		answers[idx] = opt
	}

	progress := &models.Progress{
		UserID:               userID,
		QuizID:               req.QuizID,
		CurrentQuestionIndex: req.CurrentQuestionIndex,
		Answers:              answers,
		Score:                req.Score,
		LastUpdated:          time.Now(),
	}

	if err := s.progressRepo.Upsert(ctx, progress); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// SaveSnapshot persists live attempt state without going through the HTTP
// request shape. Used by the websocket runtime between answers.
func (s *ProgressService) SaveSnapshot(ctx context.Context, progress *models.Progress) error {
	progress.LastUpdated = time.Now()
	return s.progressRepo.Upsert(ctx, progress)
}

func (s *ProgressService) FetchRecord(ctx context.Context, userID, quizID string) (*models.Progress, error) {
	return s.progressRepo.Fetch(ctx, userID, quizID)
}

func (s *ProgressService) DeleteProgress(ctx context.Context, userID, quizID string) error {
	return s.progressRepo.Delete(ctx, userID, quizID)
}
