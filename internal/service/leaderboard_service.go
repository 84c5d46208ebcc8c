package service

import (
	"context"
	"database/sql"
	"time"

	"quizproctor/internal/dto"
	"quizproctor/internal/models"
	"quizproctor/internal/repository"
)

const defaultLeaderboardLimit = 50

type LeaderboardService struct {
	leaderboardRepo *repository.LeaderboardRepository
}

func NewLeaderboardService(db *sql.DB) *LeaderboardService {
	return &LeaderboardService{
		leaderboardRepo: repository.NewLeaderboardRepository(db),
	}
}

// GetLeaderboard returns ranked entries for the given filters plus the
// requesting user's best placement when they have one.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, email, topic, difficulty string, limit int) (*dto.GetLeaderboardResponse, error) {
	if limit <= 0 || limit > defaultLeaderboardLimit {
		limit = defaultLeaderboardLimit
	}

	entries, err := s.leaderboardRepo.ListEntries(ctx, topic, difficulty, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.GetLeaderboardResponse{
		Entries: make([]dto.LeaderboardEntryDTO, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, toLeaderboardDTO(entry))
	}

	if email != "" {
		best, err := s.leaderboardRepo.GetUserBest(ctx, email, topic, difficulty)
		if err != nil {
			return nil, err
		}
		if best != nil {
			d := toLeaderboardDTO(best)
			resp.UserBest = &d
		}
	}

	return resp, nil
}

func toLeaderboardDTO(entry *models.LeaderboardEntry) dto.LeaderboardEntryDTO {
	return dto.LeaderboardEntryDTO{
		Rank:             entry.Rank,
		Username:         entry.Username,
		Topic:            entry.Topic,
		Difficulty:       entry.Difficulty,
		Score:            entry.Score,
		TotalQuestions:   entry.TotalQuestions,
		TimeTakenSeconds: entry.TimeTakenSeconds,
		CreatedAt:        entry.CreatedAt.Format(time.RFC3339),
	}
}
