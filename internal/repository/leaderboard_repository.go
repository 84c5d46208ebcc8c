package repository

import (
	"context"
	"database/sql"
	"time"

	"quizproctor/internal/models"

	"github.com/google/uuid"
)

type LeaderboardRepository struct {
	db *sql.DB
}

func NewLeaderboardRepository(db *sql.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) InsertEntry(ctx context.Context, entry *models.LeaderboardEntry) error {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO leaderboard (id, username, email, topic, difficulty, score, total_questions, time_taken_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Username,
		entry.Email,
		entry.Topic,
		entry.Difficulty,
		entry.Score,
		entry.TotalQuestions,
		entry.TimeTakenSeconds,
		entry.CreatedAt,
	)
	return err
}

// ListEntries returns entries ranked by score descending, with time taken as
// the tiebreaker. Empty topic or difficulty means no filter.
func (r *LeaderboardRepository) ListEntries(ctx context.Context, topic, difficulty string, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT id, username, email, topic, difficulty, score, total_questions, time_taken_seconds, created_at
		FROM leaderboard
		WHERE ($1 = '' OR topic = $1)
		  AND ($2 = '' OR difficulty = $2)
		ORDER BY score DESC, time_taken_seconds ASC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, topic, difficulty, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		entry := &models.LeaderboardEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Username,
			&entry.Email,
			&entry.Topic,
			&entry.Difficulty,
			&entry.Score,
			&entry.TotalQuestions,
			&entry.TimeTakenSeconds,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rank++
		entry.Rank = rank
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetUserBest returns the user's best entry and its overall rank within the
// topic and difficulty, or nil when the user has no entries yet.
func (r *LeaderboardRepository) GetUserBest(ctx context.Context, email, topic, difficulty string) (*models.LeaderboardEntry, error) {
	query := `
		WITH ranked AS (
			SELECT id, username, email, topic, difficulty, score, total_questions, time_taken_seconds, created_at,
			       RANK() OVER (ORDER BY score DESC, time_taken_seconds ASC) AS rank
			FROM leaderboard
			WHERE ($2 = '' OR topic = $2)
			  AND ($3 = '' OR difficulty = $3)
		)
		SELECT id, username, email, topic, difficulty, score, total_questions, time_taken_seconds, created_at, rank
		FROM ranked
		WHERE email = $1
		ORDER BY rank ASC
		LIMIT 1
	`
	entry := &models.LeaderboardEntry{}
	err := r.db.QueryRowContext(ctx, query, email, topic, difficulty).Scan(
		&entry.ID,
		&entry.Username,
		&entry.Email,
		&entry.Topic,
		&entry.Difficulty,
		&entry.Score,
		&entry.TotalQuestions,
		&entry.TimeTakenSeconds,
		&entry.CreatedAt,
		&entry.Rank,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}
