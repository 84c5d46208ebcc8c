package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"quizproctor/internal/models"
)

type ProgressRepository struct {
	db *sql.DB
}

func NewProgressRepository(db *sql.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Fetch returns the resume record for (user, quiz), or nil when absent.
func (r *ProgressRepository) Fetch(ctx context.Context, userID, quizID string) (*models.Progress, error) {
	query := `
		SELECT user_id, quiz_id, current_question_index, answers, score, last_updated
		FROM quiz_progress
		WHERE user_id = $1 AND quiz_id = $2
	`
	progress := &models.Progress{}
	var answersJSON string
	err := r.db.QueryRowContext(ctx, query, userID, quizID).Scan(
		&progress.UserID,
		&progress.QuizID,
		&progress.CurrentQuestionIndex,
		&answersJSON,
		&progress.Score,
		&progress.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	progress.Answers, err = unmarshalAnswers(answersJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse answers for %s/%s: %w", userID, quizID, err)
	}
	return progress, nil
}

// Upsert writes the record with last-writer-wins semantics on the composite
// key.
func (r *ProgressRepository) Upsert(ctx context.Context, progress *models.Progress) error {
	answersJSON, err := marshalAnswers(progress.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO quiz_progress (user_id, quiz_id, current_question_index, answers, score, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, quiz_id) DO UPDATE SET
			current_question_index = EXCLUDED.current_question_index,
			answers = EXCLUDED.answers,
			score = EXCLUDED.score,
			last_updated = EXCLUDED.last_updated
	`
	_, err = r.db.ExecContext(ctx, query,
		progress.UserID,
		progress.QuizID,
		progress.CurrentQuestionIndex,
		answersJSON,
		progress.Score,
		time.Now(),
	)
	return err
}

func (r *ProgressRepository) Delete(ctx context.Context, userID, quizID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM quiz_progress WHERE user_id = $1 AND quiz_id = $2`,
		userID, quizID,
	)
	return err
}

// Answers are stored as a JSON object keyed by stringified question index
// (the wire shape the browser sends); parsed back into a typed map.
func marshalAnswers(answers map[int]int) (string, error) {
	out := make(map[string]int, len(answers))
	for idx, opt := range answers {
		out[strconv.Itoa(idx)] = opt
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalAnswers(data string) (map[int]int, error) {
	raw := make(map[string]int)
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, err
	}
	out := make(map[int]int, len(raw))
	for key, opt := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("non-numeric answer key %q", key)
		}
		out[idx] = opt
	}
	return out, nil
}
