package repository

import (
	"context"
	"database/sql"
	"time"

	"quizproctor/internal/models"

	"github.com/google/uuid"
)

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	submission.ID = uuid.New().String()
	submission.CompletedAt = time.Now()

	query := `
		INSERT INTO submissions (id, quiz_id, user_id, score, total_questions, passed, time_taken_seconds, status, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.QuizID,
		submission.UserID,
		submission.Score,
		submission.TotalQuestions,
		submission.Passed,
		submission.TimeTakenSeconds,
		submission.Status,
		submission.CompletedAt,
	)
	return err
}

func (r *SubmissionRepository) GetSubmissionByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	query := `
		SELECT id, quiz_id, user_id, score, total_questions, passed, time_taken_seconds, status, completed_at
		FROM submissions
		WHERE id = $1
	`
	return r.scanSubmission(r.db.QueryRowContext(ctx, query, submissionID))
}

// GetLatestSubmission returns the most recent completed submission for a
// (quiz, user) pair, used by the results view.
func (r *SubmissionRepository) GetLatestSubmission(ctx context.Context, quizID, userID string) (*models.Submission, error) {
	query := `
		SELECT id, quiz_id, user_id, score, total_questions, passed, time_taken_seconds, status, completed_at
		FROM submissions
		WHERE quiz_id = $1 AND user_id = $2
		ORDER BY completed_at DESC
		LIMIT 1
	`
	return r.scanSubmission(r.db.QueryRowContext(ctx, query, quizID, userID))
}

func (r *SubmissionRepository) GetSubmissionsByUser(ctx context.Context, userID string) ([]*models.SubmissionWithQuiz, error) {
	query := `
		SELECT s.id, s.quiz_id, s.user_id, s.score, s.total_questions, s.passed, s.time_taken_seconds, s.status, s.completed_at,
		       q.title, q.topic, q.difficulty
		FROM submissions s
		JOIN quizzes q ON q.id = s.quiz_id
		WHERE s.user_id = $1
		ORDER BY s.completed_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.SubmissionWithQuiz
	for rows.Next() {
		submission := &models.Submission{}
		result := &models.SubmissionWithQuiz{Submission: submission}
		err := rows.Scan(
			&submission.ID,
			&submission.QuizID,
			&submission.UserID,
			&submission.Score,
			&submission.TotalQuestions,
			&submission.Passed,
			&submission.TimeTakenSeconds,
			&submission.Status,
			&submission.CompletedAt,
			&result.QuizTitle,
			&result.Topic,
			&result.Difficulty,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (r *SubmissionRepository) scanSubmission(row *sql.Row) (*models.Submission, error) {
	submission := &models.Submission{}
	err := row.Scan(
		&submission.ID,
		&submission.QuizID,
		&submission.UserID,
		&submission.Score,
		&submission.TotalQuestions,
		&submission.Passed,
		&submission.TimeTakenSeconds,
		&submission.Status,
		&submission.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return submission, nil
}
