package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quizproctor/internal/models"

	"github.com/google/uuid"
)

type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) InsertQuizAnalytics(ctx context.Context, record *models.QuizAnalytics) error {
	record.ID = uuid.New().String()
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now()
	}

	query := `
		INSERT INTO quiz_analytics (id, topic, difficulty, questions_total, questions_answered, correct_answers, time_taken_seconds, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Topic,
		record.Difficulty,
		record.QuestionsTotal,
		record.QuestionsAnswered,
		record.CorrectAnswers,
		record.TimeTakenSeconds,
		record.CompletedAt,
	)
	return err
}

func (r *AnalyticsRepository) InsertQuestionAnalytics(ctx context.Context, records []*models.QuestionAnalytics) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO question_analytics (id, topic, difficulty, question_id, was_correct, time_taken_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, record := range records {
		record.ID = uuid.New().String()
		if _, err := stmt.ExecContext(ctx, record.ID, record.Topic, record.Difficulty, record.QuestionID, record.WasCorrect, record.TimeTakenSeconds); err != nil {
			return fmt.Errorf("failed to insert question analytics: %w", err)
		}
	}

	return tx.Commit()
}

func (r *AnalyticsRepository) GetQuizAnalytics(ctx context.Context) ([]*models.QuizAnalytics, error) {
	query := `
		SELECT id, topic, difficulty, questions_total, questions_answered, correct_answers, time_taken_seconds, completed_at
		FROM quiz_analytics
		ORDER BY completed_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.QuizAnalytics
	for rows.Next() {
		record := &models.QuizAnalytics{}
		err := rows.Scan(
			&record.ID,
			&record.Topic,
			&record.Difficulty,
			&record.QuestionsTotal,
			&record.QuestionsAnswered,
			&record.CorrectAnswers,
			&record.TimeTakenSeconds,
			&record.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// QuestionAccuracy holds per-question correctness counts for the admin view.
type QuestionAccuracy struct {
	QuestionID string
	Attempts   int
	Correct    int
}

func (r *AnalyticsRepository) GetQuestionAccuracy(ctx context.Context, topic, difficulty string) ([]*QuestionAccuracy, error) {
	query := `
		SELECT question_id, COUNT(*), COUNT(*) FILTER (WHERE was_correct)
		FROM question_analytics
		WHERE ($1 = '' OR topic = $1)
		  AND ($2 = '' OR difficulty = $2)
		GROUP BY question_id
		ORDER BY question_id
	`
	rows, err := r.db.QueryContext(ctx, query, topic, difficulty)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*QuestionAccuracy
	for rows.Next() {
		s := &QuestionAccuracy{}
		if err := rows.Scan(&s.QuestionID, &s.Attempts, &s.Correct); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PopularTopic holds a completion count for a single topic.
type PopularTopic struct {
	Topic       string
	Completions int
}

func (r *AnalyticsRepository) GetPopularTopics(ctx context.Context, limit int) ([]*PopularTopic, error) {
	query := `
		SELECT topic, COUNT(*)
		FROM quiz_analytics
		GROUP BY topic
		ORDER BY COUNT(*) DESC, topic
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*PopularTopic
	for rows.Next() {
		t := &PopularTopic{}
		if err := rows.Scan(&t.Topic, &t.Completions); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *AnalyticsRepository) CountCompletions(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_analytics`).Scan(&count)
	return count, err
}
