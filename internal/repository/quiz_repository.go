package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"quizproctor/internal/models"

	"github.com/google/uuid"
)

type QuizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// CreateQuiz inserts a quiz with its questions in one transaction so a
// failed question batch never leaves an empty quiz behind.
func (r *QuizRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz, questions []models.Question) error {
	quiz.ID = uuid.New().String()
	quiz.CreatedAt = time.Now()
	quiz.TotalQuestions = len(questions)
	quiz.IsActive = true

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO quizzes (id, title, description, topic, difficulty, duration_minutes, passing_score, total_questions, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, query,
		quiz.ID,
		quiz.Title,
		quiz.Description,
		quiz.Topic,
		quiz.Difficulty,
		quiz.DurationMinutes,
		quiz.PassingScore,
		quiz.TotalQuestions,
		quiz.IsActive,
		quiz.CreatedBy,
		quiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}

	for i := range questions {
		q := &questions[i]
		q.ID = uuid.New().String()
		q.QuizID = quiz.ID
		q.OrderIndex = i

		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("failed to marshal options: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO questions (id, quiz_id, question_text, options, correct_option_index, order_index)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, q.ID, q.QuizID, q.QuestionText, string(optionsJSON), q.CorrectOptionIndex, q.OrderIndex)
		if err != nil {
			return fmt.Errorf("failed to insert question %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *QuizRepository) GetQuizByID(ctx context.Context, quizID string) (*models.Quiz, error) {
	query := `
		SELECT id, title, description, topic, difficulty, duration_minutes, passing_score, total_questions, is_active, created_by, created_at
		FROM quizzes
		WHERE id = $1
	`
	quiz := &models.Quiz{}
	err := r.db.QueryRowContext(ctx, query, quizID).Scan(
		&quiz.ID,
		&quiz.Title,
		&quiz.Description,
		&quiz.Topic,
		&quiz.Difficulty,
		&quiz.DurationMinutes,
		&quiz.PassingScore,
		&quiz.TotalQuestions,
		&quiz.IsActive,
		&quiz.CreatedBy,
		&quiz.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *QuizRepository) GetQuizByTopic(ctx context.Context, topic, difficulty string) (*models.Quiz, error) {
	query := `
		SELECT id, title, description, topic, difficulty, duration_minutes, passing_score, total_questions, is_active, created_by, created_at
		FROM quizzes
		WHERE topic = $1 AND difficulty = $2 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	quiz := &models.Quiz{}
	err := r.db.QueryRowContext(ctx, query, topic, difficulty).Scan(
		&quiz.ID,
		&quiz.Title,
		&quiz.Description,
		&quiz.Topic,
		&quiz.Difficulty,
		&quiz.DurationMinutes,
		&quiz.PassingScore,
		&quiz.TotalQuestions,
		&quiz.IsActive,
		&quiz.CreatedBy,
		&quiz.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *QuizRepository) GetActiveQuizzes(ctx context.Context) ([]*models.Quiz, error) {
	query := `
		SELECT id, title, description, topic, difficulty, duration_minutes, passing_score, total_questions, is_active, created_by, created_at
		FROM quizzes
		WHERE is_active = TRUE
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		quiz := &models.Quiz{}
		err := rows.Scan(
			&quiz.ID,
			&quiz.Title,
			&quiz.Description,
			&quiz.Topic,
			&quiz.Difficulty,
			&quiz.DurationMinutes,
			&quiz.PassingScore,
			&quiz.TotalQuestions,
			&quiz.IsActive,
			&quiz.CreatedBy,
			&quiz.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (r *QuizRepository) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]models.Question, error) {
	query := `
		SELECT id, quiz_id, question_text, options, correct_option_index, order_index
		FROM questions
		WHERE quiz_id = $1
		ORDER BY order_index ASC
	`
	rows, err := r.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var optionsJSON string
		err := rows.Scan(&q.ID, &q.QuizID, &q.QuestionText, &optionsJSON, &q.CorrectOptionIndex, &q.OrderIndex)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			return nil, fmt.Errorf("failed to parse options for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *QuizRepository) SetQuizActive(ctx context.Context, quizID string, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE quizzes SET is_active = $1 WHERE id = $2`, active, quizID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("quiz not found")
	}
	return nil
}

// GetTopics lists distinct active topic/difficulty pairs for the catalog.
func (r *QuizRepository) GetTopics(ctx context.Context) (map[string][]string, error) {
	query := `
		SELECT DISTINCT topic, difficulty
		FROM quizzes
		WHERE is_active = TRUE
		ORDER BY topic, difficulty
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make(map[string][]string)
	for rows.Next() {
		var topic, difficulty string
		if err := rows.Scan(&topic, &difficulty); err != nil {
			return nil, err
		}
		topics[topic] = append(topics[topic], difficulty)
	}
	return topics, rows.Err()
}
