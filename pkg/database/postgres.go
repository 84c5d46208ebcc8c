package database

import (
	"context"
	"database/sql"
	"fmt"

	"quizproctor/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	db     *sql.DB
	config *config.DBConfig
}

func NewPostgresClient(cfg *config.DBConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{
		db:     db,
		config: cfg,
	}, nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			full_name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(50) NOT NULL DEFAULT 'candidate',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS refresh_tokens (
			token_hash VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id);

		CREATE TABLE IF NOT EXISTS quizzes (
			id VARCHAR(255) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			topic VARCHAR(100) NOT NULL,
			difficulty VARCHAR(50) NOT NULL,
			duration_minutes INTEGER NOT NULL DEFAULT 15,
			passing_score INTEGER NOT NULL DEFAULT 0,
			total_questions INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_by VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_quizzes_topic ON quizzes(topic, difficulty);

		CREATE TABLE IF NOT EXISTS questions (
			id VARCHAR(255) PRIMARY KEY,
			quiz_id VARCHAR(255) NOT NULL REFERENCES quizzes(id),
			question_text TEXT NOT NULL,
			options JSONB NOT NULL,
			correct_option_index INTEGER NOT NULL,
			order_index INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_questions_quiz_id ON questions(quiz_id);

		CREATE TABLE IF NOT EXISTS quiz_progress (
			user_id VARCHAR(255) NOT NULL,
			quiz_id VARCHAR(255) NOT NULL,
			current_question_index INTEGER NOT NULL DEFAULT 0,
			answers JSONB NOT NULL DEFAULT '{}',
			score INTEGER NOT NULL DEFAULT 0,
			last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, quiz_id)
		);

		CREATE TABLE IF NOT EXISTS submissions (
			id VARCHAR(255) PRIMARY KEY,
			quiz_id VARCHAR(255) NOT NULL REFERENCES quizzes(id),
			user_id VARCHAR(255) NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			passed BOOLEAN NOT NULL,
			time_taken_seconds INTEGER NOT NULL DEFAULT 0,
			status VARCHAR(50) NOT NULL DEFAULT 'completed',
			completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_submissions_quiz_user ON submissions(quiz_id, user_id);

		CREATE TABLE IF NOT EXISTS leaderboard (
			id VARCHAR(255) PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			topic VARCHAR(100) NOT NULL,
			difficulty VARCHAR(50) NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			time_taken_seconds INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_topic ON leaderboard(topic, difficulty);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard(score DESC, time_taken_seconds ASC);

		CREATE TABLE IF NOT EXISTS quiz_analytics (
			id VARCHAR(255) PRIMARY KEY,
			topic VARCHAR(100) NOT NULL,
			difficulty VARCHAR(50) NOT NULL,
			questions_total INTEGER NOT NULL,
			questions_answered INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			time_taken_seconds INTEGER NOT NULL DEFAULT 0,
			completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_quiz_analytics_topic ON quiz_analytics(topic, difficulty);

		CREATE TABLE IF NOT EXISTS question_analytics (
			id VARCHAR(255) PRIMARY KEY,
			topic VARCHAR(100) NOT NULL,
			difficulty VARCHAR(50) NOT NULL,
			question_id VARCHAR(255) NOT NULL,
			was_correct BOOLEAN NOT NULL,
			time_taken_seconds INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_question_analytics_question ON question_analytics(question_id);
	`

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}
