package repository

import (
	"context"
	"database/sql"
	"time"

	"quizproctor/internal/constants"
	"quizproctor/internal/models"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreateUser looks a profile up by email, creating a candidate profile
// on first login.
func (r *UserRepository) GetOrCreateUser(ctx context.Context, email string) (*models.Profile, error) {
	profile, err := r.GetUserByEmail(ctx, email)
	if err == nil {
		return profile, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	profile = &models.Profile{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      constants.RoleCandidate,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO profiles (id, email, full_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, full_name, role, created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		profile.ID, profile.Email, profile.FullName, profile.Role, profile.CreatedAt,
	).Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.Role, &profile.CreatedAt)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT id, email, full_name, role, created_at FROM profiles WHERE email = $1`
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Role, &profile.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT id, email, full_name, role, created_at FROM profiles WHERE id = $1`
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Role, &profile.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *UserRepository) UpdateFullName(ctx context.Context, userID, fullName string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET full_name = $1 WHERE id = $2`, fullName, userID)
	return err
}

// GetUsers lists registered profiles for the admin panel, newest first.
func (r *UserRepository) GetUsers(ctx context.Context, limit, offset int) ([]*models.Profile, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, email, full_name, role, created_at
		FROM profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile := &models.Profile{}
		err := rows.Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.Role, &profile.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, total, rows.Err()
}
