package service

import (
	"context"
	"database/sql"
	"time"

	"quizproctor/internal/dto"
	"quizproctor/internal/models"
	"quizproctor/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{
		userRepo: repository.NewUserRepository(db),
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*dto.ProfileDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	d := toProfileDTO(user)
	return &d, nil
}

func (s *UserService) UpdateFullName(ctx context.Context, userID, fullName string) error {
	return s.userRepo.UpdateFullName(ctx, userID, fullName)
}

func (s *UserService) GetUsers(ctx context.Context, limit, offset int) (*dto.GetUsersResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := s.userRepo.GetUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.GetUsersResponse{
		Users: make([]dto.ProfileDTO, 0, len(users)),
		Total: total,
	}
	for _, user := range users {
		resp.Users = append(resp.Users, toProfileDTO(user))
	}
	return resp, nil
}

func toProfileDTO(user *models.Profile) dto.ProfileDTO {
	return dto.ProfileDTO{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
