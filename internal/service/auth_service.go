package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"log"
	"math/big"
	"time"

	"quizproctor/internal/constants"
	"quizproctor/internal/dto"
	"quizproctor/internal/repository"
	"quizproctor/pkg/cache"
	"quizproctor/pkg/jwt"
	"quizproctor/pkg/messaging"
	"quizproctor/pkg/validator"
)

type AuthService struct {
	authRepo  *repository.AuthRepository
	userRepo  *repository.UserRepository
	rabbitMQ  *messaging.RabbitMQClient
	jwtSecret string
}

func NewAuthService(redis *cache.RedisClient, db *sql.DB, rabbitMQ *messaging.RabbitMQClient, jwtSecret string) *AuthService {
	return &AuthService{
		authRepo:  repository.NewAuthRepository(redis, db),
		userRepo:  repository.NewUserRepository(db),
		rabbitMQ:  rabbitMQ,
		jwtSecret: jwtSecret,
	}
}

func (s *AuthService) Login(ctx context.Context, email string) *dto.LoginResponse {
	email = validator.NormalizeEmail(email)
	if err := validator.ValidateEmail(email); err != nil {
		return &dto.LoginResponse{
			Success: false,
			Message: "Invalid email address",
		}
	}

	code, err := generateCode(4)
	if err != nil {
		log.Printf("Failed to generate code: %v", err)
		return &dto.LoginResponse{
			Success: false,
			Message: "Failed to generate verification code",
		}
	}

	if err := s.authRepo.SaveAuthCode(ctx, email, code); err != nil {
		log.Printf("Failed to save auth code: %v", err)
		return &dto.LoginResponse{
			Success: false,
			Message: "Failed to save verification code",
		}
	}

	event := map[string]string{
		"email": email,
		"code":  code,
	}
	eventData, _ := json.Marshal(event)

	if err := s.rabbitMQ.Publish(ctx, constants.QueueSendAuthCode, eventData); err != nil {
		log.Printf("Failed to publish send_auth_code event: %v", err)
	}

	return &dto.LoginResponse{
		Success: true,
		Message: "Verification code sent to your email",
	}
}

func (s *AuthService) VerifyCode(ctx context.Context, email, code string) *dto.VerifyCodeResponse {
	email = validator.NormalizeEmail(email)

	authCode, err := s.authRepo.GetAuthCode(ctx, email)
	if err != nil {
		return &dto.VerifyCodeResponse{
			Success: false,
			Message: "Verification code not found or expired",
		}
	}

	if authCode.Attempts >= repository.MaxAttempts {
		s.authRepo.DeleteAuthCode(ctx, email)
		return &dto.VerifyCodeResponse{
			Success: false,
			Message: "Too many failed attempts. Please request a new code",
		}
	}

	if authCode.Code != code {
		s.authRepo.IncrementAuthCodeAttempts(ctx, email)
		return &dto.VerifyCodeResponse{
			Success: false,
			Message: "Invalid verification code",
		}
	}

	if time.Now().After(authCode.ExpiresAt) {
		s.authRepo.DeleteAuthCode(ctx, email)
		return &dto.VerifyCodeResponse{
			Success: false,
			Message: "Verification code expired",
		}
	}

	user, err := s.userRepo.GetOrCreateUser(ctx, email)
	if err != nil {
		log.Printf("Failed to get or create user: %v", err)
		return &dto.VerifyCodeResponse{
			Success: false,
			Message: "Failed to process user",
		}
	}

	tokens, err := jwt.GenerateTokenPair(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		log.Printf("Failed to generate tokens: %v", err)
		return &dto.VerifyCodeResponse{
			Success: false,
			Message: "Failed to generate tokens",
		}
	}

	if err := s.authRepo.SaveRefreshToken(ctx, tokens.RefreshToken, user.ID, time.Now().Add(jwt.RefreshTokenDuration)); err != nil {
		log.Printf("Failed to save refresh token: %v", err)
		return &dto.VerifyCodeResponse{
			Success: false,
			Message: "Failed to save refresh token",
		}
	}

	s.authRepo.DeleteAuthCode(ctx, email)

	return &dto.VerifyCodeResponse{
		Success:      true,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		UserID:       user.ID,
		Role:         user.Role,
		Message:      "Login successful",
	}
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) *dto.RefreshTokenResponse {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return &dto.RefreshTokenResponse{
			Success: false,
			Message: "Invalid refresh token",
		}
	}

	stored, err := s.authRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return &dto.RefreshTokenResponse{
			Success: false,
			Message: "Refresh token not found",
		}
	}

	if time.Now().After(stored.ExpiresAt) {
		s.authRepo.DeleteRefreshToken(ctx, refreshToken)
		return &dto.RefreshTokenResponse{
			Success: false,
			Message: "Refresh token expired",
		}
	}

	newTokens, err := jwt.GenerateTokenPair(claims.UserID, claims.Email, claims.Role, s.jwtSecret)
	if err != nil {
		log.Printf("Failed to generate new tokens: %v", err)
		return &dto.RefreshTokenResponse{
			Success: false,
			Message: "Failed to generate new tokens",
		}
	}

	if err := s.authRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		log.Printf("Failed to delete old refresh token: %v", err)
	}

	if err := s.authRepo.SaveRefreshToken(ctx, newTokens.RefreshToken, claims.UserID, time.Now().Add(jwt.RefreshTokenDuration)); err != nil {
		log.Printf("Failed to save new refresh token: %v", err)
		return &dto.RefreshTokenResponse{
			Success: false,
			Message: "Failed to save new refresh token",
		}
	}

	return &dto.RefreshTokenResponse{
		Success:      true,
		AccessToken:  newTokens.AccessToken,
		RefreshToken: newTokens.RefreshToken,
		Message:      "Tokens refreshed successfully",
	}
}

func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) *dto.LogoutResponse {
	jti, err := jwt.ExtractJTI(accessToken)
	if err != nil {
		log.Printf("Failed to extract JTI: %v", err)
		return &dto.LogoutResponse{
			Success: false,
			Message: "Invalid access token",
		}
	}

	if err := s.authRepo.AddToBlacklist(ctx, jti); err != nil {
		log.Printf("Failed to add token to blacklist: %v", err)
	}

	if refreshToken != "" {
		if err := s.authRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			log.Printf("Failed to delete refresh token: %v", err)
		}
	}

	return &dto.LogoutResponse{
		Success: true,
		Message: "Logged out successfully",
	}
}

// IsTokenRevoked reports whether the token's JTI has been blacklisted by a
// logout. Used by the auth middleware after signature validation.
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) bool {
	revoked, err := s.authRepo.IsBlacklisted(ctx, jti)
	if err != nil {
		log.Printf("Failed to check blacklist: %v", err)
		return false
	}
	return revoked
}

func generateCode(length int) (string, error) {
	const digits = "0123456789"
	code := make([]byte, length)

	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[num.Int64()]
	}

	return string(code), nil
}
