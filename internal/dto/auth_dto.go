package dto

type LoginRequest struct {
	Email string `json:"email" binding:"required,email" example:"candidate@example.com"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email" example:"candidate@example.com"`
	Code  string `json:"code" binding:"required,len=4" example:"1234"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=100" example:"Jane Doe"`
}

type LoginResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Verification code sent to email"`
}

type VerifyCodeResponse struct {
	Success      bool   `json:"success" example:"true"`
	AccessToken  string `json:"access_token,omitempty" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token,omitempty" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID       string `json:"user_id,omitempty" example:"6695dde6-8f6e-4973-905f-077ff7d3e2f8"`
	Role         string `json:"role,omitempty" example:"candidate"`
	Message      string `json:"message,omitempty" example:"Login successful"`
}

type RefreshTokenResponse struct {
	Success      bool   `json:"success" example:"true"`
	AccessToken  string `json:"access_token,omitempty" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token,omitempty" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Message      string `json:"message,omitempty" example:"Token refreshed successfully"`
}

type LogoutResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Logged out successfully"`
}

type ProfileDTO struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email     string `json:"email" example:"candidate@example.com"`
	FullName  string `json:"full_name" example:"Jane Doe"`
	Role      string `json:"role" example:"candidate"`
	CreatedAt string `json:"created_at" example:"2025-01-15T10:00:00Z"`
}

type GetUsersResponse struct {
	Users []ProfileDTO `json:"users"`
	Total int          `json:"total" example:"42"`
}
