package handlers

import (
	"net/http"
	"strings"

	"quizproctor/internal/dto"
	"quizproctor/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp := h.authService.Login(c.Request.Context(), req.Email)
	if !resp.Success {
		dto.JsonError(c, http.StatusBadRequest, resp.Message)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp := h.authService.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if !resp.Success {
		dto.JsonError(c, http.StatusUnauthorized, resp.Message)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if !resp.Success {
		dto.JsonError(c, http.StatusUnauthorized, resp.Message)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshTokenRequest
	// The refresh token is optional on logout.
	_ = c.ShouldBindJSON(&req)

	accessToken := ""
	if parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		accessToken = parts[1]
	}

	resp := h.authService.Logout(c.Request.Context(), accessToken, req.RefreshToken)
	if !resp.Success {
		dto.JsonError(c, http.StatusUnauthorized, resp.Message)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		dto.JsonError(c, http.StatusNotFound, "Profile not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := c.GetString("user_id")
	if err := h.userService.UpdateFullName(c.Request.Context(), userID, req.FullName); err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
