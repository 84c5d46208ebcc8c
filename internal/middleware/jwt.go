package middleware

import (
	"net/http"
	"strings"

	"quizproctor/internal/dto"
	"quizproctor/internal/service"
	"quizproctor/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer token locally and rejects tokens revoked by a
// logout. On success it stores user_id, email and role in the request context.
func JWTAuth(authService *service.AuthService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := jwt.ValidateAccessToken(token, jwtSecret)
		if err != nil {
			dto.JsonError(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		if authService.IsTokenRevoked(c.Request.Context(), claims.JTI) {
			dto.JsonError(c, http.StatusUnauthorized, "Token has been revoked")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Authorization header is required")
		c.Abort()
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		dto.JsonError(c, http.StatusUnauthorized, "Invalid authorization header format")
		c.Abort()
		return "", false
	}

	return parts[1], true
}
