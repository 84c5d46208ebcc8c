package middleware

import (
	"net/http"

	"quizproctor/internal/constants"
	"quizproctor/internal/dto"

	"github.com/gin-gonic/gin"
)

// AdminOnly must run after JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != constants.RoleAdmin {
			dto.JsonError(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
