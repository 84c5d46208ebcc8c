package handlers

import (
	"net/http"

	"quizproctor/internal/dto"
	"quizproctor/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

// GetProgress returns the saved attempt state for a quiz under a "data"
// key, null when the user has none.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	quizID := c.Query("quiz_id")
	if quizID == "" {
		dto.JsonError(c, http.StatusBadRequest, "quiz_id is required")
		return
	}

	userID := c.GetString("user_id")
	progress, err := h.progressService.GetProgress(c.Request.Context(), userID, quizID)
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	c.JSON(http.StatusOK, dto.GetProgressResponse{Data: progress})
}

func (h *ProgressHandler) SaveProgress(c *gin.Context) {
	var req dto.SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := c.GetString("user_id")
	if err := h.progressService.SaveProgress(c.Request.Context(), userID, &req); err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to save progress")
		return
	}

	c.JSON(http.StatusOK, dto.SaveProgressResponse{Success: true})
}

func (h *ProgressHandler) DeleteProgress(c *gin.Context) {
	quizID := c.Query("quiz_id")
	if quizID == "" {
		dto.JsonError(c, http.StatusBadRequest, "quiz_id is required")
		return
	}

	userID := c.GetString("user_id")
	if err := h.progressService.DeleteProgress(c.Request.Context(), userID, quizID); err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to delete progress")
		return
	}

	c.JSON(http.StatusOK, dto.DeleteProgressResponse{Success: true})
}
