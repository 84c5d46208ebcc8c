package handlers

import (
	"net/http"
	"strconv"

	"quizproctor/internal/dto"
	"quizproctor/internal/service"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	topic := c.Query("topic")
	difficulty := c.Query("difficulty")
	limit, _ := strconv.Atoi(c.Query("limit"))
	email := c.GetString("email")

	resp, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), email, topic, difficulty, limit)
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	c.JSON(http.StatusOK, resp)
}
