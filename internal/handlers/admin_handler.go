package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"quizproctor/internal/dto"
	"quizproctor/internal/service"
	"quizproctor/pkg/storage"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	quizService      *service.QuizService
	userService      *service.UserService
	analyticsService *service.AnalyticsService
	s3               *storage.S3Client
	reportsBucket    string
}

func NewAdminHandler(quizService *service.QuizService, userService *service.UserService, analyticsService *service.AnalyticsService, s3 *storage.S3Client, reportsBucket string) *AdminHandler {
	return &AdminHandler{
		quizService:      quizService,
		userService:      userService,
		analyticsService: analyticsService,
		s3:               s3,
		reportsBucket:    reportsBucket,
	}
}

func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), &req, c.GetString("user_id"))
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.CreateQuizResponse{
		QuizID:  quiz.ID,
		Message: "Quiz created",
	})
}

func (h *AdminHandler) SetQuizActive(c *gin.Context) {
	var req dto.SetQuizActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	quizID := c.Param("quiz_id")
	if err := h.quizService.SetQuizActive(c.Request.Context(), quizID, *req.IsActive); err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to update quiz")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	resp, err := h.userService.GetUsers(c.Request.Context(), limit, offset)
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load users")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	resp, err := h.analyticsService.GetAnalytics(c.Request.Context())
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load analytics")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetPopularTopics(c *gin.Context) {
	resp, err := h.analyticsService.GetPopularTopics(c.Request.Context())
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load popular topics")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetQuestionAccuracy(c *gin.Context) {
	resp, err := h.analyticsService.GetQuestionAccuracy(c.Request.Context(), c.Query("topic"), c.Query("difficulty"))
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load question stats")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadReport streams the stored JSON audit record for a submission.
func (h *AdminHandler) DownloadReport(c *gin.Context) {
	if h.s3 == nil {
		dto.JsonError(c, http.StatusServiceUnavailable, "Report storage unavailable")
		return
	}

	userID := c.Param("user_id")
	submissionID := c.Param("submission_id")
	objectName := fmt.Sprintf("%s/%s.json", userID, submissionID)

	object, err := h.s3.DownloadFile(c.Request.Context(), h.reportsBucket, objectName)
	if err != nil {
		dto.JsonError(c, http.StatusNotFound, "Report not found")
		return
	}
	defer object.Close()

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", submissionID))
	if _, err := io.Copy(c.Writer, object); err != nil {
		c.Error(err)
	}
}
