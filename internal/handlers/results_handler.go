package handlers

import (
	"net/http"
	"time"

	"quizproctor/internal/dto"
	"quizproctor/internal/service"

	"github.com/gin-gonic/gin"
)

type ResultsHandler struct {
	gradingService *service.GradingService
}

func NewResultsHandler(gradingService *service.GradingService) *ResultsHandler {
	return &ResultsHandler{
		gradingService: gradingService,
	}
}

// GetResult returns the user's most recent submission for a quiz.
func (h *ResultsHandler) GetResult(c *gin.Context) {
	quizID := c.Param("quiz_id")
	userID := c.GetString("user_id")

	submission, err := h.gradingService.GetLatestResult(c.Request.Context(), userID, quizID)
	if err != nil {
		dto.JsonError(c, http.StatusNotFound, "No submission found")
		return
	}

	percentage := 0
	if submission.TotalQuestions > 0 {
		percentage = submission.Score * 100 / submission.TotalQuestions
	}

	c.JSON(http.StatusOK, dto.SubmissionDTO{
		SubmissionID:     submission.ID,
		QuizID:           submission.QuizID,
		Score:            submission.Score,
		TotalQuestions:   submission.TotalQuestions,
		Percentage:       percentage,
		Passed:           submission.Passed,
		TimeTakenSeconds: submission.TimeTakenSeconds,
		Status:           submission.Status,
		CompletedAt:      submission.CompletedAt.Format(time.RFC3339),
	})
}

func (h *ResultsHandler) GetSubmissions(c *gin.Context) {
	userID := c.GetString("user_id")

	submissions, err := h.gradingService.GetSubmissionsByUser(c.Request.Context(), userID)
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load submissions")
		return
	}

	resp := dto.GetSubmissionsResponse{Submissions: make([]dto.SubmissionDTO, 0, len(submissions))}
	for _, s := range submissions {
		percentage := 0
		if s.Submission.TotalQuestions > 0 {
			percentage = s.Submission.Score * 100 / s.Submission.TotalQuestions
		}
		resp.Submissions = append(resp.Submissions, dto.SubmissionDTO{
			SubmissionID:     s.Submission.ID,
			QuizID:           s.Submission.QuizID,
			QuizTitle:        s.QuizTitle,
			Score:            s.Submission.Score,
			TotalQuestions:   s.Submission.TotalQuestions,
			Percentage:       percentage,
			Passed:           s.Submission.Passed,
			TimeTakenSeconds: s.Submission.TimeTakenSeconds,
			Status:           s.Submission.Status,
			CompletedAt:      s.Submission.CompletedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, resp)
}
