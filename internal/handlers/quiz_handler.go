package handlers

import (
	"net/http"
	"time"

	"quizproctor/internal/dto"
	"quizproctor/internal/models"
	"quizproctor/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

func (h *QuizHandler) GetTopics(c *gin.Context) {
	topics, err := h.quizService.GetTopics(c.Request.Context())
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load topics")
		return
	}

	c.JSON(http.StatusOK, dto.GetTopicsResponse{Topics: topics})
}

func (h *QuizHandler) GetQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.GetActiveQuizzes(c.Request.Context())
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load quizzes")
		return
	}

	resp := dto.GetQuizzesResponse{Quizzes: make([]dto.QuizDTO, 0, len(quizzes))}
	for _, quiz := range quizzes {
		resp.Quizzes = append(resp.Quizzes, toQuizDTO(quiz))
	}

	c.JSON(http.StatusOK, resp)
}

// GetQuiz returns the quiz for a topic and difficulty with its questions.
// Correct option indexes never leave the server here.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	topic := c.Param("topic")
	difficulty := c.Param("difficulty")

	quiz, questions, err := h.quizService.GetQuizForAttempt(c.Request.Context(), topic, difficulty)
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to load quiz")
		return
	}
	if quiz == nil {
		dto.JsonError(c, http.StatusNotFound, "Quiz not found")
		return
	}

	resp := dto.GetQuizResponse{
		Quiz:      toQuizDTO(quiz),
		Questions: make([]dto.QuestionDTO, 0, len(questions)),
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.QuestionDTO{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      q.Options,
			OrderIndex:   q.OrderIndex,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func toQuizDTO(quiz *models.Quiz) dto.QuizDTO {
	return dto.QuizDTO{
		ID:              quiz.ID,
		Title:           quiz.Title,
		Description:     quiz.Description,
		Topic:           quiz.Topic,
		Difficulty:      quiz.Difficulty,
		DurationMinutes: quiz.DurationMinutes,
		PassingScore:    quiz.PassingScore,
		TotalQuestions:  quiz.TotalQuestions,
		IsActive:        quiz.IsActive,
		CreatedAt:       quiz.CreatedAt.Format(time.RFC3339),
	}
}
