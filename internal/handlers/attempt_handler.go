package handlers

import (
	"log"
	"net/http"

	"quizproctor/internal/dto"
	"quizproctor/internal/service"
	ws "quizproctor/internal/websocket"
	"quizproctor/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins in prod
	},
}

type AttemptHandler struct {
	hub         *ws.Hub
	quizService *service.QuizService
	authService *service.AuthService
	jwtSecret   string
}

func NewAttemptHandler(hub *ws.Hub, quizService *service.QuizService, authService *service.AuthService, jwtSecret string) *AttemptHandler {
	return &AttemptHandler{
		hub:         hub,
		quizService: quizService,
		authService: authService,
		jwtSecret:   jwtSecret,
	}
}

// HandleAttempt upgrades to a proctored attempt connection. Browsers cannot
// set headers on websocket requests, so the access token arrives as a query
// parameter. The quiz is addressed either by quiz_id or by topic plus
// difficulty.
func (h *AttemptHandler) HandleAttempt(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		dto.JsonError(c, http.StatusUnauthorized, "token is required")
		return
	}

	claims, err := jwt.ValidateAccessToken(token, h.jwtSecret)
	if err != nil {
		dto.JsonError(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	if h.authService.IsTokenRevoked(c.Request.Context(), claims.JTI) {
		dto.JsonError(c, http.StatusUnauthorized, "Token has been revoked")
		return
	}

	quizID := c.Query("quiz_id")
	if quizID == "" {
		topic := c.Query("topic")
		difficulty := c.Query("difficulty")
		if topic == "" || difficulty == "" {
			dto.JsonError(c, http.StatusBadRequest, "quiz_id or topic and difficulty required")
			return
		}

		quiz, _, err := h.quizService.GetQuizForAttempt(c.Request.Context(), topic, difficulty)
		if err != nil {
			dto.JsonError(c, http.StatusInternalServerError, "Failed to resolve quiz")
			return
		}
		if quiz == nil {
			dto.JsonError(c, http.StatusNotFound, "Quiz not found")
			return
		}
		quizID = quiz.ID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID, claims.Email, quizID)

	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
