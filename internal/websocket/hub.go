package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"quizproctor/internal/constants"
	"quizproctor/internal/models"
	"quizproctor/internal/service"
	"quizproctor/internal/session"
)

type ClientMessage struct {
	Client  *Client
	Message Message
}

// QuizCatalog loads the quiz and question set an attempt runs against.
type QuizCatalog interface {
	GetQuizByID(ctx context.Context, quizID string) (*models.Quiz, error)
	GetQuestions(ctx context.Context, quizID string) ([]models.Question, error)
}

// ProgressStore persists and deletes resume records for live attempts.
type ProgressStore interface {
	FetchRecord(ctx context.Context, userID, quizID string) (*models.Progress, error)
	SaveSnapshot(ctx context.Context, progress *models.Progress) error
	DeleteProgress(ctx context.Context, userID, quizID string) error
}

// Grader scores a finished attempt and records the submission.
type Grader interface {
	Grade(ctx context.Context, userID, quizID string, answers map[int]int, timeTakenSeconds int, status string) (*service.GradeResult, error)
}

// Hub owns every live proctored attempt. All session mutation happens on the
// Run goroutine, so attempt state needs no locking of its own.
type Hub struct {
	clients       map[string]*Client
	Register      chan *Client
	Unregister    chan *Client
	HandleMessage chan *ClientMessage
	expired       chan string

	quizService     QuizCatalog
	progressService ProgressStore
	gradingService  Grader

	clock           session.Clock
	store           session.DeadlineStore
	defaultDuration time.Duration
}

func NewHub(
	quizService QuizCatalog,
	progressService ProgressStore,
	gradingService Grader,
	store session.DeadlineStore,
	defaultDuration time.Duration,
) *Hub {
	return &Hub{
		clients:         make(map[string]*Client),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		HandleMessage:   make(chan *ClientMessage),
		expired:         make(chan string, 16),
		quizService:     quizService,
		progressService: progressService,
		gradingService:  gradingService,
		clock:           session.SystemClock(),
		store:           store,
		defaultDuration: defaultDuration,
	}
}

func attemptKey(userID, quizID string) string {
	return userID + ":" + quizID
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case clientMsg := <-h.HandleMessage:
			h.handleClientMessage(clientMsg)

		case key := <-h.expired:
			h.handleExpiry(key)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	key := attemptKey(client.UserID, client.QuizID)

	if old, ok := h.clients[key]; ok {
		old.SendError("Replaced by a new connection")
		old.Conn.Close()
		if old.countdown != nil {
			old.countdown.Pause()
		}
	}
	h.clients[key] = client

	log.Printf("Client registered: user=%s, quiz=%s", client.UserID, client.QuizID)
	h.handleJoin(client)
}

func (h *Hub) unregisterClient(client *Client) {
	key := attemptKey(client.UserID, client.QuizID)

	if current, ok := h.clients[key]; ok && current == client {
		delete(h.clients, key)
		// The persisted deadline keeps running; only the local timer stops.
		if client.countdown != nil {
			client.countdown.Pause()
		}
		log.Printf("Client unregistered: user=%s, quiz=%s", client.UserID, client.QuizID)
	}
	close(client.Send)
}

func (h *Hub) handleJoin(client *Client) {
	ctx := context.Background()

	quiz, err := h.quizService.GetQuizByID(ctx, client.QuizID)
	if err != nil || quiz == nil {
		log.Printf("Failed to load quiz %s: %v", client.QuizID, err)
		client.SendError("Quiz not found")
		return
	}
	if !quiz.IsActive {
		client.SendError("Quiz is no longer available")
		return
	}

	questions, err := h.quizService.GetQuestions(ctx, quiz.ID)
	if err != nil || len(questions) == 0 {
		log.Printf("Failed to load questions for quiz %s: %v", quiz.ID, err)
		client.SendError("Failed to load quiz")
		return
	}

	sess := session.New(client.UserID, quiz.ID, questions)
	resumed := false
	if progress, err := h.progressService.FetchRecord(ctx, client.UserID, quiz.ID); err != nil {
		log.Printf("Failed to load progress for %s: %v", attemptKey(client.UserID, quiz.ID), err)
	} else if progress != nil {
		sess.Resume(progress)
		resumed = true
	}

	key := attemptKey(client.UserID, quiz.ID)
	client.quiz = quiz
	client.questions = questions
	client.session = sess
	client.monitor = session.NewMonitor(func(reason session.ViolationReason) {
		h.handleViolation(client, reason)
	})
	client.countdown = session.NewCountdown(key, service.Duration(quiz, h.defaultDuration), h.clock, h.store, func() {
		h.expired <- key
	})

	client.SendMessage(MessageTypeConnected, ConnectedPayload{
		QuizID:          quiz.ID,
		QuizTitle:       quiz.Title,
		Topic:           quiz.Topic,
		Difficulty:      quiz.Difficulty,
		State:           sess.State().String(),
		QuestionIndex:   sess.CurrentIndex(),
		TotalQuestions:  sess.TotalQuestions(),
		AnsweredCount:   sess.AnsweredCount(),
		Score:           sess.Score(),
		DurationSeconds: int(service.Duration(quiz, h.defaultDuration).Seconds()),
		Resumed:         resumed,
	})
}

func (h *Hub) handleClientMessage(clientMsg *ClientMessage) {
	client := clientMsg.Client
	msg := clientMsg.Message

	if client.session == nil && msg.Type != MessageTypePing {
		client.SendError("Attempt not initialized")
		return
	}

	switch msg.Type {
	case MessageTypeEnterFullscreen:
		h.handleEnterFullscreen(client)

	case MessageTypeSelectAnswer:
		var payload SelectAnswerPayload
		if err := decodePayload(msg.Payload, &payload); err != nil {
			client.SendError("Invalid answer format")
			return
		}
		if err := client.session.SelectAnswer(payload.OptionIndex); err != nil {
			client.SendError(err.Error())
		}

	case MessageTypeSubmitAnswer:
		h.handleSubmitAnswer(client)

	case MessageTypeNextQuestion:
		h.handleNextQuestion(client)

	case MessageTypeStartOver:
		h.handleStartOver(client)

	case MessageTypeFullscreenChange:
		var payload FullscreenChangePayload
		if err := decodePayload(msg.Payload, &payload); err != nil {
			client.SendError("Invalid payload")
			return
		}
		client.monitor.HandleFullscreenChange(payload.IsFullscreen)

	case MessageTypeVisibilityChange:
		var payload VisibilityChangePayload
		if err := decodePayload(msg.Payload, &payload); err != nil {
			client.SendError("Invalid payload")
			return
		}
		client.monitor.HandleVisibilityChange(payload.Hidden)

	case MessageTypeCopyAttempt:
		client.monitor.HandleCopyAttempt()

	case MessageTypeExternalLink:
		client.monitor.SuppressNextHide()

	case MessageTypePing:
		client.SendMessage(MessageTypePong, nil)

	default:
		client.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Hub) handleEnterFullscreen(client *Client) {
	ctx := context.Background()

	if err := client.session.EnterFullscreen(); err != nil {
		client.SendError(err.Error())
		return
	}
	client.monitor.Arm()

	if err := client.countdown.Start(ctx); err != nil {
		log.Printf("Failed to start countdown for %s: %v", attemptKey(client.UserID, client.QuizID), err)
		client.SendError("Failed to start timer")
		return
	}

	h.sendCurrentQuestion(client)
}

func (h *Hub) handleSubmitAnswer(client *Client) {
	correct, err := client.session.SubmitAnswer()
	if err != nil {
		client.SendError(err.Error())
		return
	}

	question, qErr := client.session.CurrentQuestion()
	if qErr != nil {
		client.SendError("Failed to load question")
		return
	}

	client.SendMessage(MessageTypeAnswerResult, AnswerResultPayload{
		IsCorrect:          correct,
		CorrectOptionIndex: question.CorrectOptionIndex,
		Score:              client.session.Score(),
		AnsweredCount:      client.session.AnsweredCount(),
	})

	h.persistProgress(client)
}

func (h *Hub) handleNextQuestion(client *Client) {
	done, err := client.session.NextQuestion()
	if err != nil {
		client.SendError(err.Error())
		return
	}

	if done {
		h.finishAttempt(client, constants.SubmissionStatusCompleted, MessageTypeQuizFinished)
		return
	}

	h.persistProgress(client)
	h.sendCurrentQuestion(client)
}

func (h *Hub) handleStartOver(client *Client) {
	ctx := context.Background()

	client.session = session.New(client.UserID, client.QuizID, client.questions)
	client.monitor.Disarm()
	client.countdown.Clear(ctx)
	if err := h.progressService.DeleteProgress(ctx, client.UserID, client.QuizID); err != nil {
		log.Printf("Failed to delete progress for %s: %v", attemptKey(client.UserID, client.QuizID), err)
	}

	sess := client.session
	client.SendMessage(MessageTypeConnected, ConnectedPayload{
		QuizID:          client.quiz.ID,
		QuizTitle:       client.quiz.Title,
		Topic:           client.quiz.Topic,
		Difficulty:      client.quiz.Difficulty,
		State:           sess.State().String(),
		QuestionIndex:   sess.CurrentIndex(),
		TotalQuestions:  sess.TotalQuestions(),
		AnsweredCount:   sess.AnsweredCount(),
		Score:           sess.Score(),
		DurationSeconds: int(service.Duration(client.quiz, h.defaultDuration).Seconds()),
	})
}

func (h *Hub) handleViolation(client *Client, reason session.ViolationReason) {
	if !reason.ResetsSession() {
		client.SendMessage(MessageTypeViolationWarning, ViolationPayload{
			Reason:  string(reason),
			Message: reason.Message(),
		})
		return
	}

	ctx := context.Background()

	client.session.Violation(reason)
	client.monitor.Disarm()
	client.countdown.Clear(ctx)
	if err := h.progressService.DeleteProgress(ctx, client.UserID, client.QuizID); err != nil {
		log.Printf("Failed to delete progress for %s: %v", attemptKey(client.UserID, client.QuizID), err)
	}

	log.Printf("Attempt reset: user=%s, quiz=%s, reason=%s", client.UserID, client.QuizID, reason)
	client.SendMessage(MessageTypeViolationReset, ViolationPayload{
		Reason:  string(reason),
		Message: reason.Message(),
	})
}

func (h *Hub) handleExpiry(key string) {
	client, ok := h.clients[key]
	if !ok || client.session == nil {
		return
	}

	// The timer goroutine can queue an expiry just before a completion or
	// violation reset clears the countdown; a key for a window that no
	// longer exists must not finish (or re-finish) the attempt.
	switch client.session.State() {
	case session.StateCompleted, session.StateNotStarted:
		return
	}

	client.session.Timeout()
	h.finishAttempt(client, constants.SubmissionStatusTimedOut, MessageTypeTimeExpired)
}

// finishAttempt grades the locked answers, clears the persisted window and
// progress, and reports the result to the client.
func (h *Hub) finishAttempt(client *Client, status string, msgType MessageType) {
	ctx := context.Background()

	duration := service.Duration(client.quiz, h.defaultDuration)
	timeTaken := int((duration - client.countdown.Remaining()).Seconds())
	if timeTaken < 0 {
		timeTaken = 0
	}

	client.countdown.Clear(ctx)
	client.monitor.Disarm()

	result, err := h.gradingService.Grade(ctx, client.UserID, client.QuizID, client.session.LockedAnswers(), timeTaken, status)
	if err != nil {
		log.Printf("Failed to grade attempt for %s: %v", attemptKey(client.UserID, client.QuizID), err)
		client.SendError("Failed to grade quiz")
		return
	}

	if err := h.progressService.DeleteProgress(ctx, client.UserID, client.QuizID); err != nil {
		log.Printf("Failed to delete progress for %s: %v", attemptKey(client.UserID, client.QuizID), err)
	}

	percentage := 0
	if result.TotalQuestions > 0 {
		percentage = result.Score * 100 / result.TotalQuestions
	}

	client.SendMessage(msgType, QuizFinishedPayload{
		SubmissionID:   result.SubmissionID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     percentage,
		Passed:         result.Passed,
		Status:         status,
	})
}

func (h *Hub) sendCurrentQuestion(client *Client) {
	question, err := client.session.CurrentQuestion()
	if err != nil {
		client.SendError("Failed to load question")
		return
	}

	payload := QuestionPayload{
		Question: QuestionData{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			Options:      question.Options,
			OrderIndex:   question.OrderIndex,
		},
		QuestionIndex:    client.session.CurrentIndex(),
		TotalQuestions:   client.session.TotalQuestions(),
		RemainingSeconds: int(client.countdown.Remaining().Seconds()),
		ServerTime:       h.clock.Now().UnixMilli(),
	}
	if opt, ok := client.session.LockedAnswer(client.session.CurrentIndex()); ok {
		locked := opt
		payload.LockedOption = &locked
	}

	client.SendMessage(MessageTypeQuestion, payload)
}

func (h *Hub) persistProgress(client *Client) {
	snapshot := client.session.Snapshot()
	if err := h.progressService.SaveSnapshot(context.Background(), snapshot); err != nil {
		log.Printf("Failed to save progress for %s: %v", attemptKey(client.UserID, client.QuizID), err)
	}
}

func decodePayload(payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
