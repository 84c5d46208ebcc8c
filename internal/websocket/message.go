package websocket

type MessageType string

const (
	// Client -> Server
	MessageTypeEnterFullscreen  MessageType = "enter_fullscreen"
	MessageTypeSelectAnswer     MessageType = "select_answer"
	MessageTypeSubmitAnswer     MessageType = "submit_answer"
	MessageTypeNextQuestion     MessageType = "next_question"
	MessageTypeStartOver        MessageType = "start_over"
	MessageTypeFullscreenChange MessageType = "fullscreen_change"
	MessageTypeVisibilityChange MessageType = "visibility_change"
	MessageTypeCopyAttempt      MessageType = "copy_attempt"
	MessageTypeExternalLink     MessageType = "opening_external_link"
	MessageTypePing             MessageType = "ping"

	// Server -> Client
	MessageTypeConnected        MessageType = "connected"
	MessageTypeQuestion         MessageType = "question"
	MessageTypeAnswerResult     MessageType = "answer_result"
	MessageTypeViolationWarning MessageType = "violation_warning"
	MessageTypeViolationReset   MessageType = "violation_reset"
	MessageTypeTimeExpired      MessageType = "time_expired"
	MessageTypeQuizFinished     MessageType = "quiz_finished"
	MessageTypeError            MessageType = "error"
	MessageTypePong             MessageType = "pong"
)

type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type SelectAnswerPayload struct {
	OptionIndex int `json:"option_index"`
}

type FullscreenChangePayload struct {
	IsFullscreen bool `json:"is_fullscreen"`
}

type VisibilityChangePayload struct {
	Hidden bool `json:"hidden"`
}

type ConnectedPayload struct {
	QuizID          string `json:"quiz_id"`
	QuizTitle       string `json:"quiz_title"`
	Topic           string `json:"topic"`
	Difficulty      string `json:"difficulty"`
	State           string `json:"state"`
	QuestionIndex   int    `json:"question_index"`
	TotalQuestions  int    `json:"total_questions"`
	AnsweredCount   int    `json:"answered_count"`
	Score           int    `json:"score"`
	DurationSeconds int    `json:"duration_seconds"`
	Resumed         bool   `json:"resumed"`
}

type QuestionData struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	OrderIndex   int      `json:"order_index"`
}

type QuestionPayload struct {
	Question         QuestionData `json:"question"`
	QuestionIndex    int          `json:"question_index"`
	TotalQuestions   int          `json:"total_questions"`
	LockedOption     *int         `json:"locked_option,omitempty"`
	RemainingSeconds int          `json:"remaining_seconds"`
	ServerTime       int64        `json:"server_time"`
}

type AnswerResultPayload struct {
	IsCorrect          bool `json:"is_correct"`
	CorrectOptionIndex int  `json:"correct_option_index"`
	Score              int  `json:"score"`
	AnsweredCount      int  `json:"answered_count"`
}

type ViolationPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type QuizFinishedPayload struct {
	SubmissionID   string `json:"submission_id"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Percentage     int    `json:"percentage"`
	Passed         bool   `json:"passed"`
	Status         string `json:"status"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
