package models

import (
	"time"
)

type Profile struct {
	ID        string
	Email     string
	FullName  string
	Role      string
	CreatedAt time.Time
}

type Quiz struct {
	ID              string
	Title           string
	Description     string
	Topic           string
	Difficulty      string
	DurationMinutes int
	PassingScore    int
	TotalQuestions  int
	IsActive        bool
	CreatedBy       string
	CreatedAt       time.Time
}

type Question struct {
	ID                 string
	QuizID             string
	QuestionText       string
	Options            []string
	CorrectOptionIndex int
	OrderIndex         int
}

// Progress is the durable resume record for a (user, quiz) attempt.
// Answers maps question order index to the locked option index.
type Progress struct {
	UserID               string
	QuizID               string
	CurrentQuestionIndex int
	Answers              map[int]int
	Score                int
	LastUpdated          time.Time
}

type Submission struct {
	ID               string
	QuizID           string
	UserID           string
	Score            int
	TotalQuestions   int
	Passed           bool
	TimeTakenSeconds int
	Status           string
	CompletedAt      time.Time
}

type LeaderboardEntry struct {
	ID               string
	Username         string
	Email            string
	Topic            string
	Difficulty       string
	Score            int
	TotalQuestions   int
	TimeTakenSeconds int
	CreatedAt        time.Time
	Rank             int
}

type QuizAnalytics struct {
	ID                string
	Topic             string
	Difficulty        string
	QuestionsTotal    int
	QuestionsAnswered int
	CorrectAnswers    int
	TimeTakenSeconds  int
	CompletedAt       time.Time
}

type QuestionAnalytics struct {
	ID               string
	Topic            string
	Difficulty       string
	QuestionID       string
	WasCorrect       bool
	TimeTakenSeconds int
}

type RefreshToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type AuthCode struct {
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubmissionWithQuiz joins a submission with the quiz it belongs to, for
// results views and emails.
type SubmissionWithQuiz struct {
	Submission *Submission
	QuizTitle  string
	Topic      string
	Difficulty string
}
