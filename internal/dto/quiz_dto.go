package dto

type QuestionInput struct {
	QuestionText       string   `json:"question_text" binding:"required,min=1"`
	Options            []string `json:"options" binding:"required,len=4,dive,min=1"`
	CorrectOptionIndex *int     `json:"correct_option_index" binding:"required,min=0,max=3"`
}

type CreateQuizRequest struct {
	Title           string          `json:"title" binding:"required,min=5,max=255" example:"JavaScript Fundamentals"`
	Description     string          `json:"description" example:"Core language concepts"`
	Topic           string          `json:"topic" binding:"required" example:"javascript"`
	Difficulty      string          `json:"difficulty" binding:"required,oneof=beginner intermediate advanced" example:"beginner"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,min=1,max=180" example:"15"`
	PassingScore    int             `json:"passing_score" binding:"omitempty,min=0,max=100" example:"70"`
	Questions       []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

type CreateQuizResponse struct {
	QuizID  string `json:"quiz_id"`
	Message string `json:"message"`
}

// QuestionDTO is the candidate-facing question shape. The correct option
// index is never serialized here.
type QuestionDTO struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	OrderIndex   int      `json:"order_index"`
}

type QuizDTO struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Topic           string `json:"topic"`
	Difficulty      string `json:"difficulty"`
	DurationMinutes int    `json:"duration_minutes"`
	PassingScore    int    `json:"passing_score"`
	TotalQuestions  int    `json:"total_questions"`
	IsActive        bool   `json:"is_active"`
	CreatedAt       string `json:"created_at"`
}

type GetQuizzesResponse struct {
	Quizzes []QuizDTO `json:"quizzes"`
}

type GetQuizResponse struct {
	Quiz      QuizDTO       `json:"quiz"`
	Questions []QuestionDTO `json:"questions"`
}

type GetTopicsResponse struct {
	Topics map[string][]string `json:"topics"`
}

type SetQuizActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type SubmissionDTO struct {
	SubmissionID     string `json:"submission_id"`
	QuizID           string `json:"quiz_id"`
	QuizTitle        string `json:"quiz_title,omitempty"`
	Score            int    `json:"score"`
	TotalQuestions   int    `json:"total_questions"`
	Percentage       int    `json:"percentage"`
	Passed           bool   `json:"passed"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
	Status           string `json:"status"`
	CompletedAt      string `json:"completed_at"`
}

type GetSubmissionsResponse struct {
	Submissions []SubmissionDTO `json:"submissions"`
}
