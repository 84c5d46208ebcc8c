package dto

type SaveProgressRequest struct {
	QuizID               string         `json:"quiz_id" binding:"required"`
	CurrentQuestionIndex int            `json:"current_question_index" binding:"min=0"`
	Answers              map[string]int `json:"answers" binding:"required"`
	Score                int            `json:"score" binding:"min=0"`
}

type ProgressDTO struct {
	QuizID               string         `json:"quiz_id"`
	CurrentQuestionIndex int            `json:"current_question_index"`
	Answers              map[string]int `json:"answers"`
	Score                int            `json:"score"`
	LastUpdated          string         `json:"last_updated"`
}

// GetProgressResponse wraps the record under a "data" key; a null value
// means the user has no saved attempt for the quiz.
type GetProgressResponse struct {
	Data *ProgressDTO `json:"data"`
}

type SaveProgressResponse struct {
	Success bool `json:"success"`
}

type DeleteProgressResponse struct {
	Success bool `json:"success"`
}
