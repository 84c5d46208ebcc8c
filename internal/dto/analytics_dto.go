package dto

type TopicStatsDTO struct {
	Topic            string  `json:"topic"`
	Difficulty       string  `json:"difficulty"`
	Completions      int     `json:"completions"`
	AverageScore     float64 `json:"average_score"`
	AverageTimeSecs  float64 `json:"average_time_seconds"`
	AverageAccuracy  float64 `json:"average_accuracy"`
}

type RecentCompletionDTO struct {
	Topic            string `json:"topic"`
	Difficulty       string `json:"difficulty"`
	CorrectAnswers   int    `json:"correct_answers"`
	QuestionsTotal   int    `json:"questions_total"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
	CompletedAt      string `json:"completed_at"`
}

type QuestionAccuracyDTO struct {
	QuestionID string  `json:"question_id"`
	Attempts   int     `json:"attempts"`
	Correct    int     `json:"correct"`
	Accuracy   float64 `json:"accuracy"`
}

type GetAnalyticsResponse struct {
	TotalCompletions int                   `json:"total_completions"`
	TopicStats       []TopicStatsDTO       `json:"topic_stats"`
	Recent           []RecentCompletionDTO `json:"recent"`
}

type PopularTopicDTO struct {
	Topic       string `json:"topic"`
	Completions int    `json:"completions"`
}

type GetPopularTopicsResponse struct {
	Topics []PopularTopicDTO `json:"topics"`
}

type GetQuestionAccuracyResponse struct {
	Questions []QuestionAccuracyDTO `json:"questions"`
}
