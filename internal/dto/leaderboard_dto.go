package dto

type LeaderboardEntryDTO struct {
	Rank             int    `json:"rank"`
	Username         string `json:"username"`
	Topic            string `json:"topic"`
	Difficulty       string `json:"difficulty"`
	Score            int    `json:"score"`
	TotalQuestions   int    `json:"total_questions"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
	CreatedAt        string `json:"created_at"`
}

type GetLeaderboardResponse struct {
	Entries  []LeaderboardEntryDTO `json:"entries"`
	UserBest *LeaderboardEntryDTO  `json:"user_best,omitempty"`
}
