package constants

const (
	RoleAdmin     = "admin"
	RoleCandidate = "candidate"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

const (
	SubmissionStatusCompleted = "completed"
	SubmissionStatusTimedOut  = "timed_out"
)

const (
	QueueSendAuthCode  = "auth.send_code"
	QueueQuizCreated   = "quiz.created"
	QueueQuizSubmitted = "quiz.submitted"
)

// OptionsPerQuestion is fixed for admin-authored questions.
const OptionsPerQuestion = 4
