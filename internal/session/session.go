package session

import (
	"fmt"

	"quizproctor/internal/models"
)

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateQuestionAnswered
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateQuestionAnswered:
		return "question_answered"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session is the state machine for one quiz attempt. It is free of I/O:
// persistence, timers, and transport all live in the adapter layer that
// drives it. Answers lock on submit and can never change; the score is
// recomputed from the locked map on every mutation so the two cannot drift.
type Session struct {
	UserID string
	QuizID string

	questions []models.Question

	state     State
	index     int
	locked    map[int]int // question order index -> locked option index
	tentative int
	hasChoice bool
	score     int
}

func New(userID, quizID string, questions []models.Question) *Session {
	return &Session{
		UserID:    userID,
		QuizID:    quizID,
		questions: questions,
		state:     StateNotStarted,
		locked:    make(map[int]int),
	}
}

// Resume restores a persisted progress record into a not-yet-started
// session. The attempt still requires fullscreen entry before it ticks.
func (s *Session) Resume(p *models.Progress) {
	if p == nil || s.state != StateNotStarted {
		return
	}
	s.locked = make(map[int]int, len(p.Answers))
	for idx, opt := range p.Answers {
		if idx >= 0 && idx < len(s.questions) {
			s.locked[idx] = opt
		}
	}
	s.index = p.CurrentQuestionIndex
	if s.index >= len(s.questions) {
		s.index = len(s.questions) - 1
	}
	if s.index < 0 {
		s.index = 0
	}
	s.recomputeScore()
}

func (s *Session) State() State        { return s.state }
func (s *Session) CurrentIndex() int   { return s.index }
func (s *Session) Score() int          { return s.score }
func (s *Session) TotalQuestions() int { return len(s.questions) }

// LockedAnswers returns a copy of the locked-answer map.
func (s *Session) LockedAnswers() map[int]int {
	out := make(map[int]int, len(s.locked))
	for k, v := range s.locked {
		out[k] = v
	}
	return out
}

// LockedAnswer reports the locked option for a question index, if any.
func (s *Session) LockedAnswer(index int) (int, bool) {
	opt, ok := s.locked[index]
	return opt, ok
}

func (s *Session) CurrentQuestion() (*models.Question, error) {
	if s.index < 0 || s.index >= len(s.questions) {
		return nil, fmt.Errorf("question index %d out of range", s.index)
	}
	q := s.questions[s.index]
	return &q, nil
}

// EnterFullscreen starts (or restarts) the attempt.
func (s *Session) EnterFullscreen() error {
	if s.state != StateNotStarted {
		return fmt.Errorf("cannot enter fullscreen in state %s", s.state)
	}
	if _, answered := s.locked[s.index]; answered {
		s.state = StateQuestionAnswered
	} else {
		s.state = StateInProgress
	}
	return nil
}

// SelectAnswer records a tentative choice for the current question. Valid
// only while the current question is unanswered; no persistence side effect.
func (s *Session) SelectAnswer(optionIndex int) error {
	if s.state != StateInProgress {
		return fmt.Errorf("cannot select answer in state %s", s.state)
	}
	if _, answered := s.locked[s.index]; answered {
		return fmt.Errorf("question %d is already locked", s.index)
	}
	q := s.questions[s.index]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("option index %d out of range", optionIndex)
	}
	s.tentative = optionIndex
	s.hasChoice = true
	return nil
}

// SubmitAnswer locks the tentative choice, recomputes the score, and moves
// to the answered sub-state. Returns whether the lock was correct so the
// caller can show feedback.
func (s *Session) SubmitAnswer() (bool, error) {
	if s.state != StateInProgress {
		return false, fmt.Errorf("cannot submit answer in state %s", s.state)
	}
	if !s.hasChoice {
		return false, fmt.Errorf("no answer selected")
	}
	if _, answered := s.locked[s.index]; answered {
		return false, fmt.Errorf("question %d is already locked", s.index)
	}

	s.locked[s.index] = s.tentative
	s.hasChoice = false
	s.recomputeScore()
	s.state = StateQuestionAnswered

	return s.tentative == s.questions[s.index].CorrectOptionIndex, nil
}

// NextQuestion advances past an answered question. Returns true when the
// attempt completed (last question answered). Navigation is forward-only,
// but an index already locked before a resume shows its prior lock state.
func (s *Session) NextQuestion() (bool, error) {
	if s.state != StateQuestionAnswered {
		return false, fmt.Errorf("cannot advance in state %s", s.state)
	}

	if s.index >= len(s.questions)-1 {
		s.state = StateCompleted
		return true, nil
	}

	s.index++
	s.hasChoice = false
	if _, answered := s.locked[s.index]; answered {
		s.state = StateQuestionAnswered
	} else {
		s.state = StateInProgress
	}
	return false, nil
}

// Timeout forces completion from any non-terminal state. Unanswered
// questions stay unscored.
func (s *Session) Timeout() {
	if s.state == StateCompleted {
		return
	}
	s.state = StateCompleted
}

// Violation resets all mutable attempt state back to the beginning and
// returns to NotStarted, re-requiring fullscreen entry. Warning-only
// reasons are a no-op here.
func (s *Session) Violation(reason ViolationReason) {
	if !reason.ResetsSession() {
		return
	}
	if s.state != StateInProgress && s.state != StateQuestionAnswered {
		return
	}
	s.index = 0
	s.locked = make(map[int]int)
	s.tentative = 0
	s.hasChoice = false
	s.score = 0
	s.state = StateNotStarted
}

// Snapshot produces the progress record persisted after every submit and
// advance.
func (s *Session) Snapshot() *models.Progress {
	return &models.Progress{
		UserID:               s.UserID,
		QuizID:               s.QuizID,
		CurrentQuestionIndex: s.index,
		Answers:              s.LockedAnswers(),
		Score:                s.score,
	}
}

// AnsweredCount reports how many questions have locked answers.
func (s *Session) AnsweredCount() int {
	return len(s.locked)
}

func (s *Session) recomputeScore() {
	score := 0
	for idx, opt := range s.locked {
		if opt == s.questions[idx].CorrectOptionIndex {
			score++
		}
	}
	s.score = score
}
