package session

import (
	"fmt"
	"testing"

	"quizproctor/internal/models"
)

func makeQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			ID:                 fmt.Sprintf("q%d", i),
			QuestionText:       fmt.Sprintf("Question %d", i),
			Options:            []string{"A", "B", "C", "D"},
			CorrectOptionIndex: i % 4,
			OrderIndex:         i,
		}
	}
	return questions
}

func startSession(t *testing.T, n int) *Session {
	t.Helper()
	s := New("user-1", "quiz-1", makeQuestions(n))
	if err := s.EnterFullscreen(); err != nil {
		t.Fatalf("enter fullscreen: %v", err)
	}
	return s
}

func answerCurrent(t *testing.T, s *Session, option int) bool {
	t.Helper()
	if err := s.SelectAnswer(option); err != nil {
		t.Fatalf("select answer %d at index %d: %v", option, s.CurrentIndex(), err)
	}
	correct, err := s.SubmitAnswer()
	if err != nil {
		t.Fatalf("submit answer at index %d: %v", s.CurrentIndex(), err)
	}
	return correct
}

func TestScoreMatchesLockedAnswers(t *testing.T) {
	s := startSession(t, 8)

	for i := 0; i < 8; i++ {
		// Answer even questions correctly, odd ones wrong.
		option := i % 4
		if i%2 == 1 {
			option = (i + 1) % 4
		}
		answerCurrent(t, s, option)

		want := 0
		for idx, opt := range s.LockedAnswers() {
			if opt == idx%4 {
				want++
			}
		}
		if s.Score() != want {
			t.Fatalf("after question %d: score = %d, recomputed from locks = %d", i, s.Score(), want)
		}

		if done, err := s.NextQuestion(); err != nil {
			t.Fatalf("next question: %v", err)
		} else if done != (i == 7) {
			t.Fatalf("done = %v at question %d", done, i)
		}
	}

	if s.Score() != 4 {
		t.Errorf("final score = %d, want 4", s.Score())
	}
}

func TestLockedAnswerCannotChange(t *testing.T) {
	s := startSession(t, 3)

	answerCurrent(t, s, 0)

	if err := s.SelectAnswer(1); err == nil {
		t.Error("selecting after lock should fail")
	}
	if _, err := s.SubmitAnswer(); err == nil {
		t.Error("double submit should fail")
	}
	if opt, ok := s.LockedAnswer(0); !ok || opt != 0 {
		t.Errorf("locked answer = (%d, %v), want (0, true)", opt, ok)
	}
}

func TestSubmitWithoutSelectionFails(t *testing.T) {
	s := startSession(t, 2)

	if _, err := s.SubmitAnswer(); err == nil {
		t.Fatal("submit without a tentative selection should fail")
	}
}

func TestNextQuestionOnlyAfterAnswer(t *testing.T) {
	s := startSession(t, 2)

	if _, err := s.NextQuestion(); err == nil {
		t.Fatal("advancing an unanswered question should fail")
	}
}

func TestViolationResetClearsProgress(t *testing.T) {
	s := startSession(t, 12)

	for i := 0; i < 10; i++ {
		answerCurrent(t, s, i%4) // all correct
		if _, err := s.NextQuestion(); err != nil {
			t.Fatalf("next question: %v", err)
		}
	}
	if s.CurrentIndex() != 10 || s.Score() != 10 {
		t.Fatalf("setup: index=%d score=%d, want 10/10", s.CurrentIndex(), s.Score())
	}

	s.Violation(ViolationFullscreenExit)

	if s.State() != StateNotStarted {
		t.Errorf("state = %s, want not_started", s.State())
	}
	if s.CurrentIndex() != 0 {
		t.Errorf("index = %d, want 0", s.CurrentIndex())
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
	if len(s.LockedAnswers()) != 0 {
		t.Errorf("locked answers = %v, want empty", s.LockedAnswers())
	}

	// The attempt ticks again only after fullscreen re-entry.
	if err := s.SelectAnswer(0); err == nil {
		t.Error("select should fail before re-entering fullscreen")
	}
	if err := s.EnterFullscreen(); err != nil {
		t.Errorf("re-enter fullscreen: %v", err)
	}
}

func TestCopyAttemptDoesNotReset(t *testing.T) {
	s := startSession(t, 4)
	answerCurrent(t, s, 0)

	s.Violation(ViolationCopyAttempt)

	if s.State() != StateQuestionAnswered {
		t.Errorf("state = %s, want question_answered", s.State())
	}
	if len(s.LockedAnswers()) != 1 {
		t.Errorf("locked answers = %v, want one entry", s.LockedAnswers())
	}
}

func TestTimeoutKeepsPartialScore(t *testing.T) {
	s := startSession(t, 20)

	// Answer 5 of 20: first 3 correct, next 2 wrong.
	for i := 0; i < 5; i++ {
		option := i % 4
		if i >= 3 {
			option = (i + 1) % 4
		}
		answerCurrent(t, s, option)
		if _, err := s.NextQuestion(); err != nil {
			t.Fatalf("next question: %v", err)
		}
	}

	s.Timeout()

	if s.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", s.State())
	}
	if s.Score() != 3 {
		t.Errorf("score = %d, want 3", s.Score())
	}
	if got := s.AnsweredCount(); got != 5 {
		t.Errorf("answered = %d, want 5", got)
	}
}

func TestFullRunScoresHalf(t *testing.T) {
	s := startSession(t, 20)

	done := false
	for i := 0; i < 20; i++ {
		option := i % 4
		if i >= 10 {
			option = (i + 1) % 4 // wrong on the back half
		}
		answerCurrent(t, s, option)

		var err error
		done, err = s.NextQuestion()
		if err != nil {
			t.Fatalf("next question: %v", err)
		}
	}

	if !done {
		t.Fatal("last NextQuestion should report completion")
	}
	if s.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", s.State())
	}
	if s.Score() != 10 {
		t.Errorf("score = %d, want 10", s.Score())
	}
	if pct := s.Score() * 100 / s.TotalQuestions(); pct != 50 {
		t.Errorf("percentage = %d, want 50", pct)
	}
}

func TestResumeRestoresLockState(t *testing.T) {
	s := New("user-1", "quiz-1", makeQuestions(6))
	s.Resume(&models.Progress{
		UserID:               "user-1",
		QuizID:               "quiz-1",
		CurrentQuestionIndex: 2,
		Answers:              map[int]int{0: 0, 1: 1, 2: 3},
		Score:                99, // stale counter; must be recomputed
	})

	if err := s.EnterFullscreen(); err != nil {
		t.Fatalf("enter fullscreen: %v", err)
	}

	// q0 and q1 locked correctly, q2 locked wrong: recomputed score is 2,
	// not the stale persisted 99.
	if s.Score() != 2 {
		t.Errorf("score = %d, want 2", s.Score())
	}

	// Index 2 is locked, so the session resumes in the answered sub-state
	// showing the prior lock.
	if s.State() != StateQuestionAnswered {
		t.Errorf("state = %s, want question_answered", s.State())
	}
	if opt, ok := s.LockedAnswer(2); !ok || opt != 3 {
		t.Errorf("lock at 2 = (%d, %v), want (3, true)", opt, ok)
	}
}

func TestTimeoutIsIdempotent(t *testing.T) {
	s := startSession(t, 2)
	s.Timeout()
	s.Timeout()
	if s.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", s.State())
	}
}
