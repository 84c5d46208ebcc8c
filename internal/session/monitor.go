package session

// ViolationReason tags why the integrity monitor flagged an attempt.
type ViolationReason string

const (
	ViolationFullscreenExit ViolationReason = "fullscreen-exit"
	ViolationTabSwitch      ViolationReason = "tab-switch"
	ViolationCopyAttempt    ViolationReason = "copy-attempt"
)

// Message returns the user-facing explanation shown in the blocking warning.
func (r ViolationReason) Message() string {
	switch r {
	case ViolationFullscreenExit:
		return "QUIZ RESTARTED: You exited fullscreen mode. All progress cleared."
	case ViolationTabSwitch:
		return "QUIZ RESTARTED: Tab switching detected. All progress cleared."
	case ViolationCopyAttempt:
		return "Copying quiz content is against academic integrity policies."
	default:
		return "Integrity violation detected."
	}
}

// ResetsSession reports whether the violation wipes attempt progress.
// Copy attempts only warn.
func (r ViolationReason) ResetsSession() bool {
	return r == ViolationFullscreenExit || r == ViolationTabSwitch
}

// Monitor tracks browser-reported fullscreen and visibility conditions and
// raises violations through its callback. It performs no session mutation
// itself; the session state machine consumes the events.
type Monitor struct {
	started      bool
	suppressNext bool
	onViolation  func(ViolationReason)
}

func NewMonitor(onViolation func(ViolationReason)) *Monitor {
	return &Monitor{onViolation: onViolation}
}

// Arm marks the quiz as started. Before the first explicit fullscreen entry,
// fullscreen and visibility churn never counts as a violation.
func (m *Monitor) Arm() {
	m.started = true
}

func (m *Monitor) Disarm() {
	m.started = false
	m.suppressNext = false
}

func (m *Monitor) Started() bool {
	return m.started
}

// SuppressNextHide sets a one-shot flag consumed by the next visibility
// loss. Callers set it immediately before programmatically opening an
// external link in a new tab, so that self-inflicted hide is not treated as
// tab switching.
func (m *Monitor) SuppressNextHide() {
	m.suppressNext = true
}

// HandleFullscreenChange processes a fullscreen state report from the
// client. Losing fullscreen after the quiz has started is a violation.
func (m *Monitor) HandleFullscreenChange(active bool) {
	if active || !m.started {
		return
	}
	m.raise(ViolationFullscreenExit)
}

// HandleVisibilityChange processes a page-visibility report. A hide consumes
// the suppress flag if set, otherwise counts as tab switching.
func (m *Monitor) HandleVisibilityChange(hidden bool) {
	if !hidden {
		return
	}
	if m.suppressNext {
		m.suppressNext = false
		return
	}
	if !m.started {
		return
	}
	m.raise(ViolationTabSwitch)
}

// HandleCopyAttempt raises a warning-only violation regardless of suppress
// state.
func (m *Monitor) HandleCopyAttempt() {
	if !m.started {
		return
	}
	m.raise(ViolationCopyAttempt)
}

func (m *Monitor) raise(reason ViolationReason) {
	if m.onViolation != nil {
		m.onViolation(reason)
	}
}
