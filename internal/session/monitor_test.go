package session

import "testing"

func newRecordingMonitor() (*Monitor, *[]ViolationReason) {
	got := &[]ViolationReason{}
	m := NewMonitor(func(r ViolationReason) {
		*got = append(*got, r)
	})
	return m, got
}

func TestMonitorIgnoresEventsBeforeStart(t *testing.T) {
	m, got := newRecordingMonitor()

	m.HandleFullscreenChange(false)
	m.HandleVisibilityChange(true)
	m.HandleCopyAttempt()

	if len(*got) != 0 {
		t.Errorf("violations before start = %v, want none", *got)
	}
}

func TestMonitorFullscreenExit(t *testing.T) {
	m, got := newRecordingMonitor()

	m.Arm()
	m.HandleFullscreenChange(true) // entering is fine
	m.HandleFullscreenChange(false)

	if len(*got) != 1 || (*got)[0] != ViolationFullscreenExit {
		t.Errorf("violations = %v, want [fullscreen-exit]", *got)
	}
}

func TestMonitorTabSwitch(t *testing.T) {
	m, got := newRecordingMonitor()

	m.Arm()
	m.HandleVisibilityChange(false) // becoming visible never raises
	m.HandleVisibilityChange(true)

	if len(*got) != 1 || (*got)[0] != ViolationTabSwitch {
		t.Errorf("violations = %v, want [tab-switch]", *got)
	}
}

func TestMonitorSuppressNextHideIsOneShot(t *testing.T) {
	m, got := newRecordingMonitor()

	m.Arm()
	m.SuppressNextHide()
	m.HandleVisibilityChange(true) // the app opened an external link

	if len(*got) != 0 {
		t.Fatalf("suppressed hide raised %v", *got)
	}

	m.HandleVisibilityChange(true) // a real tab switch afterwards

	if len(*got) != 1 || (*got)[0] != ViolationTabSwitch {
		t.Errorf("violations = %v, want [tab-switch]", *got)
	}
}

func TestMonitorCopyAttempt(t *testing.T) {
	m, got := newRecordingMonitor()

	m.Arm()
	m.HandleCopyAttempt()

	if len(*got) != 1 || (*got)[0] != ViolationCopyAttempt {
		t.Fatalf("violations = %v, want [copy-attempt]", *got)
	}
	if (*got)[0].ResetsSession() {
		t.Error("copy-attempt must not reset the session")
	}
}

func TestMonitorDisarmStopsReporting(t *testing.T) {
	m, got := newRecordingMonitor()

	m.Arm()
	m.Disarm()
	m.HandleVisibilityChange(true)

	if len(*got) != 0 {
		t.Errorf("violations after disarm = %v, want none", *got)
	}
}
