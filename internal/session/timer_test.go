package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memDeadlineStore struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

func newMemDeadlineStore() *memDeadlineStore {
	return &memDeadlineStore{deadlines: make(map[string]time.Time)}
}

func (s *memDeadlineStore) GetDeadline(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deadlines[key]
	return d, ok, nil
}

func (s *memDeadlineStore) SetDeadline(_ context.Context, key string, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadlines[key] = deadline
	return nil
}

func (s *memDeadlineStore) ClearDeadline(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deadlines, key)
	return nil
}

// newTestCountdown disables real timer scheduling so tests drive expiry
// explicitly.
func newTestCountdown(key string, d time.Duration, clock Clock, store DeadlineStore, onExpire func()) *Countdown {
	c := NewCountdown(key, d, clock, store, onExpire)
	c.schedule = func(time.Duration, func()) *time.Timer {
		return time.NewTimer(time.Hour)
	}
	return c
}

func TestCountdownIssuesFullWindow(t *testing.T) {
	clock := newFakeClock()
	store := newMemDeadlineStore()
	c := newTestCountdown("u1:q1", 15*time.Minute, clock, store, nil)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if got := c.Remaining(); got != 15*time.Minute {
		t.Errorf("remaining = %v, want 15m", got)
	}
}

func TestCountdownSurvivesReload(t *testing.T) {
	clock := newFakeClock()
	store := newMemDeadlineStore()

	first := newTestCountdown("u1:q1", 15*time.Minute, clock, store, nil)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	clock.Advance(5 * time.Minute)

	// Simulated reload: a fresh countdown against the same store must pick
	// up the persisted deadline, not reissue 15 minutes.
	second := newTestCountdown("u1:q1", 15*time.Minute, clock, store, nil)
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}

	got := second.Remaining()
	if got < 599*time.Second || got > 600*time.Second {
		t.Errorf("remaining after reload = %v, want ~600s", got)
	}
}

func TestCountdownStaleDeadlineIssuesFreshWindow(t *testing.T) {
	clock := newFakeClock()
	store := newMemDeadlineStore()

	first := newTestCountdown("u1:q1", 15*time.Minute, clock, store, nil)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	clock.Advance(20 * time.Minute)

	second := newTestCountdown("u1:q1", 15*time.Minute, clock, store, nil)
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}

	if got := second.Remaining(); got != 15*time.Minute {
		t.Errorf("remaining after stale restart = %v, want fresh 15m", got)
	}
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	clock := newFakeClock()
	store := newMemDeadlineStore()

	fired := 0
	c := newTestCountdown("u1:q1", time.Minute, clock, store, func() { fired++ })
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	c.Expire()
	c.Expire()
	c.Expire()

	if fired != 1 {
		t.Errorf("expire callback fired %d times, want 1", fired)
	}
	if got := c.Remaining(); got != 0 {
		t.Errorf("remaining after expiry = %v, want 0", got)
	}
}

func TestCountdownClearRemovesDeadline(t *testing.T) {
	clock := newFakeClock()
	store := newMemDeadlineStore()

	c := newTestCountdown("u1:q1", 15*time.Minute, clock, store, nil)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	c.Clear(context.Background())

	if _, ok, _ := store.GetDeadline(context.Background(), "u1:q1"); ok {
		t.Error("deadline still persisted after Clear")
	}

	clock.Advance(10 * time.Minute)

	// A later attempt gets a full window, not the remains of the old one.
	next := newTestCountdown("u1:q1", 15*time.Minute, clock, store, nil)
	if err := next.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := next.Remaining(); got != 15*time.Minute {
		t.Errorf("remaining = %v, want 15m", got)
	}
}

func TestCountdownPauseResumeKeepsDeadline(t *testing.T) {
	clock := newFakeClock()
	store := newMemDeadlineStore()

	c := newTestCountdown("u1:q1", 10*time.Minute, clock, store, nil)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	c.Pause()
	clock.Advance(2 * time.Minute)
	c.Resume()

	// Pause does not stretch the persisted deadline; wall time still counts.
	if got := c.Remaining(); got != 8*time.Minute {
		t.Errorf("remaining = %v, want 8m", got)
	}
}
