package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Clock abstracts wall-clock time so the countdown can be tested without
// sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// DeadlineStore persists an absolute end timestamp per attempt key so a
// countdown survives reconnects. Backed by redis in production.
type DeadlineStore interface {
	GetDeadline(ctx context.Context, key string) (time.Time, bool, error)
	SetDeadline(ctx context.Context, key string, deadline time.Time) error
	ClearDeadline(ctx context.Context, key string) error
}

// scheduleFunc schedules f to run after d. Swapped out in tests.
type scheduleFunc func(d time.Duration, f func()) *time.Timer

// Countdown ticks a fixed-duration quiz window down to zero and fires its
// expiry callback exactly once. The deadline is stored as an absolute
// timestamp, so remaining time is recomputed as max(0, deadline-now) on every
// restart instead of resetting to the full duration.
type Countdown struct {
	key      string
	duration time.Duration
	clock    Clock
	store    DeadlineStore
	onExpire func()
	schedule scheduleFunc

	mu       sync.Mutex
	deadline time.Time
	timer    *time.Timer
	paused   bool
	expired  bool
}

func NewCountdown(key string, duration time.Duration, clock Clock, store DeadlineStore, onExpire func()) *Countdown {
	return &Countdown{
		key:      key,
		duration: duration,
		clock:    clock,
		store:    store,
		onExpire: onExpire,
		schedule: time.AfterFunc,
	}
}

// Start restores a persisted deadline or issues a new one, then arms the
// expiry timer. A stored deadline that is already in the past is discarded
// and a fresh full-duration window issued; a reconnect therefore never
// resumes at negative time. (This also means an expired-while-away attempt
// restarts with a full window rather than timing out immediately.)
func (c *Countdown) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()

	deadline, ok, err := c.store.GetDeadline(ctx, c.key)
	if err != nil {
		return fmt.Errorf("failed to load deadline: %w", err)
	}

	if !ok || !deadline.After(now) {
		deadline = now.Add(c.duration)
		if err := c.store.SetDeadline(ctx, c.key, deadline); err != nil {
			return fmt.Errorf("failed to persist deadline: %w", err)
		}
	}

	c.deadline = deadline
	c.expired = false
	c.paused = false
	c.arm(deadline.Sub(now))
	return nil
}

// Remaining reports whole seconds left, never negative.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deadline.IsZero() || c.expired {
		return 0
	}
	remaining := c.deadline.Sub(c.clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining.Truncate(time.Second)
}

// Pause stops the expiry timer without touching the persisted deadline.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Resume re-arms the timer against the unchanged deadline.
func (c *Countdown) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused || c.expired || c.deadline.IsZero() {
		return
	}
	c.paused = false
	c.arm(c.deadline.Sub(c.clock.Now()))
}

// Clear removes the persisted deadline so a later attempt does not inherit a
// stale window. Called on completion and on explicit start-over.
func (c *Countdown) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.deadline = time.Time{}

	if err := c.store.ClearDeadline(ctx, c.key); err != nil {
		log.Printf("Failed to clear deadline for %s: %v", c.key, err)
	}
}

// Expire forces the terminal callback. Fires at most once across Expire
// calls and scheduled timer firings.
func (c *Countdown) Expire() {
	c.mu.Lock()
	if c.expired {
		c.mu.Unlock()
		return
	}
	c.expired = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	onExpire := c.onExpire
	c.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
}

func (c *Countdown) arm(d time.Duration) {
	if c.timer != nil {
		c.timer.Stop()
	}
	if d < 0 {
		d = 0
	}
	c.timer = c.schedule(d, c.Expire)
}
