package testfixtures

import (
	"sync"
	"time"

	"github.com/example/booking-core/internal/schedule"
)

// Clock provides a controllable time source for tests.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock initialised to the supplied time. When start is
// the zero value, the shared ReferenceTime is used.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// NewReferenceClock returns a clock pinned to the shared ReferenceTime, a
// Thursday at noon, so week windows and weekly slots are predictable.
func NewReferenceClock() *Clock {
	return NewClock(ReferenceTime())
}

// Now returns the current instant tracked by the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now as a function suitable for dependency injection.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set updates the clock to the provided time.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by the provided duration and returns the
// updated time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}

// AdvanceToSlot moves the clock to the next occurrence of the weekly slot
// and returns the updated time.
func (c *Clock) AdvanceToSlot(slot schedule.WeekDate) time.Time {
	c.mu.Lock()
	c.current = slot.NextOccurrence(c.current)
	updated := c.current
	c.mu.Unlock()
	return updated
}
