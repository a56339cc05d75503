package mock

import (
	"sync"
	"time"
)

// Clock is a controllable wall clock for the feature suite. After Set it
// keeps advancing in real time from the chosen instant, so timestamps stay
// ordered within a scenario.
type Clock struct {
	mu     sync.RWMutex
	anchor time.Time
	setAt  time.Time
}

// NewTime returns a clock that starts at the real current time.
func NewTime() *Clock {
	now := time.Now()
	return &Clock{anchor: now.UTC(), setAt: now}
}

// SetCurrentTime moves the clock to at.
func (c *Clock) SetCurrentTime(at time.Time) {
	c.mu.Lock()
	c.anchor, c.setAt = at.UTC(), time.Now()
	c.mu.Unlock()
}

// Now satisfies the injector's clock option.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.anchor.Add(time.Since(c.setAt))
}
