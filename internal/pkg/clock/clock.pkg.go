package clock

import (
	"sync"
	"time"
)

// Clock allows injecting time into services so countdowns and expiry are
// testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a clock that returns a settable instant, for tests. Safe for
// concurrent use; background pollers read it while the test advances it.
type Fixed struct {
	mu      sync.Mutex
	instant time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{instant: t.UTC()}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instant
}

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instant = f.instant.Add(d)
}
