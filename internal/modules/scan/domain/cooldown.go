package domain

import (
	"sync"
	"time"
)

// Tracker suppresses repeated triggers of the same checkpoint while its code
// stays in view. Expiry is checked lazily against the caller's clock.
type Tracker struct {
	duration time.Duration

	mu      sync.Mutex
	expires map[string]time.Time
}

func NewTracker(duration time.Duration) *Tracker {
	return &Tracker{duration: duration, expires: map[string]time.Time{}}
}

func (t *Tracker) Duration() time.Duration {
	return t.duration
}

// ShouldTrigger reports whether checkpointID may fire at now. A true result
// records a new entry expiring at now+duration.
func (t *Tracker) ShouldTrigger(checkpointID string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(now)
	if _, live := t.expires[checkpointID]; live {
		return false
	}
	t.expires[checkpointID] = now.Add(t.duration)
	return true
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.expires)
}

// Live returns the number of entries still blocking at now.
func (t *Tracker) Live(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(now)
	return len(t.expires)
}

func (t *Tracker) pruneLocked(now time.Time) {
	for id, at := range t.expires {
		if !now.Before(at) {
			delete(t.expires, id)
		}
	}
}
