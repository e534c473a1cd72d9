package cache

import (
	"sync"
	"time"
)

// attempt counts failures for one key until expiresAt.
type attempt struct {
	count     int
	expiresAt time.Time
}

// Attempts remembers failed logins per key. A key is blocked once it reaches the limit and
// stays blocked until its window, started by the first failure, runs out.
// There is no background janitor; expired keys are dropped lazily or via PurgeExpired.
type Attempts struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	entries map[string]attempt
}

// NewAttempts returns a tracker that blocks after limit failures within window.
// A limit <= 0 disables blocking.
func NewAttempts(limit int, window time.Duration) *Attempts {
	return &Attempts{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]attempt),
	}
}

// live returns the unexpired entry for key. Callers hold a.mu.
func (a *Attempts) live(key string) (attempt, bool) {
	e, ok := a.entries[key]
	if !ok {
		return attempt{}, false
	}
	if a.now().After(e.expiresAt) {
		delete(a.entries, key)
		return attempt{}, false
	}
	return e, true
}

func (a *Attempts) Blocked(key string) bool {
	if a.limit <= 0 {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.live(key)
	return ok && e.count >= a.limit
}

// Fail records one failure and returns the count inside the current window.
func (a *Attempts) Fail(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.live(key)
	if !ok {
		e = attempt{expiresAt: a.now().Add(a.window)}
	}
	e.count++
	a.entries[key] = e
	return e.count
}

// Reset forgets key, typically after a successful login.
func (a *Attempts) Reset(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, key)
}

// Len counts keys with an unexpired window.
func (a *Attempts) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	ts := a.now()
	n := 0
	for _, e := range a.entries {
		if !ts.After(e.expiresAt) {
			n++
		}
	}
	return n
}

func (a *Attempts) PurgeExpired() {
	a.mu.Lock()
	defer a.mu.Unlock()
	ts := a.now()
	for k, e := range a.entries {
		if ts.After(e.expiresAt) {
			delete(a.entries, k)
		}
	}
}
