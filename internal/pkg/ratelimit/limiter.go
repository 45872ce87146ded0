package ratelimit

import (
	"sync"
	"time"
)

// LoginLimiter throttles repeated failed login attempts per source address
// over a rolling window. Successful logins clear the address's history.
type LoginLimiter struct {
	maxAttempts int
	window      time.Duration

	mu       sync.Mutex
	attempts map[string][]time.Time

	// now is swappable for tests
	now func() time.Time
}

// NewLoginLimiter creates a limiter allowing maxAttempts failures per window
func NewLoginLimiter(maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Allow reports whether the address is still under the failure threshold
func (l *LoginLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.recentLocked(addr)) < l.maxAttempts
}

// RecordFailure registers a failed attempt for the address
func (l *LoginLimiter) RecordFailure(addr string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.attempts[addr] = append(l.recentLocked(addr), l.now())
}

// Reset clears the failure history for the address
func (l *LoginLimiter) Reset(addr string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, addr)
}

// Compact drops addresses whose failures have all aged out of the window
func (l *LoginLimiter) Compact() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for addr := range l.attempts {
		if recent := l.recentLocked(addr); len(recent) == 0 {
			delete(l.attempts, addr)
		} else {
			l.attempts[addr] = recent
		}
	}
}

// recentLocked returns the address's failures still inside the window.
// The result is a fresh slice: filtering in place would scramble the
// stored history while the map still holds it at its old length.
// Caller must hold mu.
func (l *LoginLimiter) recentLocked(addr string) []time.Time {
	cutoff := l.now().Add(-l.window)
	stored := l.attempts[addr]
	recent := make([]time.Time, 0, len(stored))
	for _, t := range stored {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}
