package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiterBlocksAfterThreshold(t *testing.T) {
	limiter := NewLoginLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"))
		limiter.RecordFailure("10.0.0.1")
	}

	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"), "other addresses are unaffected")
}

func TestLoginLimiterResetClearsHistory(t *testing.T) {
	limiter := NewLoginLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		limiter.RecordFailure("10.0.0.1")
	}
	assert.False(t, limiter.Allow("10.0.0.1"))

	limiter.Reset("10.0.0.1")
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	limiter := NewLoginLimiter(5, 15*time.Minute)
	current := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	for i := 0; i < 5; i++ {
		limiter.RecordFailure("10.0.0.1")
	}
	assert.False(t, limiter.Allow("10.0.0.1"))

	current = current.Add(16 * time.Minute)
	assert.True(t, limiter.Allow("10.0.0.1"), "aged-out failures no longer count")
}

func TestLoginLimiterPartialExpiry(t *testing.T) {
	limiter := NewLoginLimiter(5, 15*time.Minute)
	current := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	limiter.RecordFailure("10.0.0.1")
	limiter.RecordFailure("10.0.0.1")
	current = current.Add(10 * time.Minute)
	limiter.RecordFailure("10.0.0.1")
	limiter.RecordFailure("10.0.0.1")
	limiter.RecordFailure("10.0.0.1")
	assert.False(t, limiter.Allow("10.0.0.1"))

	// The first two failures age out, leaving three inside the window.
	// Repeated checks must keep counting exactly those three.
	current = current.Add(6 * time.Minute)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))

	limiter.RecordFailure("10.0.0.1")
	assert.True(t, limiter.Allow("10.0.0.1"), "four recent failures stay under the threshold")

	limiter.RecordFailure("10.0.0.1")
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestLoginLimiterCompact(t *testing.T) {
	limiter := NewLoginLimiter(5, 15*time.Minute)
	current := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	limiter.RecordFailure("10.0.0.1")
	current = current.Add(10 * time.Minute)
	limiter.RecordFailure("10.0.0.2")
	current = current.Add(10 * time.Minute)

	limiter.Compact()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.attempts, "10.0.0.1")
	assert.Contains(t, limiter.attempts, "10.0.0.2")
}
