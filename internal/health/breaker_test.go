package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAtThreshold(t *testing.T) {
	now := time.Now()
	b := breaker{threshold: 3, cooldown: 30 * time.Second}

	b.recordFailure(now)
	b.recordFailure(now)
	assert.Equal(t, StateClosed, b.state)

	b.recordFailure(now)
	assert.Equal(t, StateOpen, b.state)
	assert.Equal(t, now, b.openedAt)
}

func TestBreakerSuccessResetsCounter(t *testing.T) {
	now := time.Now()
	b := breaker{threshold: 3, cooldown: 30 * time.Second}

	b.recordFailure(now)
	b.recordFailure(now)
	b.recordSuccess()
	assert.Zero(t, b.errorCount)

	// The counter starts over; two more failures must not open.
	b.recordFailure(now)
	b.recordFailure(now)
	assert.Equal(t, StateClosed, b.state)
}

func TestBreakerFailFastUntilCooldown(t *testing.T) {
	now := time.Now()
	b := breaker{threshold: 1, cooldown: 30 * time.Second}
	b.recordFailure(now)

	assert.False(t, b.allow(now))
	assert.False(t, b.allow(now.Add(29*time.Second)))

	// Cooldown elapsed: one trial request goes through half-open.
	assert.True(t, b.allow(now.Add(30*time.Second)))
	assert.Equal(t, StateHalfOpen, b.state)
}

func TestBreakerHalfOpenOutcomes(t *testing.T) {
	now := time.Now()

	t.Run("failed trial reopens and restarts the cooldown", func(t *testing.T) {
		b := breaker{threshold: 1, cooldown: 30 * time.Second}
		b.recordFailure(now)
		reopenedAt := now.Add(31 * time.Second)
		assert.True(t, b.allow(reopenedAt))

		b.recordFailure(reopenedAt)
		assert.Equal(t, StateOpen, b.state)
		assert.Equal(t, reopenedAt, b.openedAt)
		assert.False(t, b.allow(reopenedAt.Add(29*time.Second)))
	})

	t.Run("successful trial closes", func(t *testing.T) {
		b := breaker{threshold: 1, cooldown: 30 * time.Second}
		b.recordFailure(now)
		assert.True(t, b.allow(now.Add(31*time.Second)))

		b.recordSuccess()
		assert.Equal(t, StateClosed, b.state)
		assert.True(t, b.allow(now.Add(31*time.Second)))
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
}
