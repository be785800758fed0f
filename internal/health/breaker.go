package health

import "time"

// State is the circuit breaker state for one downstream service.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// breaker is the per-service circuit state machine. Not safe for
// concurrent use on its own; the registry's lock guards it.
type breaker struct {
	state      State
	errorCount int
	threshold  int
	cooldown   time.Duration
	openedAt   time.Time
}

// recordFailure counts an error. Crossing the threshold opens the
// circuit; a failed half-open probe reopens it and restarts the cooldown.
func (b *breaker) recordFailure(now time.Time) {
	switch b.state {
	case StateHalfOpen:
		b.open(now)
	case StateClosed:
		b.errorCount++
		if b.errorCount >= b.threshold {
			b.open(now)
		}
	}
}

// recordSuccess closes the circuit and resets the error counter.
func (b *breaker) recordSuccess() {
	b.state = StateClosed
	b.errorCount = 0
	b.openedAt = time.Time{}
}

func (b *breaker) open(now time.Time) {
	b.state = StateOpen
	b.openedAt = now
}

// allow reports whether a request may proceed. While open, requests fail
// fast until the cooldown elapses; the first request after that moves the
// breaker to half-open and is let through as the trial.
func (b *breaker) allow(now time.Time) bool {
	if b.state != StateOpen {
		return true
	}
	if now.Sub(b.openedAt) >= b.cooldown {
		b.state = StateHalfOpen
		return true
	}
	return false
}
