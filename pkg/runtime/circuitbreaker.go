package runtime

import (
	"sync"
	"time"

	"github.com/tuitbot/tuitbot/internal/config"
)

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// CircuitBreaker wraps API writes: it tracks errors in a sliding
// window, opens when errorThreshold is reached within windowSeconds,
// rejects fast for cooldownSeconds, then allows exactly one probe
// write before deciding to close or re-open.
type CircuitBreaker struct {
	errorThreshold int
	window         time.Duration
	cooldown       time.Duration

	mu        sync.Mutex
	state     breakerState
	errors    []time.Time
	openedAt  time.Time
	probeSent bool
}

// NewCircuitBreaker builds a breaker from cfg.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		errorThreshold: cfg.ErrorThreshold,
		window:         time.Duration(cfg.WindowSeconds) * time.Second,
		cooldown:       time.Duration(cfg.CooldownSeconds) * time.Second,
	}
}

// Allow reports whether a write may proceed right now. A half-open
// breaker allows exactly one probe through until RecordResult reports
// its outcome.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed:
		return true
	case breakerOpen:
		if time.Since(b.openedAt) < b.cooldown {
			return false
		}
		b.state = breakerHalfOpen
		b.probeSent = false
		fallthrough
	case breakerHalfOpen:
		if b.probeSent {
			return false
		}
		b.probeSent = true
		return true
	}
	return true
}

// RecordResult reports the outcome of a write Allow() admitted.
func (b *CircuitBreaker) RecordResult(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.state = breakerClosed
		b.errors = nil
		return
	}

	now := time.Now()
	if b.state == breakerHalfOpen {
		b.state = breakerOpen
		b.openedAt = now
		b.errors = nil
		return
	}

	b.errors = append(b.errors, now)
	cutoff := now.Add(-b.window)
	kept := b.errors[:0]
	for _, t := range b.errors {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.errors = kept

	if len(b.errors) >= b.errorThreshold {
		b.state = breakerOpen
		b.openedAt = now
		b.errors = nil
	}
}

// State reports the breaker's current disposition, for telemetry.
func (b *CircuitBreaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}
