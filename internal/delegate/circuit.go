package delegate

import (
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	StateClosed   CircuitState = iota // upstream healthy
	StateOpen                         // calls short-circuit
	StateHalfOpen                     // one trial call allowed
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calling the upstream after consecutive failures.
// A threshold of zero or less disables it.
type CircuitBreaker struct {
	mu sync.Mutex

	state    CircuitState
	failures int
	openedAt time.Time
	trialOut bool

	failureThreshold int
	recoveryInterval time.Duration
	now              func() time.Time
}

func NewCircuitBreaker(failureThreshold int, recoveryInterval time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		recoveryInterval: recoveryInterval,
		now:              time.Now,
	}
}

// SetLimits replaces the thresholds without resetting the current state.
// Lowering the threshold to or below the running failure count trips a
// closed breaker on the next failure, not immediately.
func (cb *CircuitBreaker) SetLimits(failureThreshold int, recoveryInterval time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureThreshold = failureThreshold
	cb.recoveryInterval = recoveryInterval
	if failureThreshold <= 0 {
		cb.state = StateClosed
		cb.failures = 0
		cb.trialOut = false
	}
}

func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// currentState moves OPEN to HALF_OPEN once the recovery interval has elapsed.
// Must be called with mu held.
func (cb *CircuitBreaker) currentState() CircuitState {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.recoveryInterval {
		cb.state = StateHalfOpen
		cb.trialOut = false
	}
	return cb.state
}

// Allow reports whether a call may go upstream. In HALF_OPEN only the first
// caller gets through until that trial call reports back.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.failureThreshold <= 0 {
		return true
	}

	switch cb.currentState() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.trialOut {
			return false
		}
		cb.trialOut = true
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.trialOut = false
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.failureThreshold <= 0 {
		return
	}

	cb.failures++
	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.failureThreshold {
			cb.trip()
		}
	case StateHalfOpen:
		cb.trip()
	}
}

// trip must be called with mu held.
func (cb *CircuitBreaker) trip() {
	cb.state = StateOpen
	cb.openedAt = cb.now()
	cb.trialOut = false
}
