package enrichment

import (
	"errors"
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	// StateClosed lets calls through
	StateClosed CircuitState = iota
	// StateOpen rejects calls until the reset timeout has passed
	StateOpen
	// StateHalfOpen lets a probe call through
	StateHalfOpen
)

// String returns the string representation of CircuitState
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

// ErrCircuitOpen indicates the circuit breaker is open and blocking calls
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker stops calling the metadata service after repeated failures.
// A single failure while half-open reopens the circuit.
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration
	state            CircuitState
	failures         int
	openedAt         time.Time
	now              func() time.Time
	onStateChange    func(CircuitState)
	mu               sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker with the given threshold and reset timeout
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		state:            StateClosed,
		now:              time.Now,
	}
}

// OnStateChange registers a callback fired (under lock) on every transition
func (cb *CircuitBreaker) OnStateChange(fn func(CircuitState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Call executes fn if the breaker allows it and records the outcome
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	cb.advanceLocked()
	if cb.state == StateOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.recordFailureLocked()
		return err
	}

	cb.recordSuccessLocked()
	return nil
}

// State returns the current state, moving open to half-open once the timeout elapsed
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.advanceLocked()
	return cb.state
}

// Failures returns the consecutive failure count
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset closes the breaker and clears the failure count
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.openedAt = time.Time{}
	cb.setStateLocked(StateClosed)
}

func (cb *CircuitBreaker) advanceLocked() {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.resetTimeout {
		cb.failures = 0
		cb.setStateLocked(StateHalfOpen)
	}
}

func (cb *CircuitBreaker) recordSuccessLocked() {
	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.setStateLocked(StateClosed)
	}
}

func (cb *CircuitBreaker) recordFailureLocked() {
	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.failureThreshold {
		cb.openedAt = cb.now()
		cb.setStateLocked(StateOpen)
	}
}

func (cb *CircuitBreaker) setStateLocked(state CircuitState) {
	if cb.state == state {
		return
	}
	cb.state = state
	if cb.onStateChange != nil {
		cb.onStateChange(state)
	}
}
