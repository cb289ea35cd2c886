package matrixquiz

import (
	"errors"
	"sync"
	"time"
)

// CircuitState is the state of a CircuitBreaker.
type CircuitState int

const (
	// CircuitClosed lets every call through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until the cool-down elapses.
	CircuitOpen
	// CircuitHalfOpen lets a single trial call through.
	CircuitHalfOpen
)

// String returns the name of the state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when the breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the circuit. Default 3.
	FailureThreshold int
	// CoolDown is how long the circuit stays open. Default 10s.
	CoolDown time.Duration
	// OnStateChange, if set, is called synchronously on every transition
	// after the breaker lock is released.
	OnStateChange func(from, to CircuitState)
}

// DefaultCircuitBreakerConfig returns the reload breaker defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 3,
		CoolDown:         10 * time.Second,
	}
}

// CircuitBreakerStats reports breaker activity.
type CircuitBreakerStats struct {
	State               CircuitState
	ConsecutiveFailures int
	TotalSuccesses      int64
	TotalFailures       int64
	TotalRejections     int64
	LastFailure         time.Time
}

// CircuitBreaker stops calling a failing operation for a cool-down period.
// Config reloads go through one so that a file saved repeatedly in a
// broken state is not re-parsed on every write.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	now    func() time.Time

	mu          sync.Mutex
	state       CircuitState
	failures    int
	trial       bool
	lastFailure time.Time
	successes   int64
	failed      int64
	rejected    int64
}

// NewCircuitBreaker creates a closed breaker. Zero fields of config take
// their defaults.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = def.FailureThreshold
	}
	if config.CoolDown <= 0 {
		config.CoolDown = def.CoolDown
	}
	return &CircuitBreaker{config: config, now: time.Now}
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	from, to, ok := cb.admit()
	cb.notify(from, to)
	if !ok {
		return ErrCircuitOpen
	}

	err := fn()

	from, to = cb.record(err)
	cb.notify(from, to)
	return err
}

// State returns the current state. An open circuit whose cool-down has
// elapsed reports CircuitHalfOpen.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailure) >= cb.config.CoolDown {
		return CircuitHalfOpen
	}
	return cb.state
}

// Stats returns a copy of the breaker counters.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return CircuitBreakerStats{
		State:               cb.state,
		ConsecutiveFailures: cb.failures,
		TotalSuccesses:      cb.successes,
		TotalFailures:       cb.failed,
		TotalRejections:     cb.rejected,
		LastFailure:         cb.lastFailure,
	}
}

// Reset closes the circuit and forgets consecutive failures.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.state = CircuitClosed
	cb.failures = 0
	cb.trial = false
	cb.mu.Unlock()
	cb.notify(from, CircuitClosed)
}

func (cb *CircuitBreaker) admit() (from, to CircuitState, ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	from = cb.state
	switch cb.state {
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailure) < cb.config.CoolDown {
			cb.rejected++
			return from, from, false
		}
		cb.state = CircuitHalfOpen
		cb.trial = true
		return from, cb.state, true
	case CircuitHalfOpen:
		if cb.trial {
			cb.rejected++
			return from, from, false
		}
		cb.trial = true
	}
	return from, cb.state, true
}

func (cb *CircuitBreaker) record(err error) (from, to CircuitState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	from = cb.state
	cb.trial = false
	if err == nil {
		cb.successes++
		cb.failures = 0
		cb.state = CircuitClosed
		return from, cb.state
	}

	cb.failed++
	cb.failures++
	cb.lastFailure = cb.now()
	if cb.state == CircuitHalfOpen || cb.failures >= cb.config.FailureThreshold {
		cb.state = CircuitOpen
	}
	return from, cb.state
}

func (cb *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
