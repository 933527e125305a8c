package gateway

import (
	"sync"
	"time"
)

// BreakerState is one of the three circuit breaker states (spec §4.B).
type BreakerState string

const (
	StateClosed   BreakerState = "closed"
	StateOpen     BreakerState = "open"
	StateHalfOpen BreakerState = "half_open"
)

// BreakerConfig parameterizes a CircuitBreaker per provider.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures before opening
	RecoveryTimeout  time.Duration // open -> half_open after this elapses
	HalfOpenMaxCalls int           // probe calls allowed while half_open
}

// CircuitBreaker is a three-state (closed/open/half_open) breaker, grounded
// on the teacher's pkg/util/resiliency.CircuitBreaker but generalized to the
// spec's explicit half-open probe budget: closed -> open at
// failure_threshold consecutive failures, open -> half_open after
// recovery_timeout, half_open allows half_open_max_calls probes (any
// success closes and resets; any failure reopens).
type CircuitBreaker struct {
	mu sync.Mutex

	cfg BreakerConfig

	state            BreakerState
	consecutiveFails int
	openedAt         time.Time
	halfOpenInFlight int

	nowFn func() time.Time
}

// NewCircuitBreaker constructs a breaker starting in the closed state.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}
	return &CircuitBreaker{cfg: cfg, state: StateClosed, nowFn: time.Now}
}

// State returns the current breaker state, transitioning open -> half_open
// if the recovery timeout has elapsed.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeRecover()
	return b.state
}

func (b *CircuitBreaker) maybeRecover() {
	if b.state == StateOpen && b.nowFn().Sub(b.openedAt) >= b.cfg.RecoveryTimeout {
		b.state = StateHalfOpen
		b.halfOpenInFlight = 0
	}
}

// Allow reports whether a call may proceed, reserving a half-open probe
// slot if applicable. Callers that receive true MUST report the outcome via
// Success or Failure exactly once.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeRecover()

	switch b.state {
	case StateOpen:
		return false
	case StateHalfOpen:
		if b.halfOpenInFlight >= b.cfg.HalfOpenMaxCalls {
			return false
		}
		b.halfOpenInFlight++
		return true
	default: // StateClosed
		return true
	}
}

// Success records a successful call. In half_open it closes the breaker and
// resets the failure count; in closed it resets the consecutive-failure
// counter.
func (b *CircuitBreaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.state = StateClosed
		b.halfOpenInFlight = 0
	}
	b.consecutiveFails = 0
}

// Failure records a failed call. In half_open it reopens immediately; in
// closed it opens once consecutive failures reach the threshold.
func (b *CircuitBreaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.open()
		return
	case StateOpen:
		return
	}

	b.consecutiveFails++
	if b.consecutiveFails >= b.cfg.FailureThreshold {
		b.open()
	}
}

func (b *CircuitBreaker) open() {
	b.state = StateOpen
	b.openedAt = b.nowFn()
	b.halfOpenInFlight = 0
	b.consecutiveFails = 0
}
