// SPDX-License-Identifier: MIT

package geocode

import (
	"errors"
	"sync"
	"time"

	"github.com/astrochart/astrod/internal/metrics"
)

// BreakerState represents the circuit breaker state.
type BreakerState int

const (
	StateClosed   BreakerState = iota // Normal operation, requests allowed
	StateOpen                         // Circuit open, requests blocked
	StateHalfOpen                     // Testing if the provider recovered
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("geocode: circuit breaker is open")

// Breaker prevents hammering a failing geocoding provider.
type Breaker struct {
	mu               sync.Mutex
	state            BreakerState
	failures         int
	failureThreshold int
	resetTimeout     time.Duration
	lastFailure      time.Time
}

// NewBreaker creates a circuit breaker that opens after threshold consecutive
// failures and probes again after resetTimeout.
func NewBreaker(threshold int, resetTimeout time.Duration) *Breaker {
	if resetTimeout == 0 {
		resetTimeout = 30 * time.Second
	}
	b := &Breaker{
		state:            StateClosed,
		failureThreshold: threshold,
		resetTimeout:     resetTimeout,
	}
	metrics.SetBreakerState(stateLabel(b.state))
	return b
}

// Execute runs fn if the circuit is closed or half-open.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allowRequest() {
		return ErrCircuitOpen
	}

	if err := fn(); err != nil {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return nil
}

// State returns the current breaker state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allowRequest() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(b.lastFailure) > b.resetTimeout {
			b.setState(StateHalfOpen)
			return true
		}
		return false
	default: // StateHalfOpen: allow a probe request
		return true
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = time.Now()
	if b.state == StateHalfOpen || b.failures >= b.failureThreshold {
		b.setState(StateOpen)
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state != StateClosed {
		b.setState(StateClosed)
	}
}

// setState transitions the breaker; callers hold b.mu.
func (b *Breaker) setState(s BreakerState) {
	if b.state == s {
		return
	}
	b.state = s
	metrics.SetBreakerState(stateLabel(s))
}

func stateLabel(s BreakerState) string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}
