// Package circuit guards calls to flaky dependencies such as the notification broker.
package circuit

import (
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	// StateHalfOpen lets a single probe through after the cooldown.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Breaker opens after FailureThreshold consecutive failures and stays open
// for Cooldown. The first call after the cooldown is a probe: success closes
// the circuit, failure re-opens it for another cooldown.
type Breaker struct {
	mu               sync.Mutex
	name             string
	state            State
	failures         int
	openedAt         time.Time
	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time
}

type Option func(*Breaker)

// WithFailureThreshold defaults to 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithCooldown defaults to 30s.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may proceed. An open circuit whose cooldown
// has elapsed moves to half-open and admits exactly one probe.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(b.openedAt) >= b.cooldown {
			b.state = StateHalfOpen
			return true
		}
		return false
	default:
		// probe already in flight
		return false
	}
}

// RecordFailure returns true when this failure tripped the circuit.
func (b *Breaker) RecordFailure() (opened bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.state == StateHalfOpen || (b.state == StateClosed && b.failures >= b.failureThreshold) {
		b.state = StateOpen
		b.openedAt = b.now()
		return true
	}
	return false
}

// RecordSuccess returns true when this success closed a half-open circuit.
func (b *Breaker) RecordSuccess() (closed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state != StateClosed {
		b.state = StateClosed
		return true
	}
	return false
}
