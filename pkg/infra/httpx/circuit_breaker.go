package httpx

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreaker fails calls fast once the guarded dependency is deemed
// down, instead of letting every dispatch in a wave stall on it.
type CircuitBreaker interface {
	Execute(fn func() error) error
}

type circuitBreaker struct {
	inner *gobreaker.CircuitBreaker
}

// NewCircuitBreaker trips after maxFailures consecutive failures and
// stays open for resetTimeout. A single successful probe afterwards
// closes it again.
func NewCircuitBreaker(name string, resetTimeout time.Duration, maxFailures uint32) CircuitBreaker {
	return &circuitBreaker{
		inner: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     resetTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		}),
	}
}

func (b *circuitBreaker) Execute(fn func() error) error {
	_, err := b.inner.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil {
		return fmt.Errorf("breaker %s: %w", b.inner.Name(), err)
	}
	return nil
}
