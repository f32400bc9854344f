package httpx

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_PassesResultsThrough(t *testing.T) {
	b := NewCircuitBreaker("firewall", time.Minute, 3)

	assert.NoError(t, b.Execute(func() error { return nil }))

	callErr := errors.New("status 502")
	err := b.Execute(func() error { return callErr })

	assert.ErrorIs(t, err, callErr)
	assert.Contains(t, err.Error(), "firewall")
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	b := NewCircuitBreaker("firewall", time.Minute, 2)

	for i := 0; i < 2; i++ {
		assert.Error(t, b.Execute(func() error { return errors.New("boom") }))
	}

	calls := 0
	err := b.Execute(func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 0, calls)
}

func TestCircuitBreaker_SuccessBreaksTheFailureStreak(t *testing.T) {
	b := NewCircuitBreaker("firewall", time.Minute, 2)

	assert.Error(t, b.Execute(func() error { return errors.New("boom") }))
	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Error(t, b.Execute(func() error { return errors.New("boom") }))

	// The streak was broken, so the breaker is still closed.
	assert.NoError(t, b.Execute(func() error { return nil }))
}

func TestCircuitBreaker_ProbesAgainAfterResetTimeout(t *testing.T) {
	b := NewCircuitBreaker("firewall", 50*time.Millisecond, 1)

	assert.Error(t, b.Execute(func() error { return errors.New("boom") }))
	assert.ErrorIs(t, b.Execute(func() error { return nil }), gobreaker.ErrOpenState)

	time.Sleep(80 * time.Millisecond)

	// One good probe closes the breaker again.
	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.NoError(t, b.Execute(func() error { return nil }))
}

func TestCircuitBreaker_ConcurrentCallsWhileClosed(t *testing.T) {
	b := NewCircuitBreaker("firewall", time.Minute, 100)

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			done <- b.Execute(func() error { return nil })
		}()
	}
	for i := 0; i < 20; i++ {
		assert.NoError(t, <-done)
	}
}
