package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_OpensAtFailureThreshold(t *testing.T) {
	b := NewCircuitBreaker(BreakerConfig{FailureThreshold: 3, RecoveryTimeout: time.Minute, HalfOpenMaxCalls: 1})

	for i := 0; i < 2; i++ {
		assert.True(t, b.Allow())
		b.Failure()
	}
	assert.Equal(t, StateClosed, b.State())

	assert.True(t, b.Allow())
	b.Failure()
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestCircuitBreaker_HalfOpenAfterRecoveryTimeout(t *testing.T) {
	now := time.Now()
	b := NewCircuitBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 10 * time.Second, HalfOpenMaxCalls: 1})
	b.nowFn = func() time.Time { return now }

	b.Allow()
	b.Failure()
	assert.Equal(t, StateOpen, b.State())

	now = now.Add(11 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())
}

func TestCircuitBreaker_HalfOpenSuccessCloses(t *testing.T) {
	now := time.Now()
	b := NewCircuitBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 10 * time.Second, HalfOpenMaxCalls: 1})
	b.nowFn = func() time.Time { return now }

	b.Allow()
	b.Failure()
	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow())
	b.Success()
	assert.Equal(t, StateClosed, b.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Now()
	b := NewCircuitBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 10 * time.Second, HalfOpenMaxCalls: 1})
	b.nowFn = func() time.Time { return now }

	b.Allow()
	b.Failure()
	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow())
	b.Failure()
	assert.Equal(t, StateOpen, b.State())
}

func TestCircuitBreaker_HalfOpenLimitsConcurrentProbes(t *testing.T) {
	now := time.Now()
	b := NewCircuitBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 10 * time.Second, HalfOpenMaxCalls: 1})
	b.nowFn = func() time.Time { return now }

	b.Allow()
	b.Failure()
	now = now.Add(11 * time.Second)

	assert.True(t, b.Allow())
	assert.False(t, b.Allow(), "second probe must be rejected while the first is in flight")
}
