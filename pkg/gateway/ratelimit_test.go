package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AdmitsUpToCapacityThenBlocks(t *testing.T) {
	r := NewRateLimiter()
	r.Configure("p1", ProviderLimits{RPM: 2, Burst: 2}) // capacity = rpm + burst = 4

	admitted := 0
	for i := 0; i < 6; i++ {
		if r.Acquire("p1") {
			admitted++
		}
	}
	assert.Equal(t, 4, admitted, "capacity = rpm + burst tokens should be admittable instantly, no more")
}

func TestRateLimiter_HourlyWindowCapsIndependentlyOfBucket(t *testing.T) {
	r := NewRateLimiter()
	r.Configure("p1", ProviderLimits{RPM: 6000, Burst: 6000, RPH: 2})

	first := r.Acquire("p1")
	second := r.Acquire("p1")
	third := r.Acquire("p1")

	assert.True(t, first)
	assert.True(t, second)
	assert.False(t, third, "rph=2 must block a third request within the hour even though the token bucket has capacity")
}

func TestRateLimiter_WaitForTokenRespectsContextCancellation(t *testing.T) {
	r := NewRateLimiter()
	r.Configure("p1", ProviderLimits{RPM: 1, Burst: 0})
	r.Acquire("p1") // drain any initial burst

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := r.WaitForToken(ctx, "p1")
	require.Error(t, err)
}
