package gateway

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ProviderLimits configures the per-provider rate limiter (spec §4.B).
type ProviderLimits struct {
	RPM   int // requests per minute
	RPH   int // requests per hour (rolling window counter)
	RPD   int // requests per day (rolling window counter)
	Burst int
}

// RateLimiter is a per-provider token bucket: capacity = rpm + burst,
// refill rate = rpm/60 tokens/sec, plus rolling hour/day counters enforced
// independently (spec §4.B). Grounded on the teacher's reach for
// golang.org/x/time/rate as the token-bucket primitive (already an
// indirect dependency; promoted to direct use here) composed with the
// teacher's own rolling-window bookkeeping style seen in pkg/budget.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*providerLimiter
	nowFn    func() time.Time
}

type providerLimiter struct {
	bucket *rate.Limiter
	limits ProviderLimits

	hourWindow windowCounter
	dayWindow  windowCounter
}

type windowCounter struct {
	windowStart time.Time
	count       int
	size        time.Duration
}

func (w *windowCounter) admit(now time.Time, limit int) bool {
	if limit <= 0 {
		return true
	}
	if now.Sub(w.windowStart) >= w.size {
		w.windowStart = now
		w.count = 0
	}
	if w.count >= limit {
		return false
	}
	w.count++
	return true
}

// NewRateLimiter constructs an empty RateLimiter; providers are registered
// lazily on first use via Configure.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{limiters: make(map[string]*providerLimiter), nowFn: time.Now}
}

// Configure installs or replaces the limits for providerID.
func (r *RateLimiter) Configure(providerID string, limits ProviderLimits) {
	r.mu.Lock()
	defer r.mu.Unlock()

	refillPerSec := float64(limits.RPM) / 60.0
	now := r.nowFn()
	r.limiters[providerID] = &providerLimiter{
		bucket:     rate.NewLimiter(rate.Limit(refillPerSec), limits.RPM+limits.Burst),
		limits:     limits,
		hourWindow: windowCounter{windowStart: now, size: time.Hour},
		dayWindow:  windowCounter{windowStart: now, size: 24 * time.Hour},
	}
}

func (r *RateLimiter) get(providerID string) *providerLimiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	pl, ok := r.limiters[providerID]
	if !ok {
		// Unconfigured providers default to a generous limit rather than
		// blocking forever — misconfiguration should not silently wedge
		// the gateway.
		pl = &providerLimiter{
			bucket:     rate.NewLimiter(rate.Inf, 1),
			hourWindow: windowCounter{windowStart: r.nowFn(), size: time.Hour},
			dayWindow:  windowCounter{windowStart: r.nowFn(), size: 24 * time.Hour},
		}
		r.limiters[providerID] = pl
	}
	return pl
}

// Acquire is the non-blocking admission check (spec §4.B: "acquire is
// non-blocking"). It returns false if no token bucket slot or rolling
// window budget is currently available.
func (r *RateLimiter) Acquire(providerID string) bool {
	pl := r.get(providerID)
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFn()
	if !pl.hourWindow.admit(now, pl.limits.RPH) {
		return false
	}
	if !pl.dayWindow.admit(now, pl.limits.RPD) {
		return false
	}
	return pl.bucket.AllowN(now, 1)
}

// WaitForToken suspends until a token is available or ctx is cancelled
// (spec §4.B: "wait_for_token suspends until refill").
func (r *RateLimiter) WaitForToken(ctx context.Context, providerID string) error {
	pl := r.get(providerID)
	return pl.bucket.Wait(ctx)
}
