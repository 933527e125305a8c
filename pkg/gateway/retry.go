package gateway

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig parameterizes the backoff policy (spec §4.B).
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Base         float64 // exponential base, e.g. 2.0
}

// retrier applies RetryConfig around a raw provider call, retrying only
// errors whose ErrorKind.Retryable() is true and honoring
// ProviderError.RetryAfter when the provider supplies one. Backoff is
// delay = initial * base^(attempt-1), capped at max_delay, with uniform
// jitter in [0.5, 1.5) applied multiplicatively — the spec is explicit
// about a jitter range rather than a deterministic schedule, so unlike the
// teacher's hash-seeded jitter this uses math/rand directly.
type retrier struct {
	cfg   RetryConfig
	rng   *rand.Rand
	sleep func(context.Context, time.Duration) error
}

func newRetrier(cfg RetryConfig) *retrier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Base <= 1 {
		cfg.Base = 2
	}
	r := &retrier{cfg: cfg, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	r.sleep = r.contextSleep
	return r
}

func (r *retrier) contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *retrier) delay(attempt int) time.Duration {
	raw := float64(r.cfg.InitialDelay) * math.Pow(r.cfg.Base, float64(attempt-1))
	if cap := float64(r.cfg.MaxDelay); r.cfg.MaxDelay > 0 && raw > cap {
		raw = cap
	}
	jitter := 0.5 + r.rng.Float64() // [0.5, 1.5)
	return time.Duration(raw * jitter)
}

// do runs fn up to cfg.MaxAttempts times, retrying only on a *ProviderError
// whose Kind.Retryable() is true.
func (r *retrier) do(ctx context.Context, fn func(ctx context.Context) (*Result, error)) (*Result, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		var perr *ProviderError
		if !errors.As(err, &perr) || !perr.Kind.Retryable() {
			return nil, err
		}
		if attempt == r.cfg.MaxAttempts {
			break
		}

		wait := r.delay(attempt)
		if perr.RetryAfter > 0 {
			wait = perr.RetryAfter
		}
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}
