package gateway

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/clearcheck/investigator/pkg/domain"
)

// tracer emits one span per provider call (spec §4.M), grounded on the
// teacher's pkg/observability convention of wrapping cross-component calls
// in OTel spans. With no TracerProvider registered by the host process
// this is the global no-op tracer, so it's safe to leave on unconditionally.
var tracer = otel.Tracer("github.com/clearcheck/investigator/pkg/gateway")

// ProviderConfig bundles the per-provider knobs the gateway composes around
// a raw Provider.Call (spec §4.B).
type ProviderConfig struct {
	Limits  ProviderLimits
	Timeout time.Duration
	Retry   RetryConfig
	Breaker BreakerConfig
}

// Gateway dispatches requests to registered providers through the composed
// pipeline call = circuit_breaker(retry(rate_limiter(raw_call))) (spec
// §4.B).
type Gateway struct {
	limiter *RateLimiter

	providers map[string]Provider
	configs   map[string]ProviderConfig
	breakers  map[string]*CircuitBreaker
}

// New constructs an empty Gateway.
func New() *Gateway {
	return &Gateway{
		limiter:   NewRateLimiter(),
		providers: make(map[string]Provider),
		configs:   make(map[string]ProviderConfig),
		breakers:  make(map[string]*CircuitBreaker),
	}
}

// Register installs a provider and its resiliency configuration.
func (g *Gateway) Register(p Provider, cfg ProviderConfig) {
	g.providers[p.ID()] = p
	g.configs[p.ID()] = cfg
	g.limiter.Configure(p.ID(), cfg.Limits)
	g.breakers[p.ID()] = NewCircuitBreaker(cfg.Breaker)
}

// CapableProviders returns registered providers declaring support for
// checkType.
func (g *Gateway) CapableProviders(checkType domain.InformationType) []Provider {
	var out []Provider
	for _, p := range g.providers {
		if Capable(p, checkType) {
			out = append(out, p)
		}
	}
	return out
}

// Call dispatches req to the named provider through the composed resiliency
// pipeline. Returns a *ProviderError with Kind ErrorRateLimited if the
// token bucket has no capacity, and one with Kind ErrorServiceUnavailable
// if the circuit is open.
func (g *Gateway) Call(ctx context.Context, providerID string, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "gateway.Call", trace.WithAttributes(
		attribute.String("provider_id", providerID),
		attribute.String("check_type", string(req.CheckType)),
	))
	defer span.End()

	res, err := g.call(ctx, providerID, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	return res, err
}

func (g *Gateway) call(ctx context.Context, providerID string, req Request) (*Result, error) {
	p, ok := g.providers[providerID]
	if !ok {
		return nil, &ProviderError{Kind: ErrorInvalidRequest, Detail: "unknown provider " + providerID}
	}
	cfg := g.configs[providerID]
	breaker := g.breakers[providerID]

	if !breaker.Allow() {
		return nil, &ProviderError{Kind: ErrorServiceUnavailable, Detail: "circuit open for " + providerID}
	}

	r := newRetrier(cfg.Retry)
	res, err := r.do(ctx, func(ctx context.Context) (*Result, error) {
		if !g.limiter.Acquire(providerID) {
			return nil, &ProviderError{Kind: ErrorRateLimited, Detail: "rate limit exceeded for " + providerID}
		}
		callCtx := ctx
		var cancel context.CancelFunc
		if cfg.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		return p.Call(callCtx, req)
	})

	if err != nil {
		breaker.Failure()
		return nil, err
	}
	breaker.Success()
	return res, nil
}

// BreakerState exposes the current circuit state for a provider, for
// observability and tests.
func (g *Gateway) BreakerState(providerID string) BreakerState {
	b, ok := g.breakers[providerID]
	if !ok {
		return StateClosed
	}
	return b.State()
}
