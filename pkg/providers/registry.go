package providers

import (
	"context"
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/gateway"
)

// Adapter implements gateway.Provider over a capability source, declaring
// Capabilities() from whichever capabilityBindings the source satisfies
// and dispatching Call() to the matching invoke function.
type Adapter struct {
	id     string
	source any
	caps   []domain.InformationType
}

// NewAdapter probes source against every known capability binding and
// builds the resulting Provider. A source satisfying no binding still
// constructs (Capabilities() returns empty), since that's a registration
// mistake the caller should catch, not a reason to panic.
func NewAdapter(id string, source any) *Adapter {
	a := &Adapter{id: id, source: source}
	declarer, hasDeclarer := source.(Declarer)
	for _, b := range capabilityBindings {
		if !b.probe(source) {
			continue
		}
		if hasDeclarer && !declarer.SupportsCheck(b.checkType) {
			continue
		}
		a.caps = append(a.caps, b.checkType)
	}
	return a
}

func (a *Adapter) ID() string { return a.id }

func (a *Adapter) Capabilities() []domain.InformationType { return a.caps }

// Call dispatches to the capability binding matching req.CheckType. Spec
// §4.B: an unsupported check_type is a permanent (non-retryable) error
// since retrying wouldn't change what the provider supports.
func (a *Adapter) Call(ctx context.Context, req gateway.Request) (*gateway.Result, error) {
	for _, c := range a.caps {
		if c != req.CheckType {
			continue
		}
		var invoke func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error)
		for _, b := range capabilityBindings {
			if b.checkType == req.CheckType {
				invoke = b.invoke
				break
			}
		}
		payload, err := invoke(a.source, ctx, req.Subject)
		if err != nil {
			return nil, err
		}
		return &gateway.Result{
			ProviderID: a.id,
			CheckType:  req.CheckType,
			Payload:    payload,
			FetchedAt:  time.Now(),
		}, nil
	}
	return nil, &gateway.ProviderError{Kind: gateway.ErrorInvalidRequest, Detail: "provider " + a.id + " does not support " + string(req.CheckType)}
}

// Registry registers capability sources with the Provider Gateway and
// tracks the resulting Providers for the Query Planner's
// DataSourceResolver, grounded on the teacher's pkg/capabilities/organs.go
// notion of resolving declared capabilities against what's actually
// installed — here, "installed" means "registered with resiliency
// configuration attached."
type Registry struct {
	gateway   *gateway.Gateway
	providers []gateway.Provider
}

// NewRegistry constructs a Registry backed by gw.
func NewRegistry(gw *gateway.Gateway) *Registry {
	return &Registry{gateway: gw}
}

// Register wraps source in an Adapter, installs it on the Gateway with cfg,
// and tracks it for Providers().
func (r *Registry) Register(id string, source any, cfg gateway.ProviderConfig) *Adapter {
	adapter := NewAdapter(id, source)
	r.gateway.Register(adapter, cfg)
	r.providers = append(r.providers, adapter)
	return adapter
}

// Providers returns every registered Provider, in registration order, for
// planner.NewDataSourceResolver.
func (r *Registry) Providers() []gateway.Provider {
	return r.providers
}

// DefaultProviderConfig returns conservative, TEST-friendly resiliency
// defaults for a provider that doesn't need its own tuned limits:
// moderate rate limiting, up to three attempts with exponential backoff, and a
// circuit breaker that opens after five consecutive failures.
func DefaultProviderConfig() gateway.ProviderConfig {
	return gateway.ProviderConfig{
		Limits:  gateway.ProviderLimits{RPM: 60, RPH: 2000, RPD: 20000, Burst: 10},
		Timeout: 10 * time.Second,
		Retry: gateway.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 250 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Base:         2.0,
		},
		Breaker: gateway.BreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
			HalfOpenMaxCalls: 2,
		},
	}
}
