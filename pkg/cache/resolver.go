package cache

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/gateway"
)

// meter and its counters track cache hit/miss/stale rates (spec §4.M),
// grounded on the teacher's pkg/observability convention of instrumenting
// the cache layer with OTel counters. With no MeterProvider registered by
// the host process these resolve to the no-op meter.
var (
	meter        = otel.Meter("github.com/clearcheck/investigator/pkg/cache")
	hitCounter   = mustCounter("cache.hit", "cache entries served fresh")
	staleCounter = mustCounter("cache.stale", "cache entries served stale")
	missCounter  = mustCounter("cache.miss", "cache misses requiring an upstream call")
)

func mustCounter(name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic("cache: instrument " + name + ": " + err.Error())
	}
	return c
}

// Fetcher performs the uncached provider call. Implemented by
// *gateway.Gateway in production.
type Fetcher interface {
	Call(ctx context.Context, providerID string, req gateway.Request) (*gateway.Result, error)
}

// Resolver is the Search phase's single entry point for obtaining a
// provider result: it consults the freshness policy, serves a cached
// result when fresh enough, and coalesces concurrent misses for the same
// fingerprint into one upstream call via singleflight — grounded on the
// teacher's reach for golang.org/x/sync (already in the dependency graph)
// for exactly this request-coalescing idiom.
type Resolver struct {
	store   Store
	fetcher Fetcher
	tier    domain.Tier
	group   singleflight.Group
	nowFn   func() time.Time
}

// NewResolver constructs a Resolver for the given tier.
func NewResolver(store Store, fetcher Fetcher, tier domain.Tier) *Resolver {
	return &Resolver{store: store, fetcher: fetcher, tier: tier, nowFn: time.Now}
}

// Resolved is a cache lookup outcome: either served from cache (Stale
// indicates the entry is past Fresh but still within Stale and usable per
// spec §4.C "may be reused with a staleness flag") or freshly fetched.
type Resolved struct {
	Result    *gateway.Result
	FromCache bool
	Stale     bool
}

// Resolve returns a result for (providerID, req), reusing a cached entry
// when the freshness window permits, otherwise calling through to fetcher
// with single-flight coalescing on the fingerprint.
func (r *Resolver) Resolve(ctx context.Context, providerID string, req gateway.Request) (*Resolved, error) {
	fp, err := Fingerprint(providerID, req.CheckType, req.Subject, req.Params)
	if err != nil {
		return nil, err
	}

	window := WindowFor(req.CheckType, r.tier)
	if entry, err := r.store.Get(ctx, fp); err == nil && entry != nil {
		age := r.nowFn().Sub(entry.FetchedAt)
		switch window.Classify(age) {
		case Fresh:
			hitCounter.Add(ctx, 1)
			return &Resolved{Result: entryToResult(providerID, req.CheckType, entry), FromCache: true}, nil
		case Staleish:
			// Enhanced tier refreshes on a stale entry rather than serving
			// it; Standard tier reuses it with the Stale flag set (spec
			// §4.C: "STALE -> refresh if tier=Enhanced else return cached
			// with a stale=true flag").
			if r.tier != domain.TierEnhanced {
				staleCounter.Add(ctx, 1)
				return &Resolved{Result: entryToResult(providerID, req.CheckType, entry), FromCache: true, Stale: true}, nil
			}
		}
	} else if err != nil {
		return nil, err
	}

	missCounter.Add(ctx, 1)
	v, err, _ := r.group.Do(fp, func() (interface{}, error) {
		res, err := r.fetcher.Call(ctx, providerID, req)
		if err != nil {
			return nil, err
		}
		_ = r.store.Put(ctx, Entry{Fingerprint: fp, Payload: res.Payload, FetchedAt: res.FetchedAt})
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return &Resolved{Result: v.(*gateway.Result), FromCache: false}, nil
}

func entryToResult(providerID string, checkType domain.InformationType, e *Entry) *gateway.Result {
	return &gateway.Result{ProviderID: providerID, CheckType: checkType, Payload: e.Payload, FetchedAt: e.FetchedAt}
}
