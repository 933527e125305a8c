package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clearcheck/investigator/pkg/cache"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	entries map[string]cache.Entry
}

func newMemStore() *memStore { return &memStore{entries: make(map[string]cache.Entry)} }

func (m *memStore) Get(_ context.Context, fp string) (*cache.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[fp]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memStore) Put(_ context.Context, e cache.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Fingerprint] = e
	return nil
}

type countingFetcher struct {
	calls int64
	delay time.Duration
}

func (f *countingFetcher) Call(ctx context.Context, providerID string, req gateway.Request) (*gateway.Result, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return &gateway.Result{ProviderID: providerID, CheckType: req.CheckType, Payload: map[string]any{"ok": true}, FetchedAt: time.Now()}, nil
}

func TestResolver_ServesFreshCacheWithoutFetching(t *testing.T) {
	store := newMemStore()
	fetcher := &countingFetcher{}
	r := cache.NewResolver(store, fetcher, domain.TierStandard)

	req := gateway.Request{CheckType: domain.InfoCriminal, Subject: domain.Identifiers{Name: "Jane Doe"}}

	res1, err := r.Resolve(context.Background(), "p1", req)
	require.NoError(t, err)
	assert.False(t, res1.FromCache)

	res2, err := r.Resolve(context.Background(), "p1", req)
	require.NoError(t, err)
	assert.True(t, res2.FromCache)
	assert.False(t, res2.Stale)
	assert.Equal(t, int64(1), fetcher.calls)
}

func TestResolver_StandardTierServesStaleEntryWithFlag(t *testing.T) {
	store := newMemStore()
	fetcher := &countingFetcher{}
	r := cache.NewResolver(store, fetcher, domain.TierStandard)

	req := gateway.Request{CheckType: domain.InfoCriminal, Subject: domain.Identifiers{Name: "Jane Doe"}}
	fp, err := cache.Fingerprint("p1", req.CheckType, req.Subject, req.Params)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), cache.Entry{
		Fingerprint: fp,
		FetchedAt:   time.Now().Add(-10 * 24 * time.Hour), // within Standard's [7d,30d] stale window
	}))

	res, err := r.Resolve(context.Background(), "p1", req)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.True(t, res.Stale)
	assert.Equal(t, int64(0), fetcher.calls, "Standard tier must not refetch a stale-but-usable entry")
}

func TestResolver_EnhancedTierRefreshesStaleEntryInsteadOfServingIt(t *testing.T) {
	store := newMemStore()
	fetcher := &countingFetcher{}
	r := cache.NewResolver(store, fetcher, domain.TierEnhanced)

	req := gateway.Request{CheckType: domain.InfoCriminal, Subject: domain.Identifiers{Name: "Jane Doe"}}
	fp, err := cache.Fingerprint("p1", req.CheckType, req.Subject, req.Params)
	require.NoError(t, err)
	// Enhanced's criminal window is Fresh=3.5d, Stale=21d; 10d is within
	// Staleish for Enhanced too, so this exercises the refresh branch
	// rather than the Expired branch.
	require.NoError(t, store.Put(context.Background(), cache.Entry{
		Fingerprint: fp,
		FetchedAt:   time.Now().Add(-10 * 24 * time.Hour),
	}))

	res, err := r.Resolve(context.Background(), "p1", req)
	require.NoError(t, err)
	assert.False(t, res.FromCache, "Enhanced tier must refresh rather than serve a stale entry")
	assert.Equal(t, int64(1), fetcher.calls)
}

func TestResolver_CoalescesConcurrentMisses(t *testing.T) {
	store := newMemStore()
	fetcher := &countingFetcher{delay: 20 * time.Millisecond}
	r := cache.NewResolver(store, fetcher, domain.TierStandard)

	req := gateway.Request{CheckType: domain.InfoCriminal, Subject: domain.Identifiers{Name: "Jane Doe"}}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Resolve(context.Background(), "p1", req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), fetcher.calls, "concurrent misses on the same fingerprint must coalesce into one upstream call")
}
