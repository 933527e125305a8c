package cache

import (
	"context"
	"time"
)

// Entry is a cached provider result keyed by Fingerprint.
type Entry struct {
	Fingerprint string
	Payload     map[string]any
	FetchedAt   time.Time
}

// Store persists cache entries. Grounded on the teacher's Redis-backed
// store pattern (pkg/kernel/limiter_redis.go) generalized from rate-limit
// counters to result caching. RedisStore and InMemoryStore implement it;
// there is no Postgres-backed implementation.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*Entry, error) // nil, nil on miss
	Put(ctx context.Context, entry Entry) error
}
