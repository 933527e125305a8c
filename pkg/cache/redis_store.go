package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis, grounded on the teacher's
// pkg/kernel.RedisLimiterStore construction pattern (addr/password/db
// client setup) generalized from rate-limit bucket hashes to JSON-encoded
// cache entries with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore. ttl bounds how long an entry
// survives in Redis regardless of freshness-window classification — it
// should be set to the widest Stale window in use (education: 730 days)
// so Redis eviction never precedes a freshness policy recheck.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
	}
}

func redisKey(fingerprint string) string { return "investigator:cache:" + fingerprint }

func (s *RedisStore) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	raw, err := s.client.Get(ctx, redisKey(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: redis get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("cache: redis decode: %w", err)
	}
	return &e, nil
}

func (s *RedisStore) Put(ctx context.Context, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache: redis encode: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(entry.Fingerprint), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}
