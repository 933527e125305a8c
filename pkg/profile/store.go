// Package profile implements profile versioning and delta computation
// (spec §4.K): each investigation run produces a new immutable
// domain.Profile version, and deltas against the prior version surface
// what changed plus any evolution signals worth alerting on.
package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Store persists Profile versions per entity. Implementations must return
// the highest Version on Latest and must never allow Save to silently
// overwrite an existing version (spec §4.K.1: "profiles are immutable once
// produced").
type Store interface {
	Latest(ctx context.Context, entityID string) (*domain.Profile, error)
	Save(ctx context.Context, p domain.Profile) error
}

// ErrNotFound is returned by Latest when an entity has no saved profile yet.
var ErrNotFound = fmt.Errorf("profile: not found")

// ErrVersionConflict is returned by Save when p.Version does not
// immediately follow the store's current latest version, signaling a
// concurrent writer raced this one (analogous to the ledger package's
// lease/CAS discipline for Obligation updates).
var ErrVersionConflict = fmt.Errorf("profile: version conflict")

// InMemoryStore is a mutex-guarded Store, suitable for tests and for
// single-process deployments fronted by an external durable store later.
type InMemoryStore struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
}

// NewInMemoryStore constructs an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[string]domain.Profile)}
}

// Latest returns the highest-versioned Profile saved for entityID.
func (s *InMemoryStore) Latest(_ context.Context, entityID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[entityID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Save stores p as the new latest version for p.EntityID, rejecting any
// version that does not strictly increase on the current latest.
func (s *InMemoryStore) Save(_ context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles[p.EntityID]; ok && p.Version <= existing.Version {
		return ErrVersionConflict
	}
	s.profiles[p.EntityID] = p
	return nil
}
