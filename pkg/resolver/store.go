package resolver

import (
	"context"
	"sync"
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Record pairs a resolved Entity with the Identifiers it was last
// resolved from and the canonical exact-match key derived from its
// national ID, when one was supplied.
type Record struct {
	Entity       domain.Entity
	Identifiers  domain.Identifiers
	CanonicalKey string
}

// OperationKind distinguishes a merge from a split in the operation log.
type OperationKind string

const (
	OperationMerge OperationKind = "merge"
	OperationSplit OperationKind = "split"
)

// Operation is one resolver decision recorded to the audit trail (spec
// §4.D: merge/split "appends an operation record; reversible unless
// confirmed").
type Operation struct {
	ID           string
	Kind         OperationKind
	SourceID     string
	TargetID     string
	ScreeningIDs []string
	Reversible   bool
	Confirmed    bool
	RecordedAt   time.Time
}

// Store persists resolved entities, the screenings assigned to each, and
// the merge/split operation log. Grounded on profile.Store's mutex-guarded
// InMemoryStore shape; a durable implementation follows the same
// interface a Postgres-backed profile.Store does.
type Store interface {
	ByCanonicalKey(ctx context.Context, tenantID, key string) (*Record, error)
	Candidates(ctx context.Context, tenantID string) ([]Record, error)
	Create(ctx context.Context, rec Record) error
	Update(ctx context.Context, rec Record) error
	ScreeningsFor(ctx context.Context, entityID string) ([]string, error)
	AssignScreening(ctx context.Context, entityID, screeningID string) error
	ReassignScreenings(ctx context.Context, screeningIDs []string, toEntityID string) error
	RecordOperation(ctx context.Context, op Operation) error
}

// InMemoryStore is a mutex-guarded Store, suitable for tests and for
// single-process deployments.
type InMemoryStore struct {
	mu         sync.Mutex
	byEntity   map[string]Record
	byKey      map[string]string // canonical key -> entity ID
	screenings map[string]string // screening ID -> entity ID
	ops        []Operation
}

// NewInMemoryStore constructs an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byEntity:   make(map[string]Record),
		byKey:      make(map[string]string),
		screenings: make(map[string]string),
	}
}

// entityKey namespaces the byEntity map by tenant, so two tenants that
// happen to assign the same caller-supplied entity ID never collide.
func entityKey(tenantID, entityID string) string {
	return tenantID + "|" + entityID
}

func (s *InMemoryStore) ByCanonicalKey(_ context.Context, tenantID, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byKey[key]
	if !ok {
		return nil, nil
	}
	rec, ok := s.byEntity[entityKey(tenantID, id)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *InMemoryStore) Candidates(_ context.Context, tenantID string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.byEntity))
	for _, rec := range s.byEntity {
		if rec.Entity.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Create(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(rec)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(rec)
	return nil
}

func (s *InMemoryStore) putLocked(rec Record) {
	s.byEntity[entityKey(rec.Entity.TenantID, rec.Entity.EntityID)] = rec
	if rec.CanonicalKey != "" {
		s.byKey[rec.CanonicalKey] = rec.Entity.EntityID
	}
}

func (s *InMemoryStore) ScreeningsFor(_ context.Context, entityID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for screeningID, eid := range s.screenings {
		if eid == entityID {
			out = append(out, screeningID)
		}
	}
	return out, nil
}

func (s *InMemoryStore) AssignScreening(_ context.Context, entityID, screeningID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenings[screeningID] = entityID
	return nil
}

func (s *InMemoryStore) ReassignScreenings(_ context.Context, screeningIDs []string, toEntityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range screeningIDs {
		s.screenings[id] = toEntityID
	}
	return nil
}

func (s *InMemoryStore) RecordOperation(_ context.Context, op Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
	return nil
}

// Operations returns every recorded merge/split operation in insertion
// order, for audit inspection and tests.
func (s *InMemoryStore) Operations() []Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Operation, len(s.ops))
	copy(out, s.ops)
	return out
}
