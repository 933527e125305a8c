// Package resolver implements the Entity Resolver (spec §4.D): resolving
// an incoming subject's claimed identifiers to an existing canonical
// Entity by exact identifier match or composite fuzzy scoring, minting a
// new Entity when neither finds one, and the merge/split operations a
// case manager uses to correct a resolution decision after the fact.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clearcheck/investigator/pkg/canonicalize"
	"github.com/clearcheck/investigator/pkg/domain"
)

// Resolver resolves incoming subject claims to canonical Entities.
type Resolver struct {
	store Store
	nowFn func() time.Time
}

// NewResolver constructs a Resolver over store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store, nowFn: time.Now}
}

// Resolution is the outcome of resolving a subject's identifiers.
type Resolution struct {
	Entity  domain.Entity
	Score   float64
	Created bool
}

// Resolve finds the Entity a subject's identifiers refer to, or creates
// one if none matches. Exact match on the canonical identifier (hashed
// SSN/national-ID) wins outright; otherwise the best fuzzy candidate at
// or above MatchThreshold is taken, ties broken by most recently updated
// (spec §4.D). requestedEntityID, when non-empty, is honored as the new
// Entity's ID when no existing entity matches — letting a caller that
// already tracks its own entity identifiers keep them stable, while still
// deduplicating against identifiers the resolver has seen before.
func (r *Resolver) Resolve(ctx context.Context, tenantID, requestedEntityID string, identifiers domain.Identifiers) (Resolution, error) {
	key := canonicalKey(tenantID, identifiers)
	if key != "" {
		rec, err := r.store.ByCanonicalKey(ctx, tenantID, key)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolver: exact lookup: %w", err)
		}
		if rec != nil {
			return Resolution{Entity: rec.Entity, Score: 1.0}, nil
		}
	}

	candidates, err := r.store.Candidates(ctx, tenantID)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolver: list candidates: %w", err)
	}

	var best *Record
	bestScore := 0.0
	for i := range candidates {
		c := &candidates[i]
		score := Score(identifiers, c.Identifiers)
		if score < MatchThreshold {
			continue
		}
		switch {
		case best == nil, score > bestScore:
			best, bestScore = c, score
		case score == bestScore && c.Entity.UpdatedAt.After(best.Entity.UpdatedAt):
			best, bestScore = c, score
		}
	}
	if best != nil {
		return Resolution{Entity: best.Entity, Score: bestScore}, nil
	}

	entityID := requestedEntityID
	if entityID == "" {
		entityID = newEntityID()
	}
	entity := domain.Entity{EntityID: entityID, TenantID: tenantID, UpdatedAt: r.nowFn()}
	if err := r.store.Create(ctx, Record{Entity: entity, Identifiers: identifiers, CanonicalKey: key}); err != nil {
		return Resolution{}, fmt.Errorf("resolver: create entity: %w", err)
	}
	return Resolution{Entity: entity, Created: true}, nil
}

// canonicalKey hashes the tenant-scoped, digits-only SSN/national-ID into
// the exact-match key, or returns "" when no such identifier was
// supplied (exact matching is then skipped in favor of fuzzy scoring).
// Grounded on pkg/cache/fingerprint.go's reuse of the teacher's
// canonicalize.CanonicalHash (RFC 8785 JCS + SHA-256) for deterministic
// hashing elsewhere in the engine.
func canonicalKey(tenantID string, id domain.Identifiers) string {
	ssn := digitsOnly(id.SSN)
	if ssn == "" {
		return ""
	}
	key, err := canonicalize.CanonicalHash(map[string]string{"tenant_id": tenantID, "ssn": ssn})
	if err != nil {
		return ""
	}
	return key
}

func newEntityID() string {
	return "entity-" + uuid.NewString()
}
