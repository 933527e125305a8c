package resolver

import (
	"context"
	"testing"

	"github.com/clearcheck/investigator/pkg/domain"
)

func TestResolver_ExactMatchOnSSNWinsOverFuzzyScoring(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "tenant-a", "entity-1", domain.Identifiers{Name: "Jordan Ellis", SSN: "123-45-6789"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Created {
		t.Fatal("expected the first resolution to create a new entity")
	}

	second, err := r.Resolve(ctx, "tenant-a", "entity-2", domain.Identifiers{Name: "J. Ellis", SSN: "123456789"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Created {
		t.Error("expected the matching SSN to resolve to the existing entity, not create a new one")
	}
	if second.Entity.EntityID != first.Entity.EntityID {
		t.Errorf("expected entity %s, got %s", first.Entity.EntityID, second.Entity.EntityID)
	}
	if second.Score != 1.0 {
		t.Errorf("expected an exact-match score of 1.0, got %v", second.Score)
	}
}

func TestResolver_FuzzyMatchAboveThresholdReusesExistingEntity(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "tenant-a", "entity-1", domain.Identifiers{
		Name: "Jordan Ellis", DOB: "1985-02-11", Addresses: []string{"12 Elm St, Springfield"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := r.Resolve(ctx, "tenant-a", "entity-2", domain.Identifiers{
		Name: "Jordan Ellis", DOB: "1985-02-11", Addresses: []string{"12 Elm St, Springfield"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Created {
		t.Error("expected a high-scoring fuzzy match to reuse the existing entity")
	}
	if second.Entity.EntityID != first.Entity.EntityID {
		t.Errorf("expected entity %s, got %s", first.Entity.EntityID, second.Entity.EntityID)
	}
}

func TestResolver_BelowThresholdCreatesNewEntity(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	if _, err := r.Resolve(ctx, "tenant-a", "entity-1", domain.Identifiers{Name: "Jordan Ellis", DOB: "1985-02-11"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := r.Resolve(ctx, "tenant-a", "entity-2", domain.Identifiers{Name: "Priya Natarajan", DOB: "1972-11-03"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Created {
		t.Error("expected an unrelated subject to create a new entity")
	}
	if second.Entity.EntityID != "entity-2" {
		t.Errorf("expected the requested entity ID to be honored, got %s", second.Entity.EntityID)
	}
}

func TestResolver_BlankRequestedIDMintsOne(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	res, err := r.Resolve(ctx, "tenant-a", "", domain.Identifiers{Name: "No Explicit ID", DOB: "2000-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entity.EntityID == "" {
		t.Error("expected a minted entity ID when none was requested")
	}
}

func TestResolver_TenantsAreIsolated(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	id := domain.Identifiers{Name: "Jordan Ellis", SSN: "123456789"}
	first, err := r.Resolve(ctx, "tenant-a", "entity-1", id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := r.Resolve(ctx, "tenant-b", "entity-1", id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Created {
		t.Error("expected a matching SSN under a different tenant not to resolve across tenants")
	}
	if second.Entity.TenantID == first.Entity.TenantID {
		t.Error("expected the two resolutions to belong to different tenants")
	}
}
