package resolver

import (
	"context"
	"testing"

	"github.com/clearcheck/investigator/pkg/domain"
)

func TestResolver_MergeReassignsScreeningsAndRecordsReversibleOperation(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	if _, err := r.Resolve(ctx, "tenant-a", "entity-1", domain.Identifiers{Name: "Jordan Ellis"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Resolve(ctx, "tenant-a", "entity-2", domain.Identifiers{Name: "Jordan R. Ellis"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AssignScreening(ctx, "entity-1", "screening-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	op, err := r.Merge(ctx, "entity-1", "entity-2", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !op.Reversible {
		t.Error("expected an unconfirmed merge to remain reversible")
	}
	if op.Confirmed {
		t.Error("expected an unconfirmed merge not to be marked confirmed")
	}

	screenings, err := store.ScreeningsFor(ctx, "entity-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, s := range screenings {
		if s == "screening-1" {
			found = true
		}
	}
	if !found {
		t.Error("expected screening-1 to be reassigned to entity-2")
	}

	ops := store.Operations()
	if len(ops) != 1 || ops[0].Kind != OperationMerge {
		t.Fatalf("expected one recorded merge operation, got %+v", ops)
	}
}

func TestResolver_ConfirmedMergeIsNotReversible(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	op, err := r.Merge(ctx, "entity-1", "entity-2", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Reversible {
		t.Error("expected a confirmed merge to be non-reversible")
	}
	if !op.Confirmed {
		t.Error("expected a confirmed merge to be marked confirmed")
	}
}

func TestResolver_MergeRejectsSelfMerge(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	if _, err := r.Merge(context.Background(), "entity-1", "entity-1", false); err == nil {
		t.Error("expected an error when merging an entity into itself")
	}
}

func TestResolver_SplitCreatesNewEntityAndMovesSubsetOfScreenings(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	if err := store.AssignScreening(ctx, "entity-1", "screening-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AssignScreening(ctx, "entity-1", "screening-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newEntity, op, err := r.Split(ctx, "entity-1", "tenant-a", []string{"screening-2"}, domain.Identifiers{Name: "Distinct Person"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newEntity.EntityID == "" || newEntity.EntityID == "entity-1" {
		t.Errorf("expected a freshly minted entity ID, got %q", newEntity.EntityID)
	}
	if op.Kind != OperationSplit || !op.Reversible {
		t.Errorf("expected a reversible split operation, got %+v", op)
	}

	remaining, err := store.ScreeningsFor(ctx, "entity-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(remaining) != 1 || remaining[0] != "screening-1" {
		t.Errorf("expected only screening-1 to remain on entity-1, got %v", remaining)
	}

	moved, err := store.ScreeningsFor(ctx, newEntity.EntityID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(moved) != 1 || moved[0] != "screening-2" {
		t.Errorf("expected screening-2 to move to the new entity, got %v", moved)
	}
}
