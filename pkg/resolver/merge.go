package resolver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Merge reassigns every screening from source to target and appends an
// operation record (spec §4.D: "reversible unless confirmed"). Passing
// confirm=true finalizes the merge immediately as non-reversible;
// otherwise the operation stays reversible until a later Confirm call.
func (r *Resolver) Merge(ctx context.Context, sourceID, targetID string, confirm bool) (Operation, error) {
	if sourceID == targetID {
		return Operation{}, fmt.Errorf("resolver: cannot merge entity %s into itself", sourceID)
	}
	screeningIDs, err := r.store.ScreeningsFor(ctx, sourceID)
	if err != nil {
		return Operation{}, fmt.Errorf("resolver: merge: list source screenings: %w", err)
	}
	if err := r.store.ReassignScreenings(ctx, screeningIDs, targetID); err != nil {
		return Operation{}, fmt.Errorf("resolver: merge: reassign screenings: %w", err)
	}

	op := Operation{
		ID:           newOperationID(),
		Kind:         OperationMerge,
		SourceID:     sourceID,
		TargetID:     targetID,
		ScreeningIDs: screeningIDs,
		Reversible:   !confirm,
		Confirmed:    confirm,
		RecordedAt:   r.nowFn(),
	}
	if err := r.store.RecordOperation(ctx, op); err != nil {
		return Operation{}, fmt.Errorf("resolver: merge: record operation: %w", err)
	}
	return op, nil
}

// Confirm finalizes a previously reversible operation (e.g. a merge
// performed provisionally while a case manager reviews it), marking it
// non-reversible.
func (r *Resolver) Confirm(ctx context.Context, op Operation) (Operation, error) {
	op.Confirmed = true
	op.Reversible = false
	if err := r.store.RecordOperation(ctx, op); err != nil {
		return Operation{}, fmt.Errorf("resolver: confirm: %w", err)
	}
	return op, nil
}

// Split creates a new Entity under tenantID and moves screeningIDs (a
// subset of source's screenings) onto it, appending an operation record.
// Splitting corrects an over-aggressive merge or an incorrect fuzzy match
// that folded two distinct people into one entity.
func (r *Resolver) Split(ctx context.Context, sourceID, tenantID string, screeningIDs []string, identifiers domain.Identifiers) (domain.Entity, Operation, error) {
	newEntity := domain.Entity{EntityID: newEntityID(), TenantID: tenantID, UpdatedAt: r.nowFn()}
	rec := Record{Entity: newEntity, Identifiers: identifiers, CanonicalKey: canonicalKey(tenantID, identifiers)}
	if err := r.store.Create(ctx, rec); err != nil {
		return domain.Entity{}, Operation{}, fmt.Errorf("resolver: split: create new entity: %w", err)
	}
	if err := r.store.ReassignScreenings(ctx, screeningIDs, newEntity.EntityID); err != nil {
		return domain.Entity{}, Operation{}, fmt.Errorf("resolver: split: reassign screenings: %w", err)
	}

	op := Operation{
		ID:           newOperationID(),
		Kind:         OperationSplit,
		SourceID:     sourceID,
		TargetID:     newEntity.EntityID,
		ScreeningIDs: screeningIDs,
		Reversible:   true,
		RecordedAt:   r.nowFn(),
	}
	if err := r.store.RecordOperation(ctx, op); err != nil {
		return domain.Entity{}, Operation{}, fmt.Errorf("resolver: split: record operation: %w", err)
	}
	return newEntity, op, nil
}

func newOperationID() string {
	return "resolver-op-" + uuid.NewString()
}
