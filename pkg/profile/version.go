package profile

import (
	"context"
	"errors"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Manager assigns monotonic versions and persists new Profile versions,
// computing a Delta against whatever was previously on file.
type Manager struct {
	store Store
}

// NewManager constructs a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Commit assigns the next version for candidate.EntityID (1 if this is the
// first profile on file), persists it, and returns the Delta against the
// prior version (nil Delta on first commit — there is nothing to diff
// against).
func (m *Manager) Commit(ctx context.Context, candidate domain.Profile) (domain.Profile, *domain.ProfileDelta, error) {
	prior, err := m.store.Latest(ctx, candidate.EntityID)
	switch {
	case errors.Is(err, ErrNotFound):
		candidate.Version = 1
		if err := m.store.Save(ctx, candidate); err != nil {
			return domain.Profile{}, nil, err
		}
		return candidate, nil, nil
	case err != nil:
		return domain.Profile{}, nil, err
	}

	candidate.Version = prior.Version + 1
	if err := m.store.Save(ctx, candidate); err != nil {
		return domain.Profile{}, nil, err
	}

	delta := ComputeDelta(*prior, candidate)
	return candidate, &delta, nil
}
