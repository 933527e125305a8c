package profile_test

import (
	"context"
	"testing"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_FirstCommitStartsAtVersionOneWithNoDelta(t *testing.T) {
	mgr := profile.NewManager(profile.NewInMemoryStore())

	saved, delta, err := mgr.Commit(context.Background(), domain.Profile{EntityID: "e1"})

	require.NoError(t, err)
	assert.Equal(t, 1, saved.Version)
	assert.Nil(t, delta)
}

func TestManager_SecondCommitIncrementsVersionAndReturnsDelta(t *testing.T) {
	mgr := profile.NewManager(profile.NewInMemoryStore())
	ctx := context.Background()

	_, _, err := mgr.Commit(ctx, domain.Profile{EntityID: "e1", RiskScore: 10})
	require.NoError(t, err)

	saved, delta, err := mgr.Commit(ctx, domain.Profile{EntityID: "e1", RiskScore: 40})
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)
	require.NotNil(t, delta)
	assert.Equal(t, 1, delta.OldVersion)
	assert.Equal(t, 2, delta.NewVersion)
	assert.Equal(t, 30.0, delta.RiskScoreChange)
}

func TestInMemoryStore_RejectsNonIncreasingVersion(t *testing.T) {
	store := profile.NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Profile{EntityID: "e1", Version: 2}))
	err := store.Save(ctx, domain.Profile{EntityID: "e1", Version: 2})
	assert.ErrorIs(t, err, profile.ErrVersionConflict)
}

func TestInMemoryStore_LatestReturnsNotFoundForUnknownEntity(t *testing.T) {
	store := profile.NewInMemoryStore()
	_, err := store.Latest(context.Background(), "missing")
	assert.ErrorIs(t, err, profile.ErrNotFound)
}
