package profile

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clearcheck/investigator/pkg/domain"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return store
}

func TestSQLiteStore_RoundTripsLatestVersion(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Profile{EntityID: "entity-1", Version: 1, RiskScore: 10}))
	require.NoError(t, store.Save(ctx, domain.Profile{EntityID: "entity-1", Version: 2, RiskScore: 20}))

	p, err := store.Latest(ctx, "entity-1")
	require.NoError(t, err)
	require.Equal(t, 2, p.Version)
	require.Equal(t, 20.0, p.RiskScore)
}

func TestSQLiteStore_LatestReturnsErrNotFoundForUnknownEntity(t *testing.T) {
	store := openTestSQLite(t)
	_, err := store.Latest(context.Background(), "never-seen")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SaveRejectsNonIncreasingVersion(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Profile{EntityID: "entity-1", Version: 2}))
	err := store.Save(ctx, domain.Profile{EntityID: "entity-1", Version: 2})
	require.ErrorIs(t, err, ErrVersionConflict)
}
