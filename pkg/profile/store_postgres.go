package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/clearcheck/investigator/pkg/domain"
)

// PostgresStore persists Profile versions in a `profiles` table keyed by
// (entity_id, version), the profile body serialized as JSONB. Grounded on
// the teacher's pkg/budget.PostgresStorage: a thin *sql.DB wrapper with
// parameterized queries and an upsert-on-conflict write path, generalized
// here to an append-only version history instead of a single mutable row.
//
// Expected schema:
//
//	CREATE TABLE profiles (
//	    entity_id TEXT NOT NULL,
//	    version   INTEGER NOT NULL,
//	    body      JSONB NOT NULL,
//	    PRIMARY KEY (entity_id, version)
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an already-opened *sql.DB (lib/pq driver) as a
// profile.Store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Latest returns the highest-versioned Profile saved for entityID.
func (s *PostgresStore) Latest(ctx context.Context, entityID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT body FROM profiles WHERE entity_id = $1 ORDER BY version DESC LIMIT 1`,
		entityID)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: postgres latest: %w", err)
	}

	var p domain.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("profile: postgres latest: decode body: %w", err)
	}
	return &p, nil
}

// Save inserts p as a new version row, rejecting p if its Version does
// not strictly increase on the current latest (spec §4.K.1 immutability).
func (s *PostgresStore) Save(ctx context.Context, p domain.Profile) error {
	existing, err := s.Latest(ctx, p.EntityID)
	if err != nil && err != ErrNotFound {
		return err
	}
	if existing != nil && p.Version <= existing.Version {
		return ErrVersionConflict
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: postgres save: encode body: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (entity_id, version, body) VALUES ($1, $2, $3)
		 ON CONFLICT (entity_id, version) DO NOTHING`,
		p.EntityID, p.Version, raw)
	if err != nil {
		return fmt.Errorf("profile: postgres save: %w", err)
	}
	return nil
}
