package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/clearcheck/investigator/pkg/domain"
)

// SQLiteStore is the local/test counterpart to PostgresStore, grounded on
// the teacher's dual-backend convention (pkg/store.SQLiteReceiptStore
// alongside its Postgres receipt store): same table shape, `?` positional
// placeholders instead of `$N`, and a self-contained migrate step so a
// fresh database file is usable immediately.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already-opened *sql.DB (modernc.org/sqlite
// driver) as a profile.Store, creating the profiles table if absent.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS profiles (
			entity_id TEXT NOT NULL,
			version   INTEGER NOT NULL,
			body      TEXT NOT NULL,
			PRIMARY KEY (entity_id, version)
		)`)
	if err != nil {
		return fmt.Errorf("profile: sqlite migrate: %w", err)
	}
	return nil
}

// Latest returns the highest-versioned Profile saved for entityID.
func (s *SQLiteStore) Latest(ctx context.Context, entityID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT body FROM profiles WHERE entity_id = ? ORDER BY version DESC LIMIT 1`,
		entityID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: sqlite latest: %w", err)
	}

	var p domain.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("profile: sqlite latest: decode body: %w", err)
	}
	return &p, nil
}

// Save inserts p as a new version row, rejecting p if its Version does
// not strictly increase on the current latest (spec §4.K.1 immutability).
func (s *SQLiteStore) Save(ctx context.Context, p domain.Profile) error {
	existing, err := s.Latest(ctx, p.EntityID)
	if err != nil && err != ErrNotFound {
		return err
	}
	if existing != nil && p.Version <= existing.Version {
		return ErrVersionConflict
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: sqlite save: encode body: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (entity_id, version, body) VALUES (?, ?, ?)`,
		p.EntityID, p.Version, string(raw))
	if err != nil {
		return fmt.Errorf("profile: sqlite save: %w", err)
	}
	return nil
}
