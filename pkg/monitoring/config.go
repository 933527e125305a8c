package monitoring

import (
	"context"
	"errors"
	"time"
)

// Config tracks one entity's monitoring schedule (spec §4.L / §8
// MonitoringConfig). NextCheckAt strictly increases across executions: an
// invariant ConfigStore implementations must preserve.
type Config struct {
	EntityID        string
	Vigilance       VigilanceLevel
	BaselineVersion int
	NextCheckAt     time.Time
	Cancelled       bool
	LeasedBy        string
	LeasedUntil     time.Time
}

// ErrNotLeasable is returned by Lease when cfg is cancelled, not yet due, or
// already held by another owner under an unexpired lease.
var ErrNotLeasable = errors.New("monitoring: config not leasable")

// ConfigStore persists monitoring configs and mediates lease acquisition,
// grounded on the durable-intent lease fields of
// pkg/store/ledger.Obligation (LeasedBy/LeasedUntil).
type ConfigStore interface {
	Due(ctx context.Context, now time.Time) ([]Config, error)
	Lease(ctx context.Context, entityID, owner string, until time.Time) (*Config, error)
	Complete(ctx context.Context, entityID string, nextCheckAt time.Time, newBaselineVersion int) error
	Cancel(ctx context.Context, entityID string) error
	Upsert(ctx context.Context, cfg Config) error
}
