package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/profile"
)

// Runner produces a new Profile for a scheduled rerun. Full reruns repeat
// D1 against every source; delta reruns are restricted to the high-risk
// subset of sources (spec §4.L: "V2=30d (delta-only, high-risk subset of
// sources)").
type Runner interface {
	RunFull(ctx context.Context, entityID string) (domain.Profile, error)
	RunDelta(ctx context.Context, entityID string, baselineVersion int) (domain.Profile, error)
}

// Scheduler periodically pulls due MonitoringConfigs, dispatches the
// appropriate investigation rerun, commits the resulting profile, and
// emits an Alert when the resulting delta carries evolution signals (spec
// §4.L).
type Scheduler struct {
	store         ConfigStore
	profiles      *profile.Manager
	runner        Runner
	sink          AlertSink
	owner         string
	leaseDuration time.Duration
	nowFn         func() time.Time
}

// NewScheduler constructs a Scheduler. owner identifies this scheduler
// instance for lease ownership (multiple scheduler processes may share a
// ConfigStore).
func NewScheduler(store ConfigStore, profiles *profile.Manager, runner Runner, sink AlertSink, owner string, leaseDuration time.Duration) *Scheduler {
	return &Scheduler{
		store:         store,
		profiles:      profiles,
		runner:        runner,
		sink:          sink,
		owner:         owner,
		leaseDuration: leaseDuration,
		nowFn:         time.Now,
	}
}

// Tick pulls every currently due config, processes it, and returns the
// first error encountered while still attempting the rest — one config's
// failure must not block the others.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.nowFn()
	due, err := s.store.Due(ctx, now)
	if err != nil {
		return fmt.Errorf("monitoring: list due configs: %w", err)
	}

	var firstErr error
	for _, cfg := range due {
		if err := s.process(ctx, cfg, now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Scheduler) process(ctx context.Context, cfg Config, now time.Time) error {
	leased, err := s.store.Lease(ctx, cfg.EntityID, s.owner, now.Add(s.leaseDuration))
	if err != nil {
		return nil // lost the race to another scheduler instance; not an error
	}

	var next domain.Profile
	if FullRerun(leased.Vigilance) {
		next, err = s.runner.RunFull(ctx, leased.EntityID)
	} else {
		next, err = s.runner.RunDelta(ctx, leased.EntityID, leased.BaselineVersion)
	}
	if err != nil {
		return fmt.Errorf("monitoring: rerun entity %s: %w", leased.EntityID, err)
	}

	committed, delta, err := s.profiles.Commit(ctx, next)
	if err != nil {
		return fmt.Errorf("monitoring: commit profile for %s: %w", leased.EntityID, err)
	}

	if delta != nil && len(delta.EvolutionSignals) > 0 && s.sink != nil {
		alert := Alert{
			EntityID:  leased.EntityID,
			Severity:  severityFor(delta.EvolutionSignals),
			Signals:   delta.EvolutionSignals,
			Delta:     *delta,
			EmittedAt: now,
		}
		if err := s.sink.Emit(ctx, alert); err != nil {
			return fmt.Errorf("monitoring: emit alert for %s: %w", leased.EntityID, err)
		}
	}

	nextCheckAt := now.Add(Interval(leased.Vigilance))
	return s.store.Complete(ctx, leased.EntityID, nextCheckAt, committed.Version)
}

// ReevaluateVigilance re-derives the vigilance level from role and current
// risk and, if it changed, updates the config in place without disturbing
// NextCheckAt (spec §4.L: "position changes... re-evaluate vigilance").
func ReevaluateVigilance(ctx context.Context, store ConfigStore, cfg Config, role RoleCategory, currentRiskScore float64) error {
	level := DetermineVigilance(role, currentRiskScore)
	if level == cfg.Vigilance {
		return nil
	}
	cfg.Vigilance = level
	return store.Upsert(ctx, cfg)
}
