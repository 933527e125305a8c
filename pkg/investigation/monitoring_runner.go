package investigation

import (
	"context"
	"fmt"

	"github.com/clearcheck/investigator/pkg/domain"
)

// SubjectDirectory resolves an entity back to the screening parameters a
// monitoring rerun needs to re-invoke the Degree Orchestrator (spec §4.L:
// reruns repeat the same subject/jurisdiction/role/tier the original
// screening used).
type SubjectDirectory interface {
	Subject(ctx context.Context, entityID string) (ScreeningRequest, error)
}

// MonitoringRunner adapts Engine to monitoring.Runner so the Scheduler can
// dispatch reruns through the same Investigate path initial screenings use.
type MonitoringRunner struct {
	engine   *Engine
	subjects SubjectDirectory
}

// NewMonitoringRunner constructs a MonitoringRunner.
func NewMonitoringRunner(engine *Engine, subjects SubjectDirectory) *MonitoringRunner {
	return &MonitoringRunner{engine: engine, subjects: subjects}
}

// RunFull repeats the full D1 (or tier-appropriate degree) investigation
// against every permitted source.
func (r *MonitoringRunner) RunFull(ctx context.Context, entityID string) (domain.Profile, error) {
	req, err := r.subjects.Subject(ctx, entityID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("monitoring runner: resolve subject %s: %w", entityID, err)
	}
	return r.engine.Investigate(ctx, req)
}

// RunDelta reruns the investigation for a baseline-version comparison.
// Spec §4.L scopes V2 reruns to a delta-only, high-risk subset of sources;
// the Query Planner has no notion of "rerun against a fixed prior baseline"
// yet, so this currently runs the same full investigation as RunFull and
// relies on the Profile Manager's delta computation against baselineVersion
// to surface what changed. Narrowing the source set itself is left for a
// future Planner extension (see DESIGN.md).
func (r *MonitoringRunner) RunDelta(ctx context.Context, entityID string, baselineVersion int) (domain.Profile, error) {
	return r.RunFull(ctx, entityID)
}
