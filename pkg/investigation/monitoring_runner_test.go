package investigation

import (
	"context"
	"testing"

	"github.com/clearcheck/investigator/pkg/cache"
	"github.com/clearcheck/investigator/pkg/compliance"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/gateway"
	"github.com/clearcheck/investigator/pkg/planner"
	"github.com/clearcheck/investigator/pkg/profile"
)

type fixedSubjectDirectory struct{ req ScreeningRequest }

func (d fixedSubjectDirectory) Subject(ctx context.Context, entityID string) (ScreeningRequest, error) {
	return d.req, nil
}

func TestMonitoringRunner_RunFullInvestigatesResolvedSubject(t *testing.T) {
	provider := &stubProvider{
		id:           "criminal-check",
		capabilities: []domain.InformationType{domain.InfoCriminal},
		payload:      map[string]any{"description": "misdemeanor charge"},
	}
	sources := planner.NewDataSourceResolver([]gateway.Provider{provider})
	resolver := cache.NewResolver(newMemStore(), fetcherFromProviders(provider), domain.TierStandard)
	evaluator := compliance.NewEvaluator(allowAllRuleStore{}, nil)
	profiles := profile.NewManager(profile.NewInMemoryStore())

	engine := New(resolver, evaluator, sources, nil, profiles, nil, lowThresholds())
	directory := fixedSubjectDirectory{req: ScreeningRequest{
		TenantID: "t", EntityID: "entity-5", Jurisdiction: "US", RoleCategory: "energy",
		Tier: domain.TierStandard, Degree: domain.DegreeD1,
	}}
	runner := NewMonitoringRunner(engine, directory)

	full, err := runner.RunFull(context.Background(), "entity-5")
	if err != nil {
		t.Fatalf("RunFull failed: %v", err)
	}
	if full.EntityID != "entity-5" {
		t.Errorf("expected entity-5, got %s", full.EntityID)
	}
	if len(full.Findings) == 0 {
		t.Error("expected the misdemeanor finding to surface")
	}

	delta, err := runner.RunDelta(context.Background(), "entity-5", 1)
	if err != nil {
		t.Fatalf("RunDelta failed: %v", err)
	}
	if delta.EntityID != "entity-5" {
		t.Errorf("expected entity-5, got %s", delta.EntityID)
	}
}
