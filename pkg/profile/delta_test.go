package profile_test

import (
	"testing"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/profile"
	"github.com/stretchr/testify/assert"
)

func TestComputeDelta_ClassifiesNewResolvedAndChangedFindings(t *testing.T) {
	old := domain.Profile{
		EntityID: "e1",
		Version:  1,
		Findings: []domain.Finding{
			{ID: "f1", Severity: domain.SeverityLow, Description: "gap"},
			{ID: "f2", Severity: domain.SeverityMedium, Description: "lien"},
		},
	}
	next := domain.Profile{
		EntityID: "e1",
		Version:  2,
		Findings: []domain.Finding{
			{ID: "f1", Severity: domain.SeverityHigh, Description: "gap"},
			{ID: "f3", Severity: domain.SeverityLow, Description: "new issue"},
		},
	}

	delta := profile.ComputeDelta(old, next)

	assert.Len(t, delta.NewFindings, 1)
	assert.Equal(t, "f3", delta.NewFindings[0].ID)
	assert.Len(t, delta.ResolvedFindings, 1)
	assert.Equal(t, "f2", delta.ResolvedFindings[0].ID)
	assert.Len(t, delta.ChangedFindings, 1)
	assert.Equal(t, "f1", delta.ChangedFindings[0].ID)
}

func TestComputeDelta_ConnectionChangesAreSymmetricDifference(t *testing.T) {
	old := domain.Profile{
		EntityGraph: domain.EntityGraph{Edges: []domain.Edge{
			{A: "e1", B: "e2", Type: domain.ConnectionAssociate},
		}},
	}
	next := domain.Profile{
		EntityGraph: domain.EntityGraph{Edges: []domain.Edge{
			{A: "e1", B: "e2", Type: domain.ConnectionAssociate},
			{A: "e1", B: "e3", Type: domain.ConnectionEmployer},
		}},
	}

	delta := profile.ComputeDelta(old, next)

	assert.Len(t, delta.ConnectionChanges, 1)
	assert.Equal(t, "e3", delta.ConnectionChanges[0].B)
}

func TestComputeDelta_UndirectedEdgeReorderingIsNotAChange(t *testing.T) {
	old := domain.Profile{
		EntityGraph: domain.EntityGraph{Edges: []domain.Edge{
			{A: "e1", B: "e2", Type: domain.ConnectionAssociate},
		}},
	}
	next := domain.Profile{
		EntityGraph: domain.EntityGraph{Edges: []domain.Edge{
			{A: "e2", B: "e1", Type: domain.ConnectionAssociate},
		}},
	}

	delta := profile.ComputeDelta(old, next)
	assert.Empty(t, delta.ConnectionChanges)
}

func TestDetectSignals_FlagsRiskEscalationAboveThirtyPercent(t *testing.T) {
	delta := domain.ProfileDelta{RiskScoreChange: 31}
	signals := profile.DetectSignals(delta, nil)
	assert.Contains(t, signals, profile.SignalRiskEscalation)
}

func TestDetectSignals_FlagsNetworkExpansionAboveTenNewConnections(t *testing.T) {
	changes := make([]domain.Edge, 11)
	delta := domain.ProfileDelta{ConnectionChanges: changes}
	signals := profile.DetectSignals(delta, nil)
	assert.Contains(t, signals, profile.SignalNetworkExpansion)
}

func TestDetectSignals_FlagsCriticalSurgeAtThreeNewCriticalFindings(t *testing.T) {
	delta := domain.ProfileDelta{NewFindings: []domain.Finding{
		{Severity: domain.SeverityCritical},
		{Severity: domain.SeverityCritical},
		{Severity: domain.SeverityCritical},
	}}
	signals := profile.DetectSignals(delta, nil)
	assert.Contains(t, signals, profile.SignalCriticalSurge)
}

func TestDetectSignals_NoSignalsOnQuietDelta(t *testing.T) {
	delta := domain.ProfileDelta{RiskScoreChange: 1}
	signals := profile.DetectSignals(delta, nil)
	assert.Empty(t, signals)
}
