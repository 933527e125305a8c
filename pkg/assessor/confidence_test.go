package assessor_test

import (
	"testing"
	"time"

	"github.com/clearcheck/investigator/pkg/assessor"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestConfidence_ZeroFactsIsZero(t *testing.T) {
	c := assessor.Confidence(domain.InfoCriminal, nil, 0, time.Now(), assessor.DefaultWeights)
	assert.Equal(t, 0.0, c)
}

func TestConfidence_CorroboratedFactsScoreHigherThanUncorroborated(t *testing.T) {
	now := time.Now()
	uncorroborated := []domain.Fact{{ID: "f1", InfoType: domain.InfoCriminal, DiscoveredAt: now}}
	corroborated := []domain.Fact{
		{ID: "f1", InfoType: domain.InfoCriminal, DiscoveredAt: now, Corroborated: true},
		{ID: "f2", InfoType: domain.InfoCriminal, DiscoveredAt: now, Corroborated: true},
	}

	c1 := assessor.Confidence(domain.InfoCriminal, uncorroborated, 0, now, assessor.DefaultWeights)
	c2 := assessor.Confidence(domain.InfoCriminal, corroborated, 0, now, assessor.DefaultWeights)

	assert.Greater(t, c2, c1)
}

func TestConfidence_OpenInconsistenciesReduceScore(t *testing.T) {
	now := time.Now()
	facts := []domain.Fact{
		{ID: "f1", InfoType: domain.InfoCriminal, DiscoveredAt: now, Corroborated: true},
	}

	clean := assessor.Confidence(domain.InfoCriminal, facts, 0, now, assessor.DefaultWeights)
	withConflict := assessor.Confidence(domain.InfoCriminal, facts, 3, now, assessor.DefaultWeights)

	assert.Greater(t, clean, withConflict)
}

func TestConfidence_IsWithinUnitInterval(t *testing.T) {
	now := time.Now()
	facts := []domain.Fact{
		{ID: "f1", InfoType: domain.InfoIdentity, DiscoveredAt: now.Add(-400 * 24 * time.Hour)},
	}
	c := assessor.Confidence(domain.InfoIdentity, facts, 10, now, assessor.DefaultWeights)
	assert.GreaterOrEqual(t, c, 0.0)
	assert.LessOrEqual(t, c, 1.0)
}

func TestInfoGainRate_ZeroQueriesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, assessor.InfoGainRate(5, 0))
}

func TestInfoGainRate_ComputesRatio(t *testing.T) {
	assert.Equal(t, 0.5, assessor.InfoGainRate(2, 4))
}
