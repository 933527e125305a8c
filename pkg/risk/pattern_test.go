package risk_test

import (
	"testing"
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/risk"
	"github.com/stretchr/testify/assert"
)

func TestDetect_EscalationFlaggedWhenSeverityTrendsUp(t *testing.T) {
	pr := risk.NewPatternRecognizer()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	findings := []domain.Finding{
		{Severity: domain.SeverityLow, Date: base},
		{Severity: domain.SeverityMedium, Date: base.AddDate(0, 1, 0)},
		{Severity: domain.SeverityHigh, Date: base.AddDate(0, 2, 0)},
	}
	signals := pr.Detect(findings)
	assert.Contains(t, signals, risk.PatternEscalation)
}

func TestDetect_NoEscalationOnFlatSeverity(t *testing.T) {
	pr := risk.NewPatternRecognizer()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	findings := []domain.Finding{
		{Severity: domain.SeverityMedium, Date: base},
		{Severity: domain.SeverityMedium, Date: base.AddDate(0, 1, 0)},
	}
	signals := pr.Detect(findings)
	assert.NotContains(t, signals, risk.PatternEscalation)
}

func TestDetect_CrossDomainClusteringRequiresThreeDistinctCategories(t *testing.T) {
	pr := risk.NewPatternRecognizer()
	now := time.Now()
	findings := []domain.Finding{
		{Category: domain.CategoryCriminal, Date: now},
		{Category: domain.CategoryFinancial, Date: now},
	}
	signals := pr.Detect(findings)
	assert.NotContains(t, signals, risk.PatternCrossDomainCluster)
}

func TestDetect_FrequencyAnomalyOnDenseCluster(t *testing.T) {
	pr := risk.NewPatternRecognizer()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	findings := []domain.Finding{
		{Date: base},
		{Date: base.Add(time.Hour)},
		{Date: base.Add(2 * time.Hour)},
		{Date: base.AddDate(1, 0, 0)},
	}
	signals := pr.Detect(findings)
	assert.Contains(t, signals, risk.PatternFrequencyAnomaly)
}
