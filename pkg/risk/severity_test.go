package risk_test

import (
	"testing"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/risk"
	"github.com/stretchr/testify/assert"
)

func TestCalculateRule_MatchesHighestRankedKeywordWhenMultipleMatch(t *testing.T) {
	sc := risk.NewSeverityCalculator()
	sev, ok := sc.CalculateRule(risk.RawFinding{Description: "misdemeanor charge, later upgraded to felony"})
	assert.True(t, ok)
	assert.Equal(t, domain.SeverityCritical, sev)
}

func TestCalculateRule_NoMatchReturnsFalse(t *testing.T) {
	sc := risk.NewSeverityCalculator()
	_, ok := sc.CalculateRule(risk.RawFinding{Description: "routine confirmation, nothing unusual"})
	assert.False(t, ok)
}

func TestCalculateWithAIFallback_UsesRuleWhenAvailable(t *testing.T) {
	sc := risk.NewSeverityCalculator()
	sev := sc.CalculateWithAIFallback(risk.RawFinding{Description: "felony conviction"}, domain.SeverityLow)
	assert.Equal(t, domain.SeverityCritical, sev)
}

func TestCalculateWithAIFallback_UsesAISuggestionWhenNoRuleMatches(t *testing.T) {
	sc := risk.NewSeverityCalculator()
	sev := sc.CalculateWithAIFallback(risk.RawFinding{Description: "unremarkable finding"}, domain.SeverityHigh)
	assert.Equal(t, domain.SeverityHigh, sev)
}

func TestCalculateWithAIFallback_InvalidAISuggestionDefaultsToLow(t *testing.T) {
	sc := risk.NewSeverityCalculator()
	sev := sc.CalculateWithAIFallback(risk.RawFinding{Description: "unremarkable finding"}, domain.Severity("bogus"))
	assert.Equal(t, domain.SeverityLow, sev)
}
