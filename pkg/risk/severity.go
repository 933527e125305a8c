package risk

import (
	"strings"

	"github.com/clearcheck/investigator/pkg/domain"
)

// severityRules is the rule table checked before any AI assistance (spec
// §4.J.2: "rule table first"). Keys are lowercase keyword fragments
// matched against a finding's description/keywords.
var severityRules = map[string]domain.Severity{
	"felony_conviction":     domain.SeverityCritical,
	"felony":                domain.SeverityCritical,
	"sanctions_match":       domain.SeverityCritical,
	"misdemeanor":           domain.SeverityMedium,
	"employment_gap":        domain.SeverityLow,
	"license_revocation":    domain.SeverityHigh,
	"bankruptcy":            domain.SeverityMedium,
	"termination_for_cause": domain.SeverityHigh,
	"credential_inflation":  domain.SeverityHigh,
}

// SeverityCalculator assigns a Severity to a classified finding.
type SeverityCalculator struct{}

// NewSeverityCalculator constructs a SeverityCalculator.
func NewSeverityCalculator() *SeverityCalculator { return &SeverityCalculator{} }

// CalculateRule matches the rule table first; returns ("", false) if no
// rule matches, signaling the caller to fall back to AI assistance (spec
// §4.J.2).
func (s *SeverityCalculator) CalculateRule(f RawFinding) (domain.Severity, bool) {
	text := strings.ToLower(f.Description + " " + strings.Join(f.Keywords, " "))
	var best domain.Severity
	found := false
	for keyword, severity := range severityRules {
		if strings.Contains(text, keyword) {
			if !found || severityRank(severity) > severityRank(best) {
				best = severity
				found = true
			}
		}
	}
	return best, found
}

// CalculateWithAIFallback applies CalculateRule first and only defers to
// aiSuggested when no rule matched (spec §4.J.2: "AI-assisted only where
// rules don't match").
func (s *SeverityCalculator) CalculateWithAIFallback(f RawFinding, aiSuggested domain.Severity) domain.Severity {
	if sev, ok := s.CalculateRule(f); ok {
		return sev
	}
	if _, valid := domain.SeverityWeight[aiSuggested]; valid {
		return aiSuggested
	}
	return domain.SeverityLow
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityCritical:
		return 3
	case domain.SeverityHigh:
		return 2
	case domain.SeverityMedium:
		return 1
	default:
		return 0
	}
}
