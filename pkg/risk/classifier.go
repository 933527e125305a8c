// Package risk implements the Risk Pipeline (spec §4.J): classification,
// severity scoring, anomaly and pattern detection, network connection
// analysis, and the final aggregator producing a
// ComprehensiveRiskAssessment.
package risk

import (
	"strings"

	"github.com/clearcheck/investigator/pkg/domain"
)

// RawFinding is an unclassified candidate finding surfaced by a provider
// result or inconsistency, before category/severity assignment.
type RawFinding struct {
	Description     string
	Keywords        []string
	SupportingFacts []string
}

// categoryKeywords maps FindingCategory to the keywords a rule-based
// Classifier matches against (spec §4.J.1: "assign category by rule
// (keyword/feature match)").
var categoryKeywords = map[domain.FindingCategory][]string{
	domain.CategoryCriminal:     {"felony", "misdemeanor", "conviction", "arrest", "charge"},
	domain.CategoryFinancial:    {"bankruptcy", "lien", "judgment", "debt", "foreclosure"},
	domain.CategoryRegulatory:   {"sanction", "license_revocation", "violation", "fine"},
	domain.CategoryReputation:   {"adverse_media", "scandal", "controversy"},
	domain.CategoryVerification: {"discrepancy", "unverifiable", "mismatch"},
	domain.CategoryBehavioral:   {"termination_for_cause", "misconduct", "harassment"},
	domain.CategoryNetwork:      {"associate", "shared_address", "co-defendant"},
}

// Classifier assigns a FindingCategory. ClassifyRule tries a keyword match
// first; ClassifyWithAISuggestion validates an externally supplied
// category suggestion (e.g. from an LLM classifier) against the same
// keyword-coverage score rather than trusting it outright (spec §4.J.1).
type Classifier struct{}

// NewClassifier constructs a Classifier.
func NewClassifier() *Classifier { return &Classifier{} }

// ClassifyRule assigns a category by keyword match, falling back to
// CategoryVerification when nothing matches (spec §4.J.1: "fallback
// default verification").
func (c *Classifier) ClassifyRule(f RawFinding) domain.FindingCategory {
	text := strings.ToLower(f.Description + " " + strings.Join(f.Keywords, " "))
	bestCategory := domain.CategoryVerification
	bestScore := 0

	for category, keywords := range categoryKeywords {
		score := keywordCoverage(text, keywords)
		if score > bestScore {
			bestScore = score
			bestCategory = category
		}
	}
	return bestCategory
}

// ClassifyWithAISuggestion validates an AI-assigned category suggestion by
// recomputing its keyword-coverage score; if the suggestion scores zero
// coverage it is rejected in favor of the rule-based classification (spec
// §4.J.1: "validate an AI-assigned category with a keyword-coverage
// score").
func (c *Classifier) ClassifyWithAISuggestion(f RawFinding, suggested domain.FindingCategory) domain.FindingCategory {
	keywords, ok := categoryKeywords[suggested]
	if !ok {
		return c.ClassifyRule(f)
	}
	text := strings.ToLower(f.Description + " " + strings.Join(f.Keywords, " "))
	if keywordCoverage(text, keywords) == 0 {
		return c.ClassifyRule(f)
	}
	return suggested
}

func keywordCoverage(text string, keywords []string) int {
	count := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			count++
		}
	}
	return count
}
