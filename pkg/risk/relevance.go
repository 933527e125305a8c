package risk

import "github.com/clearcheck/investigator/pkg/domain"

// categoryRelevance maps a role_category to how much each FindingCategory
// matters for that role (spec §4.J.6's "relevance_to_role" weighting of
// base_score). Keyed on the same role_category literals
// pkg/monitoring.DetermineVigilance uses (government/energy/finance),
// since both read off the same ScreeningRequest.RoleCategory field; a role
// absent from this table gets defaultRelevance for every category.
var categoryRelevance = map[string]map[domain.FindingCategory]float64{
	"finance": {
		domain.CategoryFinancial:    1.0,
		domain.CategoryCriminal:     1.0,
		domain.CategoryRegulatory:   0.9,
		domain.CategoryNetwork:      0.8,
		domain.CategoryReputation:   0.6,
		domain.CategoryVerification: 0.6,
		domain.CategoryBehavioral:   0.5,
	},
	"government": {
		domain.CategoryRegulatory:   1.0,
		domain.CategoryCriminal:     1.0,
		domain.CategoryNetwork:      0.9,
		domain.CategoryReputation:   0.8,
		domain.CategoryBehavioral:   0.7,
		domain.CategoryFinancial:    0.6,
		domain.CategoryVerification: 0.6,
	},
	"energy": {
		domain.CategoryRegulatory:   1.0,
		domain.CategoryCriminal:     0.8,
		domain.CategoryNetwork:      0.8,
		domain.CategoryReputation:   0.6,
		domain.CategoryVerification: 0.6,
		domain.CategoryBehavioral:   0.6,
		domain.CategoryFinancial:    0.5,
	},
}

// defaultRelevance is applied for any (roleCategory, category) pair absent
// from categoryRelevance — an unclassified role or category should never
// silently suppress a finding's contribution to the base score.
const defaultRelevance = 1.0

// RelevanceToRole scores how much a Finding's Category matters given the
// subject's role_category, in [0,1] (spec §4.J.6).
func RelevanceToRole(roleCategory string, category domain.FindingCategory) float64 {
	row, ok := categoryRelevance[roleCategory]
	if !ok {
		return defaultRelevance
	}
	weight, ok := row[category]
	if !ok {
		return defaultRelevance
	}
	return weight
}
