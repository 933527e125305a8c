package compliance

import "context"

// MemoryRuleStore is a simple in-process RuleStore, useful for tests and for
// seeding a small bundle of jurisdiction packs without a database.
// BundleRuleStore (pkg/compliance/loader.go), backed by YAML bundle files,
// satisfies the same RuleStore interface.
type MemoryRuleStore struct {
	rules []ComplianceRule
}

// NewMemoryRuleStore constructs a MemoryRuleStore pre-loaded with rules.
func NewMemoryRuleStore(rules []ComplianceRule) *MemoryRuleStore {
	return &MemoryRuleStore{rules: rules}
}

// LoadActiveRules implements RuleStore: it returns every stored rule whose
// Jurisdiction matches and whose RoleCategory is either empty (null-filter,
// applies to all roles) or matches roleCategory. Active/priority filtering
// and folding happens in the Evaluator.
func (s *MemoryRuleStore) LoadActiveRules(_ context.Context, jurisdiction, roleCategory string) ([]ComplianceRule, error) {
	out := make([]ComplianceRule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.Jurisdiction != jurisdiction {
			continue
		}
		if r.RoleCategory != "" && r.RoleCategory != roleCategory {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
