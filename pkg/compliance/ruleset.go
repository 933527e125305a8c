package compliance

import (
	"context"
	"sort"
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Ruleset is the evaluated compliance outcome for one (jurisdiction, role)
// tuple (spec §3, §4.A).
type Ruleset struct {
	Jurisdiction          string
	RoleCategory          string
	PermittedChecks       map[domain.InformationType]bool
	LookbackLimits        map[domain.InformationType]time.Duration
	RedactionRules        map[domain.InformationType]map[string]bool
	DisclosureRequirements []string
	ConsentScope          ConsentScope
}

// IsPermitted reports whether checkType may be run under this ruleset.
// A Ruleset that never saw a rule for checkType denies it — the
// empty-permissive-false failure mode of spec §4.A ("never fail open").
func (r *Ruleset) IsPermitted(checkType domain.InformationType) bool {
	if r.PermittedChecks == nil {
		return false
	}
	return r.PermittedChecks[checkType]
}

// Lookback returns the lookback limit for checkType, if any rule set one.
func (r *Ruleset) Lookback(checkType domain.InformationType) (time.Duration, bool) {
	d, ok := r.LookbackLimits[checkType]
	return d, ok
}

// RedactedFields returns the union of redaction fields required for
// checkType (spec §9: equal-lookback/differing-redaction conflicts resolve
// to a union, not a pick-first).
func (r *Ruleset) RedactedFields(checkType domain.InformationType) []string {
	set := r.RedactionRules[checkType]
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// RuleStore loads active ComplianceRules for a jurisdiction/role pair.
// Concrete implementations are a persistence adapter concern (spec §6).
type RuleStore interface {
	LoadActiveRules(ctx context.Context, jurisdiction, roleCategory string) ([]ComplianceRule, error)
}

// Evaluator folds a jurisdiction+role rule set into a Ruleset (spec §4.A).
type Evaluator struct {
	store  RuleStore
	celEnv *CELEnv // optional; nil disables CEL-scoped rules
}

// NewEvaluator constructs a compliance Evaluator. celEnv may be nil if no
// loaded rule uses a CEL expression to narrow its applicability.
func NewEvaluator(store RuleStore, celEnv *CELEnv) *Evaluator {
	return &Evaluator{store: store, celEnv: celEnv}
}

// Evaluate loads and folds all active rules matching (jurisdiction, role)
// into a Ruleset, per spec §4.A:
//
//   - Rules with an empty RoleCategory ("null-filter") apply to every role.
//   - Rules are folded in ascending Priority order.
//   - check_permitted unions the permitted set.
//   - lookback_limit takes the minimum duration per check type.
//   - consent_required escalates scope along basic < enhanced < premium.
//   - redaction_required and disclosure_required append (redaction is
//     later deduplicated into a union by RedactedFields).
//
// If no rules load, the returned Ruleset permits nothing — compliance
// never fails open.
func (e *Evaluator) Evaluate(ctx context.Context, jurisdiction, roleCategory string) (*Ruleset, error) {
	rules, err := e.store.LoadActiveRules(ctx, jurisdiction, roleCategory)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })

	out := &Ruleset{
		Jurisdiction:    jurisdiction,
		RoleCategory:    roleCategory,
		PermittedChecks: map[domain.InformationType]bool{},
		LookbackLimits:  map[domain.InformationType]time.Duration{},
		RedactionRules:  map[domain.InformationType]map[string]bool{},
		ConsentScope:    ConsentNone,
	}

	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		if rule.RoleCategory != "" && rule.RoleCategory != roleCategory {
			continue
		}
		if rule.Logic.CELExpression != "" {
			if e.celEnv == nil {
				continue
			}
			applies, evalErr := e.celEnv.Applies(rule.Logic.CELExpression, CELInput{
				Jurisdiction: jurisdiction,
				RoleCategory: roleCategory,
				CheckType:    string(rule.CheckType),
			})
			if evalErr != nil || !applies {
				continue
			}
		}

		switch rule.RuleType {
		case RuleCheckPermitted:
			if rule.Logic.CheckPermitted != nil {
				out.PermittedChecks[rule.Logic.CheckPermitted.CheckType] = true
			}
		case RuleLookbackLimit:
			if l := rule.Logic.LookbackLimit; l != nil {
				if existing, ok := out.LookbackLimits[l.CheckType]; !ok || l.Lookback < existing {
					out.LookbackLimits[l.CheckType] = l.Lookback
				}
			}
		case RuleConsentRequired:
			if c := rule.Logic.ConsentRequired; c != nil && c.Scope > out.ConsentScope {
				out.ConsentScope = c.Scope
			}
		case RuleRedactionRequired:
			if r := rule.Logic.RedactionRequired; r != nil {
				set, ok := out.RedactionRules[r.CheckType]
				if !ok {
					set = map[string]bool{}
					out.RedactionRules[r.CheckType] = set
				}
				for _, f := range r.Fields {
					set[f] = true
				}
			}
		case RuleDisclosureRequired:
			if d := rule.Logic.DisclosureRequired; d != nil && d.Text != "" {
				out.DisclosureRequirements = append(out.DisclosureRequirements, d.Text)
			}
		case RuleRetentionLimit:
			// Retention limits govern storage adapters, not in-process
			// gating; the evaluated Ruleset does not need to carry them
			// for check permission purposes, but is recorded for callers
			// that need it via the raw rule set (not modeled further here
			// since no SPEC_FULL component reads it back out of Ruleset).
		}
	}

	return out, nil
}
