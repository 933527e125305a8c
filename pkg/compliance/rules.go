// Package compliance implements the Compliance Rule Store & Evaluator
// (spec §4.A): it loads jurisdiction- and role-scoped rules and folds them
// into a Ruleset that gates every downstream check.
//
// rule_logic is modeled as a tagged variant keyed by RuleType (per spec §9's
// design note), never a free-form map at evaluation time — each variant
// carries only the fields its RuleType needs.
package compliance

import (
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
)

// RuleType is the tag selecting which RuleLogic variant is populated.
type RuleType string

const (
	RuleCheckPermitted    RuleType = "check_permitted"
	RuleLookbackLimit     RuleType = "lookback_limit"
	RuleRedactionRequired RuleType = "redaction_required"
	RuleConsentRequired   RuleType = "consent_required"
	RuleDisclosureRequired RuleType = "disclosure_required"
	RuleRetentionLimit    RuleType = "retention_limit"
)

// ConsentScope is ordered basic < enhanced < premium (spec §4.A).
type ConsentScope int

const (
	ConsentNone ConsentScope = iota
	ConsentBasic
	ConsentEnhanced
	ConsentPremium
)

func (c ConsentScope) String() string {
	switch c {
	case ConsentBasic:
		return "basic"
	case ConsentEnhanced:
		return "enhanced"
	case ConsentPremium:
		return "premium"
	default:
		return "none"
	}
}

// RuleLogic is a tagged variant: exactly one of the pointer fields below is
// populated, selected by the enclosing ComplianceRule's RuleType. This
// keeps the structured-but-heterogeneous rule_logic field typed instead of
// a runtime free-form map (spec §9).
type RuleLogic struct {
	CheckPermitted    *CheckPermittedLogic
	LookbackLimit     *LookbackLimitLogic
	RedactionRequired *RedactionRequiredLogic
	ConsentRequired   *ConsentRequiredLogic
	DisclosureRequired *DisclosureRequiredLogic
	RetentionLimit    *RetentionLimitLogic

	// CELExpression optionally narrows when this rule applies, evaluated
	// against (jurisdiction, role, check_type) — see pkg/compliance/cel.go.
	// Grounded on the teacher's CEL-based PolicyEngine
	// (pkg/governance/policy_engine.go) and CELDPEvaluator
	// (pkg/kernel/celdp/evaluator.go).
	CELExpression string
}

type CheckPermittedLogic struct {
	CheckType domain.InformationType
}

type LookbackLimitLogic struct {
	CheckType domain.InformationType
	Lookback  time.Duration
}

type RedactionRequiredLogic struct {
	CheckType domain.InformationType
	Fields    []string
}

type ConsentRequiredLogic struct {
	Scope ConsentScope
}

type DisclosureRequiredLogic struct {
	CheckType domain.InformationType
	Text      string
}

type RetentionLimitLogic struct {
	Retention time.Duration
}

// ComplianceRule is one rule loaded from the ComplianceRuleStore.
type ComplianceRule struct {
	ID           string
	Jurisdiction string
	RoleCategory string // empty ("null-filter") applies to all roles
	RuleType     RuleType
	CheckType    domain.InformationType // empty for rules that aren't check-scoped
	Logic        RuleLogic
	Active       bool
	Priority     int // ascending: lower priority value is applied first
}
