package compliance_test

import (
	"context"
	"testing"
	"time"

	"github.com/clearcheck/investigator/pkg/compliance"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_NoRules_EmptyPermissiveFalse(t *testing.T) {
	store := compliance.NewMemoryRuleStore(nil)
	eval := compliance.NewEvaluator(store, nil)

	rs, err := eval.Evaluate(context.Background(), "EU", "other")
	require.NoError(t, err)

	assert.False(t, rs.IsPermitted(domain.InfoCriminal), "no rules loaded must never permit a check")
	assert.False(t, rs.IsPermitted(domain.InfoSanctions))
}

func TestEvaluate_EUGeneralRole_BlocksCriminalAllowsSanctions(t *testing.T) {
	// Scenario 3 from spec §8: jurisdiction=EU, role=other.
	rules := []compliance.ComplianceRule{
		{
			ID: "eu-criminal-block", Jurisdiction: "EU", RoleCategory: "",
			RuleType: compliance.RuleCheckPermitted, Active: true, Priority: 1,
			Logic: compliance.RuleLogic{}, // no check_permitted entry for criminal == not permitted
		},
		{
			ID: "eu-sanctions-allow", Jurisdiction: "EU", RoleCategory: "",
			RuleType: compliance.RuleCheckPermitted, Active: true, Priority: 1,
			Logic: compliance.RuleLogic{CheckPermitted: &compliance.CheckPermittedLogic{CheckType: domain.InfoSanctions}},
		},
		{
			ID: "eu-employment-allow", Jurisdiction: "EU", RoleCategory: "",
			RuleType: compliance.RuleCheckPermitted, Active: true, Priority: 1,
			Logic: compliance.RuleLogic{CheckPermitted: &compliance.CheckPermittedLogic{CheckType: domain.InfoEmployment}},
		},
	}
	store := compliance.NewMemoryRuleStore(rules)
	eval := compliance.NewEvaluator(store, nil)

	rs, err := eval.Evaluate(context.Background(), "EU", "other")
	require.NoError(t, err)

	assert.False(t, rs.IsPermitted(domain.InfoCriminal))
	assert.True(t, rs.IsPermitted(domain.InfoSanctions))
	assert.True(t, rs.IsPermitted(domain.InfoEmployment))
}

func TestEvaluate_LookbackTakesMinimum(t *testing.T) {
	rules := []compliance.ComplianceRule{
		{
			ID: "r1", Jurisdiction: "US", RuleType: compliance.RuleLookbackLimit, Active: true, Priority: 1,
			Logic: compliance.RuleLogic{LookbackLimit: &compliance.LookbackLimitLogic{CheckType: domain.InfoCriminal, Lookback: 7 * 365 * 24 * time.Hour}},
		},
		{
			ID: "r2", Jurisdiction: "US", RuleType: compliance.RuleLookbackLimit, Active: true, Priority: 2,
			Logic: compliance.RuleLogic{LookbackLimit: &compliance.LookbackLimitLogic{CheckType: domain.InfoCriminal, Lookback: 3 * 365 * 24 * time.Hour}},
		},
	}
	store := compliance.NewMemoryRuleStore(rules)
	eval := compliance.NewEvaluator(store, nil)

	rs, err := eval.Evaluate(context.Background(), "US", "finance")
	require.NoError(t, err)

	d, ok := rs.Lookback(domain.InfoCriminal)
	require.True(t, ok)
	assert.Equal(t, 3*365*24*time.Hour, d, "most restrictive (shortest) lookback wins")
}

func TestEvaluate_ConsentEscalatesAlongOrdering(t *testing.T) {
	rules := []compliance.ComplianceRule{
		{ID: "c1", Jurisdiction: "US", RuleType: compliance.RuleConsentRequired, Active: true, Priority: 1,
			Logic: compliance.RuleLogic{ConsentRequired: &compliance.ConsentRequiredLogic{Scope: compliance.ConsentBasic}}},
		{ID: "c2", Jurisdiction: "US", RuleType: compliance.RuleConsentRequired, Active: true, Priority: 2,
			Logic: compliance.RuleLogic{ConsentRequired: &compliance.ConsentRequiredLogic{Scope: compliance.ConsentEnhanced}}},
	}
	store := compliance.NewMemoryRuleStore(rules)
	eval := compliance.NewEvaluator(store, nil)

	rs, err := eval.Evaluate(context.Background(), "US", "finance")
	require.NoError(t, err)
	assert.Equal(t, compliance.ConsentEnhanced, rs.ConsentScope)
}

func TestEvaluate_RedactionUnionsAcrossRules(t *testing.T) {
	rules := []compliance.ComplianceRule{
		{ID: "r1", Jurisdiction: "US", RuleType: compliance.RuleRedactionRequired, Active: true, Priority: 1,
			Logic: compliance.RuleLogic{RedactionRequired: &compliance.RedactionRequiredLogic{CheckType: domain.InfoFinancial, Fields: []string{"account_number"}}}},
		{ID: "r2", Jurisdiction: "US", RuleType: compliance.RuleRedactionRequired, Active: true, Priority: 2,
			Logic: compliance.RuleLogic{RedactionRequired: &compliance.RedactionRequiredLogic{CheckType: domain.InfoFinancial, Fields: []string{"dob"}}}},
	}
	store := compliance.NewMemoryRuleStore(rules)
	eval := compliance.NewEvaluator(store, nil)

	rs, err := eval.Evaluate(context.Background(), "US", "finance")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"account_number", "dob"}, rs.RedactedFields(domain.InfoFinancial))
}

func TestEvaluate_InactiveRulesAreIgnored(t *testing.T) {
	rules := []compliance.ComplianceRule{
		{ID: "r1", Jurisdiction: "US", RuleType: compliance.RuleCheckPermitted, Active: false, Priority: 1,
			Logic: compliance.RuleLogic{CheckPermitted: &compliance.CheckPermittedLogic{CheckType: domain.InfoCriminal}}},
	}
	store := compliance.NewMemoryRuleStore(rules)
	eval := compliance.NewEvaluator(store, nil)

	rs, err := eval.Evaluate(context.Background(), "US", "finance")
	require.NoError(t, err)
	assert.False(t, rs.IsPermitted(domain.InfoCriminal))
}
