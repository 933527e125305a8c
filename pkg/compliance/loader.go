package compliance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/clearcheck/investigator/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Bundle is a versioned, jurisdiction-scoped collection of compliance
// rules loaded from YAML, grounded on the teacher's policyloader.Loader
// (external policy bundle loading) — adapted from JSON/CEL-only "BLOCK /
// WARN / LOG" governance rules to the richer ComplianceRule tagged-variant
// shape this domain needs.
type Bundle struct {
	SchemaVersion string       `yaml:"schema_version"`
	Jurisdiction  string       `yaml:"jurisdiction"`
	Rules         []BundleRule `yaml:"rules"`
}

// BundleRule is the YAML-serializable form of a ComplianceRule.
type BundleRule struct {
	ID            string   `yaml:"id"`
	RoleCategory  string   `yaml:"role_category,omitempty"`
	RuleType      string   `yaml:"rule_type"`
	CheckType     string   `yaml:"check_type,omitempty"`
	Active        bool     `yaml:"active"`
	Priority      int      `yaml:"priority"`
	CELExpression string   `yaml:"cel_expression,omitempty"`
	LookbackDays  int      `yaml:"lookback_days,omitempty"`
	RedactFields  []string `yaml:"redact_fields,omitempty"`
	ConsentScope  string   `yaml:"consent_scope,omitempty"`
	Disclosure    string   `yaml:"disclosure,omitempty"`
	RetentionDays int      `yaml:"retention_days,omitempty"`
}

// minBundleSchema is the oldest bundle schema version this loader accepts.
var minBundleSchema = semver.MustParse("1.0.0")

// Loader reads jurisdiction rule bundles from a directory of YAML files
// each time LoadAll is called; it does not watch the directory or reload
// on a timer. Grounded on pkg/policyloader.Loader's bundle-loading pattern.
type Loader struct {
	mu      sync.RWMutex
	dir     string
	bundles map[string]Bundle // jurisdiction -> bundle
}

// NewLoader constructs a Loader reading jurisdiction bundles from dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, bundles: make(map[string]Bundle)}
}

// LoadAll reads every *.yaml bundle file in the configured directory.
func (l *Loader) LoadAll() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("compliance: read bundle dir %s: %w", l.dir, err)
	}

	loaded := make(map[string]Bundle, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(l.dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("compliance: read %s: %w", e.Name(), err)
		}
		var b Bundle
		if err := yaml.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("compliance: parse %s: %w", e.Name(), err)
		}
		if err := validateSchemaVersion(b.SchemaVersion); err != nil {
			return fmt.Errorf("compliance: %s: %w", e.Name(), err)
		}
		loaded[b.Jurisdiction] = b
	}

	l.mu.Lock()
	l.bundles = loaded
	l.mu.Unlock()
	return nil
}

func validateSchemaVersion(v string) error {
	if v == "" {
		return fmt.Errorf("missing schema_version")
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid schema_version %q: %w", v, err)
	}
	if parsed.LessThan(minBundleSchema) {
		return fmt.Errorf("schema_version %s predates minimum supported %s", v, minBundleSchema)
	}
	return nil
}

// ToComplianceRules converts every loaded bundle into ComplianceRule
// values consumable by a RuleStore.
func (l *Loader) ToComplianceRules() []ComplianceRule {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []ComplianceRule
	for _, bundle := range l.bundles {
		for _, r := range bundle.Rules {
			out = append(out, bundleRuleToComplianceRule(bundle.Jurisdiction, r))
		}
	}
	return out
}

func bundleRuleToComplianceRule(jurisdiction string, r BundleRule) ComplianceRule {
	rule := ComplianceRule{
		ID:           r.ID,
		Jurisdiction: jurisdiction,
		RoleCategory: r.RoleCategory,
		RuleType:     RuleType(r.RuleType),
		CheckType:    domain.InformationType(r.CheckType),
		Active:       r.Active,
		Priority:     r.Priority,
	}
	rule.Logic.CELExpression = r.CELExpression

	switch rule.RuleType {
	case RuleCheckPermitted:
		rule.Logic.CheckPermitted = &CheckPermittedLogic{CheckType: rule.CheckType}
	case RuleLookbackLimit:
		rule.Logic.LookbackLimit = &LookbackLimitLogic{
			CheckType: rule.CheckType,
			Lookback:  time.Duration(r.LookbackDays) * 24 * time.Hour,
		}
	case RuleRedactionRequired:
		rule.Logic.RedactionRequired = &RedactionRequiredLogic{CheckType: rule.CheckType, Fields: r.RedactFields}
	case RuleConsentRequired:
		rule.Logic.ConsentRequired = &ConsentRequiredLogic{Scope: parseConsentScope(r.ConsentScope)}
	case RuleDisclosureRequired:
		rule.Logic.DisclosureRequired = &DisclosureRequiredLogic{CheckType: rule.CheckType, Text: r.Disclosure}
	case RuleRetentionLimit:
		rule.Logic.RetentionLimit = &RetentionLimitLogic{Retention: time.Duration(r.RetentionDays) * 24 * time.Hour}
	}
	return rule
}

func parseConsentScope(s string) ConsentScope {
	switch s {
	case "basic":
		return ConsentBasic
	case "enhanced":
		return ConsentEnhanced
	case "premium":
		return ConsentPremium
	default:
		return ConsentNone
	}
}

// BundleRuleStore adapts a Loader's in-memory rules to the RuleStore
// interface the Evaluator consumes.
type BundleRuleStore struct {
	loader *Loader
}

// NewBundleRuleStore wraps loader as a RuleStore.
func NewBundleRuleStore(loader *Loader) *BundleRuleStore {
	return &BundleRuleStore{loader: loader}
}

func (s *BundleRuleStore) LoadActiveRules(_ context.Context, jurisdiction, roleCategory string) ([]ComplianceRule, error) {
	var out []ComplianceRule
	for _, r := range s.loader.ToComplianceRules() {
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
