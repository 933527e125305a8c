package investigation

import (
	"fmt"
	"time"

	"github.com/clearcheck/investigator/pkg/assessor"
	"github.com/clearcheck/investigator/pkg/degree"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/gateway"
	"github.com/clearcheck/investigator/pkg/knowledge"
	"github.com/clearcheck/investigator/pkg/risk"
)

// factFromResult collapses one provider result's payload into a single
// Fact. The spec leaves Claim's shape as a loose map[string]any; treating
// each top-level payload key as a claim field is the simplest extraction
// that preserves every value the provider returned.
func factFromResult(result *gateway.Result) domain.Fact {
	return domain.Fact{
		ID:               fmt.Sprintf("%s:%s:%d", result.ProviderID, result.CheckType, result.FetchedAt.UnixNano()),
		InfoType:         result.CheckType,
		Claim:            result.Payload,
		SourceProviderID: result.ProviderID,
		DiscoveredAt:     result.FetchedAt,
		Confidence:       1.0,
	}
}

// phaseInfoTypes returns the closed set of InformationTypes a phase covers.
func phaseInfoTypes(phase domain.Phase) []domain.InformationType {
	switch phase {
	case domain.PhaseFoundation:
		return domain.FoundationTypes
	case domain.PhaseRecords:
		return domain.RecordsTypes
	default:
		return domain.IntelligenceTypes
	}
}

// phaseConfidence averages assessor.Confidence across every InformationType
// in the phase, weighted equally (spec §4.H's "phase confidence" feeding
// the SAR Iteration Controller's stop decision).
func phaseConfidence(infoTypes []domain.InformationType, kb *knowledge.Base) float64 {
	if len(infoTypes) == 0 {
		return 0
	}
	open := len(kb.OpenInconsistencies())
	total := 0.0
	for _, t := range infoTypes {
		total += assessor.Confidence(t, kb.Facts(t), open, time.Now(), assessor.DefaultWeights)
	}
	return total / float64(len(infoTypes))
}

// refreshGaps records a coverage Gap for every InformationType in the phase
// that hasn't yet reached its expected slot count, and clears the Gap once
// it has, feeding the Planner's Refine pass (spec §4.F's gap-driven
// refinement).
func refreshGaps(infoTypes []domain.InformationType, kb *knowledge.Base) {
	for _, t := range infoTypes {
		expected := assessor.ExpectedSlots[t]
		if expected <= 0 {
			expected = 1
		}
		if len(kb.Facts(t)) < expected {
			kb.SetGap(t, knowledge.Gap{Reason: "below_expected_coverage"})
			continue
		}
		kb.SetGap(t, knowledge.Gap{})
	}
}

// findingBearingTypes are the InformationTypes a raw finding can be
// derived from; foundation facts (identity/employment/education) establish
// the subject but are not findings in their own right unless they surface
// an inconsistency.
var findingBearingTypes = map[domain.InformationType]bool{
	domain.InfoCriminal:         true,
	domain.InfoCivil:            true,
	domain.InfoFinancial:        true,
	domain.InfoLicenses:         true,
	domain.InfoRegulatory:       true,
	domain.InfoSanctions:        true,
	domain.InfoAdverseMedia:     true,
	domain.InfoDigitalFootprint: true,
}

// findingsFromFacts turns Records/Intelligence facts into classified,
// severity-scored Findings (spec §4.J.1-2), and folds any still-open
// Inconsistency into a verification-category Finding so unresolved
// contradictions are never silently dropped from the risk score.
// RelevanceToRole is weighted per roleCategory so base_score's
// relevance_to_role x severity_weight (spec §4.J.6) actually varies with
// the subject's role instead of always contributing at full weight.
func findingsFromFacts(facts []domain.Fact, openInconsistencies []domain.Inconsistency, roleCategory string) []domain.Finding {
	classifier := risk.NewClassifier()
	severity := risk.NewSeverityCalculator()

	var out []domain.Finding
	for _, f := range facts {
		if !findingBearingTypes[f.InfoType] {
			continue
		}
		raw := rawFindingFromFact(f)
		category := classifier.ClassifyRule(raw)
		sev, ok := severity.CalculateRule(raw)
		if !ok {
			sev = domain.SeverityLow
		}
		out = append(out, domain.Finding{
			ID:              f.ID,
			Category:        category,
			Severity:        sev,
			Date:            f.DiscoveredAt,
			Description:     raw.Description,
			SupportingFacts: []string{f.ID},
			RelevanceToRole: risk.RelevanceToRole(roleCategory, category),
		})
	}

	for _, inc := range openInconsistencies {
		out = append(out, domain.Finding{
			ID:              inc.ID,
			Category:        domain.CategoryVerification,
			Severity:        domain.SeverityMedium,
			Date:            inc.DetectedAt,
			Description:     "unresolved " + string(inc.Kind),
			SupportingFacts: inc.FactIDs,
			RelevanceToRole: risk.RelevanceToRole(roleCategory, domain.CategoryVerification),
		})
	}
	return out
}

// rawFindingFromFact builds the Classifier/SeverityCalculator input from a
// Fact's claim, joining every string-valued claim field as keyword text.
func rawFindingFromFact(f domain.Fact) risk.RawFinding {
	var keywords []string
	description := string(f.InfoType)
	for key, val := range f.Claim {
		if s, ok := val.(string); ok && s != "" {
			keywords = append(keywords, s)
			description += " " + key + "=" + s
		}
	}
	return risk.RawFinding{
		Description:     description,
		Keywords:        keywords,
		SupportingFacts: []string{f.ID},
	}
}

// numericValuesFromFacts extracts every numeric claim value across facts,
// feeding the Anomaly Detector's statistical-outlier check (spec
// §4.J.3(a)), which needs a numeric fact distribution rather than the
// classified Finding set.
func numericValuesFromFacts(facts []domain.Fact) []float64 {
	var out []float64
	for _, f := range facts {
		for _, v := range f.Claim {
			switch n := v.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			case int64:
				out = append(out, float64(n))
			}
		}
	}
	return out
}

// aggregateRisk runs the full Risk Pipeline (spec §4.J.3-6) over a
// screening's consolidated outcome: the Anomaly Detector over every
// entity's numeric facts and open inconsistencies, the Pattern Recognizer
// over the flattened findings, and the Connection Analyzer over every
// D2/D3 connected entity's findings and connection type, before handing
// everything to the Aggregator.
func aggregateRisk(outcome degree.Outcome) domain.ComprehensiveRiskAssessment {
	findings := outcome.Findings()
	patterns := risk.NewPatternRecognizer().Detect(findings)
	anomalies := risk.NewAnomalyDetector().Detect(outcome.NumericFacts(), outcome.Inconsistencies())
	networkScore := risk.NewConnectionAnalyzer().Score(connectedEntitiesForAnalyzer(outcome))

	aggregator := risk.NewAggregator()
	return aggregator.Aggregate(findings, patterns, anomalies, networkScore)
}

// connectedEntitiesForAnalyzer adapts degree.Outcome's connected-entity
// view to the risk.ConnectedEntity shape risk.ConnectionAnalyzer expects.
func connectedEntitiesForAnalyzer(outcome degree.Outcome) []risk.ConnectedEntity {
	degreeEntities := outcome.ConnectedEntities()
	out := make([]risk.ConnectedEntity, 0, len(degreeEntities))
	for _, e := range degreeEntities {
		out = append(out, risk.ConnectedEntity{
			ConnectionType: e.ConnectionType,
			Findings:       e.Findings,
		})
	}
	return out
}

// entityGraphFrom builds the EntityGraph stored on a Profile from every
// Connection surfaced while expanding degrees, with one Edge per
// investigated-entity -> discovered-connection pair.
func entityGraphFrom(outcome degree.Outcome) domain.EntityGraph {
	var edges []domain.Edge
	for _, d := range outcome.Degrees {
		for _, r := range d.Results {
			for _, c := range r.Connections {
				edges = append(edges, domain.Edge{
					A:        r.EntityID,
					B:        c.EntityID,
					Type:     c.Type,
					Strength: degree.RelevanceScore(c),
				})
			}
		}
	}
	return domain.EntityGraph{Edges: edges}
}

// riskLevelFor maps a final risk score to the coarse Severity stored on
// Profile.RiskLevel, reusing the same banding the aggregator's
// Recommendation is derived from so the two never disagree.
func riskLevelFor(score float64) domain.Severity {
	switch {
	case score <= 25:
		return domain.SeverityLow
	case score <= 50:
		return domain.SeverityMedium
	case score <= 75:
		return domain.SeverityHigh
	default:
		return domain.SeverityCritical
	}
}
