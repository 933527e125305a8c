package risk

import "github.com/clearcheck/investigator/pkg/domain"

// aggregatorAdjustments are the per-source deltas folded into
// ComprehensiveRiskAssessment.Adjustments (spec §4.J.6).
const (
	adjPatterns  = "patterns"
	adjAnomalies = "anomalies"
	adjNetwork   = "network"
)

// patternWeight and anomalyWeight scale how much each detected signal
// nudges the score; both are deliberately modest relative to
// domain.SeverityWeight so base findings still dominate.
const (
	patternWeight = 5.0
	anomalyWeight = 8.0
)

// Aggregator computes the final ComprehensiveRiskAssessment from a
// subject's findings plus the signals the rest of the pipeline surfaced.
type Aggregator struct{}

// NewAggregator constructs an Aggregator.
func NewAggregator() *Aggregator { return &Aggregator{} }

// Aggregate implements spec §4.J.6: base_score is a weighted sum over
// findings of relevance_to_role * severity_weight; final_score clamps
// base + pattern/anomaly/network adjustments to [0,100], and is
// deterministic given the same inputs.
func (a *Aggregator) Aggregate(findings []domain.Finding, patterns []PatternSignal, anomalies []AnomalySignal, networkScore float64) domain.ComprehensiveRiskAssessment {
	base := baseScore(findings)

	deltaPatterns := float64(len(patterns)) * patternWeight
	deltaAnomalies := float64(len(anomalies)) * anomalyWeight

	final := clamp(base+deltaPatterns+deltaAnomalies+networkScore, 0, 100)

	return domain.ComprehensiveRiskAssessment{
		FinalScore: final,
		BaseScore:  base,
		Adjustments: map[string]float64{
			adjPatterns:  deltaPatterns,
			adjAnomalies: deltaAnomalies,
			adjNetwork:   networkScore,
		},
		Recommendation: domain.RecommendationFor(final),
	}
}

func baseScore(findings []domain.Finding) float64 {
	total := 0.0
	for _, f := range findings {
		total += f.RelevanceToRole * domain.SeverityWeight[f.Severity]
	}
	return clamp(total, 0, 100)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
