package risk

import (
	"math"

	"github.com/clearcheck/investigator/pkg/domain"
)

// AnomalySignal names one of the three shapes the Anomaly Detector flags
// (spec §4.J.3).
type AnomalySignal string

const (
	AnomalyStatisticalOutlier      AnomalySignal = "statistical_outlier"
	AnomalySystematicInconsistency AnomalySignal = "systematic_inconsistency_pattern"
	AnomalyDeceptionIndicator      AnomalySignal = "deception_indicator"
)

// systematicInconsistencyThreshold is the |inconsistencies| >= 4 cutoff
// from spec §4.J.3(b).
const systematicInconsistencyThreshold = 4

// AnomalyDetector flags the three anomaly shapes named in spec §4.J.3.
type AnomalyDetector struct{}

// NewAnomalyDetector constructs an AnomalyDetector.
func NewAnomalyDetector() *AnomalyDetector { return &AnomalyDetector{} }

// Detect inspects numeric fact distributions for statistical outliers,
// flags a systematic-inconsistency pattern once the inconsistency count
// crosses the threshold, and flags deception indicators for the two
// inconsistency shapes the spec names explicitly.
func (d *AnomalyDetector) Detect(numericValues []float64, inconsistencies []domain.Inconsistency) []AnomalySignal {
	var out []AnomalySignal

	if hasStatisticalOutlier(numericValues) {
		out = append(out, AnomalyStatisticalOutlier)
	}
	if len(inconsistencies) >= systematicInconsistencyThreshold {
		out = append(out, AnomalySystematicInconsistency)
	}
	if hasDeceptionIndicator(inconsistencies) {
		out = append(out, AnomalyDeceptionIndicator)
	}
	return out
}

// hasStatisticalOutlier flags any value more than 2 standard deviations
// from the mean, a standard z-score outlier rule.
func hasStatisticalOutlier(values []float64) bool {
	if len(values) < 3 {
		return false
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return false
	}

	for _, v := range values {
		if math.Abs(v-mean)/stddev > 2.0 {
			return true
		}
	}
	return false
}

// hasDeceptionIndicator flags timeline impossibilities (always deceptive
// by construction) and every claim contradiction, per spec §4.J.3(c). An
// Inconsistency carries no slot or info type, so claim contradictions are
// not narrowed to education credential slots (credential inflation).
func hasDeceptionIndicator(inconsistencies []domain.Inconsistency) bool {
	for _, inc := range inconsistencies {
		switch inc.Kind {
		case domain.InconsistencyTimelineImpossibility, domain.InconsistencyClaimContradiction:
			return true
		}
	}
	return false
}
