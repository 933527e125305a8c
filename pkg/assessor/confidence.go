// Package assessor implements the Result Assessor and Confidence Scorer
// (spec §4.G): structured fact extraction, inconsistency detection, and
// the per-info-type confidence function driving the SAR loop's stop
// decision.
package assessor

import (
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Weights tune the confidence function's four components. Coverage,
// Corroboration and Recency sum to 1.0 in the default configuration but
// are not required to; the function divides by their sum. Penalty is
// applied separately, outside that sum.
type Weights struct {
	Coverage      float64
	Corroboration float64
	Recency       float64
	Penalty       float64 // weight applied to the inconsistency penalty term
}

// DefaultWeights matches the relative emphasis described in spec §4.G:
// coverage and corroboration dominate, recency is a lighter tiebreaker,
// and unresolved inconsistencies apply a penalty rather than a positive
// weight.
var DefaultWeights = Weights{Coverage: 0.4, Corroboration: 0.35, Recency: 0.25, Penalty: 0.15}

// ExpectedSlots is the number of facts a fully covered investigation of
// infoType is expected to produce, used as the coverage denominator.
// Grounded on the spec's "facts-per-expected-slot" phrasing — each
// InformationType has a fixed small number of canonical claim slots (e.g.
// identity: name, dob, ssn, address).
var ExpectedSlots = map[domain.InformationType]int{
	domain.InfoIdentity:         4,
	domain.InfoEmployment:       3,
	domain.InfoEducation:        2,
	domain.InfoCriminal:         1,
	domain.InfoCivil:            1,
	domain.InfoFinancial:        2,
	domain.InfoLicenses:         1,
	domain.InfoRegulatory:       1,
	domain.InfoSanctions:        1,
	domain.InfoAdverseMedia:     1,
	domain.InfoDigitalFootprint: 1,
}

func expectedSlots(infoType domain.InformationType) int {
	if n, ok := ExpectedSlots[infoType]; ok && n > 0 {
		return n
	}
	return 1
}

// Confidence computes the [0,1] confidence score for infoType given its
// current facts and any open inconsistencies touching those facts, as of
// now (used for the recency component).
func Confidence(infoType domain.InformationType, facts []domain.Fact, openInconsistencies int, now time.Time, w Weights) float64 {
	if len(facts) == 0 {
		return 0
	}

	coverage := coverageScore(infoType, facts)
	corroboration := corroborationScore(facts)
	recency := recencyScore(facts, now)
	penalty := penaltyScore(openInconsistencies)

	total := w.Coverage + w.Corroboration + w.Recency
	if total == 0 {
		total = 1
	}
	raw := (w.Coverage*coverage + w.Corroboration*corroboration + w.Recency*recency) / total
	score := raw - w.Penalty*penalty
	return clamp01(score)
}

func coverageScore(infoType domain.InformationType, facts []domain.Fact) float64 {
	expected := expectedSlots(infoType)
	ratio := float64(len(facts)) / float64(expected)
	return clamp01(ratio)
}

func corroborationScore(facts []domain.Fact) float64 {
	if len(facts) == 0 {
		return 0
	}
	corroborated := 0
	for _, f := range facts {
		if f.Corroborated {
			corroborated++
		}
	}
	return float64(corroborated) / float64(len(facts))
}

func recencyScore(facts []domain.Fact, now time.Time) float64 {
	if len(facts) == 0 {
		return 0
	}
	var newest time.Time
	for _, f := range facts {
		if f.DiscoveredAt.After(newest) {
			newest = f.DiscoveredAt
		}
	}
	age := now.Sub(newest)
	if age <= 0 {
		return 1
	}
	// Decays to 0.5 at 30 days, matching the teacher's convention of a
	// half-life style decay for time-weighted signals.
	const halfLife = 30 * 24 * time.Hour
	decay := 1.0
	for age > 0 {
		if age < halfLife {
			decay *= 1 - 0.5*(float64(age)/float64(halfLife))
			break
		}
		decay *= 0.5
		age -= halfLife
	}
	return clamp01(decay)
}

func penaltyScore(openInconsistencies int) float64 {
	if openInconsistencies <= 0 {
		return 0
	}
	// Each open inconsistency subtracts diminishing additional penalty,
	// capped so a single info type can never go fully negative from
	// inconsistencies alone.
	p := 1 - 1/(1+float64(openInconsistencies)*0.5)
	return clamp01(p)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// InfoGainRate is new_facts / queries_executed for one iteration (spec
// §4.G). Returns 0 if no queries were executed.
func InfoGainRate(newFacts, queriesExecuted int) float64 {
	if queriesExecuted <= 0 {
		return 0
	}
	return float64(newFacts) / float64(queriesExecuted)
}
