package assessor

import (
	"github.com/clearcheck/investigator/pkg/domain"
)

// Detect scans facts for the three inconsistency shapes named in spec
// §4.G: timeline impossibility (overlapping employment/education claims
// that cannot both be true), claim contradiction (same slot, differing
// values across facts, whichever sources reported them), and identifier
// mismatch (DOB disagreement across identity facts; SSN is not compared by
// this check). idGen mints a fresh Inconsistency ID per finding.
func Detect(facts []domain.Fact, idGen func() string) []domain.Inconsistency {
	var out []domain.Inconsistency
	out = append(out, detectClaimContradictions(facts, idGen)...)
	out = append(out, detectIdentifierMismatches(facts, idGen)...)
	out = append(out, detectTimelineImpossibilities(facts, idGen)...)
	return out
}

func detectClaimContradictions(facts []domain.Fact, idGen func() string) []domain.Inconsistency {
	// Group by (info_type, claim slot key) and flag slots holding more than
	// one distinct value; the reporting source is not compared.
	type slotKey struct {
		infoType domain.InformationType
		field    string
	}
	seen := make(map[slotKey]map[string][]string) // value -> fact IDs

	for _, f := range facts {
		for field, val := range f.Claim {
			s, ok := val.(string)
			if !ok || s == "" {
				continue
			}
			k := slotKey{infoType: f.InfoType, field: field}
			if seen[k] == nil {
				seen[k] = make(map[string][]string)
			}
			seen[k][s] = append(seen[k][s], f.ID)
		}
	}

	var out []domain.Inconsistency
	for _, values := range seen {
		if len(values) < 2 {
			continue
		}
		var factIDs []string
		for _, ids := range values {
			factIDs = append(factIDs, ids...)
		}
		out = append(out, domain.Inconsistency{
			ID:       idGen(),
			Kind:     domain.InconsistencyClaimContradiction,
			FactIDs:  factIDs,
			Status:   domain.ReconciliationOpen,
		})
	}
	return out
}

func detectIdentifierMismatches(facts []domain.Fact, idGen func() string) []domain.Inconsistency {
	dobValues := make(map[string][]string)
	for _, f := range facts {
		if f.InfoType != domain.InfoIdentity {
			continue
		}
		if dob, ok := f.Claim["dob"].(string); ok && dob != "" {
			dobValues[dob] = append(dobValues[dob], f.ID)
		}
	}
	if len(dobValues) < 2 {
		return nil
	}
	var factIDs []string
	for _, ids := range dobValues {
		factIDs = append(factIDs, ids...)
	}
	return []domain.Inconsistency{{
		ID:      idGen(),
		Kind:    domain.InconsistencyIdentifierMismatch,
		FactIDs: factIDs,
		Status:  domain.ReconciliationOpen,
	}}
}

func detectTimelineImpossibilities(facts []domain.Fact, idGen func() string) []domain.Inconsistency {
	type interval struct {
		factID     string
		start, end string
	}
	var intervals []interval
	for _, f := range facts {
		if f.InfoType != domain.InfoEmployment && f.InfoType != domain.InfoEducation {
			continue
		}
		start, _ := f.Claim["start_date"].(string)
		end, _ := f.Claim["end_date"].(string)
		if start == "" {
			continue
		}
		intervals = append(intervals, interval{factID: f.ID, start: start, end: end})
	}

	var out []domain.Inconsistency
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			a, b := intervals[i], intervals[j]
			if overlaps(a.start, a.end, b.start, b.end) {
				out = append(out, domain.Inconsistency{
					ID:      idGen(),
					Kind:    domain.InconsistencyTimelineImpossibility,
					FactIDs: []string{a.factID, b.factID},
					Status:  domain.ReconciliationOpen,
				})
			}
		}
	}
	return out
}

// overlaps reports whether two YYYY-MM-DD date ranges overlap, bounds
// inclusive. An empty end date means "ongoing": that interval overlaps any
// other interval that ends on or after its start.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	if aEnd == "" {
		aEnd = "9999-99-99"
	}
	if bEnd == "" {
		bEnd = "9999-99-99"
	}
	return aStart <= bEnd && bStart <= aEnd
}
