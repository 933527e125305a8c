package knowledge

import (
	"github.com/clearcheck/investigator/pkg/domain"
)

// DerivedIdentity is the resolved-by-precedence view over identity Facts
// (spec §4.E: "derived views (primary_name, confirmed_dob) with precedence
// rules").
type DerivedIdentity struct {
	PrimaryName  string
	ConfirmedDOB string
}

// DeriveIdentity ranks provider-reported identity claims:
// corroborated facts always outrank uncorroborated ones; within each tier,
// the most recently discovered fact wins. This mirrors the teacher's
// last-writer-with-corroboration-priority convention used for conflicting
// claims elsewhere in the pack (pkg/governance fold rules), adapted here
// to the identity domain.
func DeriveIdentity(facts []domain.Fact) DerivedIdentity {
	var out DerivedIdentity
	var bestName, bestDOB *domain.Fact

	for i := range facts {
		f := &facts[i]
		if f.InfoType != domain.InfoIdentity {
			continue
		}
		if name, ok := f.Claim["name"].(string); ok && name != "" {
			if betterIdentityFact(f, bestName) {
				bestName = f
				out.PrimaryName = name
			}
		}
		if dob, ok := f.Claim["dob"].(string); ok && dob != "" {
			if betterIdentityFact(f, bestDOB) {
				bestDOB = f
				out.ConfirmedDOB = dob
			}
		}
	}
	return out
}

func betterIdentityFact(candidate, current *domain.Fact) bool {
	if current == nil {
		return true
	}
	if candidate.Corroborated != current.Corroborated {
		return candidate.Corroborated
	}
	return candidate.DiscoveredAt.After(current.DiscoveredAt)
}
