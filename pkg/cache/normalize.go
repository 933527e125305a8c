package cache

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/clearcheck/investigator/pkg/domain"
)

var fold = cases.Fold()

// normalizeIdentifiers resolves the Open Question on locale-specific
// name/address normalization (spec §9): NFKC-normalize then casefold name
// and address components before they enter a fingerprint, so "José García"
// and "JOSÉ GARCÍA" hash to the same cache entry. Diacritics are kept:
// "José" and "Jose" hash differently. SSN is reduced to digits-only here;
// DOB is used as given, relying on domain.Identifiers' documented
// YYYY-MM-DD form.
func normalizeIdentifiers(id domain.Identifiers) map[string]any {
	addresses := make([]string, len(id.Addresses))
	for i, a := range id.Addresses {
		addresses[i] = normalizeText(a)
	}
	return map[string]any{
		"name":      normalizeText(id.Name),
		"dob":       id.DOB,
		"ssn":       digitsOnly(id.SSN),
		"addresses": addresses,
	}
}

func normalizeText(s string) string {
	return fold.String(norm.NFKC.String(s))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

