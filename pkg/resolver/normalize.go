package resolver

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var fold = cases.Fold()

// normalizeText NFKC-normalizes then casefolds s, the same locale
// normalization step pkg/cache's fingerprinting applies (spec §9's Open
// Question on locale-specific normalization), so "José García" and "JOSÉ
// GARCÍA" compare as equal before edit-distance scoring. Diacritics are
// kept: "José" and "Jose" differ by one edit.
func normalizeText(s string) string {
	return fold.String(norm.NFKC.String(strings.TrimSpace(s)))
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
