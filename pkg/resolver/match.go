package resolver

import (
	"github.com/clearcheck/investigator/pkg/domain"
)

// MatchThreshold is the composite score at or above which a candidate
// Entity is considered a match for an incoming subject's claimed
// identifiers (spec §4.D).
const MatchThreshold = 0.85

const (
	nameWeight    = 0.5
	dobWeight     = 0.3
	addressWeight = 0.2
)

// Score computes the composite fuzzy match score between an incoming
// subject's claimed identifiers and a candidate entity's identifiers:
// name and address use normalized edit-distance similarity; DOB is an
// exact comparison on normalized form, since a YYYY-MM-DD value has no
// meaningful fuzzy distance at the granularity this system operates on.
func Score(subject, candidate domain.Identifiers) float64 {
	return nameWeight*nameSimilarity(subject.Name, candidate.Name) +
		dobWeight*dobSimilarity(subject.DOB, candidate.DOB) +
		addressWeight*addressSimilarity(subject.Addresses, candidate.Addresses)
}

func nameSimilarity(a, b string) float64 {
	return editDistanceSimilarity(normalizeText(a), normalizeText(b))
}

func dobSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return 0
}

// addressSimilarity takes the best-matching pair across both address
// lists: a subject's current address only needs to match any one of a
// candidate's historical addresses.
func addressSimilarity(subject, candidate []string) float64 {
	best := 0.0
	for _, a := range subject {
		for _, b := range candidate {
			if s := editDistanceSimilarity(normalizeText(a), normalizeText(b)); s > best {
				best = s
			}
		}
	}
	return best
}

// editDistanceSimilarity converts a Levenshtein distance into a [0,1]
// similarity score normalized by the longer string's rune length. Pure
// standard-library arithmetic: no string-similarity library appears in
// any example's go.mod, so a reusable primitive is implemented directly
// rather than importing an unrelated-domain dependency to get *a*
// library on the import list.
func editDistanceSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
