package cache

import (
	"fmt"

	"github.com/clearcheck/investigator/pkg/canonicalize"
	"github.com/clearcheck/investigator/pkg/domain"
)

// Fingerprint uniquely identifies a (provider, check_type, subject,
// params) tuple for cache lookup and query dedup (spec §4.C, §4.F).
// subject is NFKC-normalized and casefolded (spec §9's Open Question on
// locale-specific normalization) before hashing, so two spellings of the
// same name/address resolve to the same cache entry. Hashing is via
// pkg/canonicalize.CanonicalHash (RFC 8785 JCS + SHA-256), already used
// elsewhere in the pack for deterministic hashing.
func Fingerprint(providerID string, checkType domain.InformationType, subject domain.Identifiers, params map[string]any) (string, error) {
	hash, err := canonicalize.CanonicalHash(map[string]any{
		"provider":   providerID,
		"check_type": string(checkType),
		"subject":    normalizeIdentifiers(subject),
		"params":     params,
	})
	if err != nil {
		return "", fmt.Errorf("cache: fingerprint: %w", err)
	}
	return hash, nil
}
