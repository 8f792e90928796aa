package minhash

import (
	"fmt"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// Jaccard returns |A ∩ B| / |A ∪ B| for two shingle sets.
// Two empty sets are identical and score 1.0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for s := range small {
		if _, ok := large[s]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// EstimateSimilarity returns the fraction of components two fingerprints
// share. It approximates Jaccard similarity and is for diagnostics only.
func EstimateSimilarity(a, b domain.Fingerprint) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("%w: empty fingerprint", domain.ErrInvalidInput)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: fingerprint lengths differ (%d != %d)", domain.ErrInvalidInput, len(a), len(b))
	}

	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}

	return float64(matches) / float64(len(a)), nil
}
