package minhash

import (
	"fmt"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// Generator produces fingerprints from shingles using a fixed permutation
// bank and hash primitive. It is immutable and safe for concurrent use.
type Generator struct {
	hasher driven.Hasher
	masks  []uint64
	nBits  int
}

// NewGenerator creates a fingerprint generator.
func NewGenerator(bank *PermutationBank, hasher driven.Hasher) (*Generator, error) {
	if bank == nil {
		return nil, fmt.Errorf("%w: permutation bank is nil", domain.ErrConfiguration)
	}
	if hasher == nil {
		return nil, fmt.Errorf("%w: hasher is nil", domain.ErrConfiguration)
	}

	return &Generator{
		hasher: hasher,
		masks:  bank.Permutations(),
		nBits:  bank.Bits(),
	}, nil
}

// Hash returns the reduced hash of a single shingle.
func (g *Generator) Hash(shingle []byte) (uint64, error) {
	h, err := Reduce(g.hasher.Sum(shingle), g.nBits)
	if err != nil {
		return 0, fmt.Errorf("%s digest: %w", g.hasher.Name(), err)
	}
	return h, nil
}

// Fingerprint computes the MinHash sketch of shingles.
//
// Component i is the minimum over all shingles of Hash(shingle) XOR mask[i],
// tagged with index i. A document without shingles has no defined minimum
// and yields domain.ErrInsufficientContent.
func (g *Generator) Fingerprint(shingles [][]byte) (domain.Fingerprint, error) {
	if len(shingles) == 0 {
		return nil, domain.ErrInsufficientContent
	}

	mins := make([]uint64, len(g.masks))
	for i := range mins {
		mins[i] = ^uint64(0)
	}

	for _, s := range shingles {
		h, err := g.Hash(s)
		if err != nil {
			return nil, err
		}
		for i, mask := range g.masks {
			if v := h ^ mask; v < mins[i] {
				mins[i] = v
			}
		}
	}

	fp := make(domain.Fingerprint, len(mins))
	for i, v := range mins {
		fp[i] = domain.Tag{Index: i, Value: v}
	}

	return fp, nil
}

// Len returns the sketch length.
func (g *Generator) Len() int {
	return len(g.masks)
}

// HasherName returns the name of the underlying hash primitive.
func (g *Generator) HasherName() string {
	return g.hasher.Name()
}
