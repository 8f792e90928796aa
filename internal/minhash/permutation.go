package minhash

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// pcgStream is the fixed PCG stream selector for seeded banks.
const pcgStream = 0x9e3779b97f4a7c15

// PermutationBank is an immutable set of XOR masks, one per simulated permutation.
type PermutationBank struct {
	nBits  int
	masks  []uint64
	seeded bool
}

// NewPermutationBank draws nHashes masks uniformly from [0, 2^nBits).
//
// With a seed the bank is fully reproducible; without one the generator is
// seeded from crypto/rand. Returns domain.ErrConfiguration when nHashes < 1
// or nBits is outside [1, 64].
func NewPermutationBank(nBits, nHashes int, seed *int64) (*PermutationBank, error) {
	if err := validateBits(nBits); err != nil {
		return nil, err
	}
	if nHashes < 1 {
		return nil, fmt.Errorf("%w: n_hashes must be positive, got %d", domain.ErrConfiguration, nHashes)
	}

	rng, err := newRand(seed)
	if err != nil {
		return nil, err
	}

	mask := bitMask(nBits)
	masks := make([]uint64, nHashes)
	for i := range masks {
		masks[i] = rng.Uint64() & mask
	}

	return &PermutationBank{
		nBits:  nBits,
		masks:  masks,
		seeded: seed != nil,
	}, nil
}

// Permutations returns a copy of the masks in index order.
func (b *PermutationBank) Permutations() []uint64 {
	out := make([]uint64, len(b.masks))
	copy(out, b.masks)
	return out
}

// Len returns the number of permutations.
func (b *PermutationBank) Len() int {
	return len(b.masks)
}

// Bits returns the working width the masks were drawn for.
func (b *PermutationBank) Bits() int {
	return b.nBits
}

// Seeded reports whether the bank was built from an explicit seed.
func (b *PermutationBank) Seeded() bool {
	return b.seeded
}

func newRand(seed *int64) (*rand.Rand, error) {
	if seed != nil {
		return rand.New(rand.NewPCG(uint64(*seed), pcgStream)), nil
	}

	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("seeding permutation bank: %w", err)
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(buf[:8]),
		binary.LittleEndian.Uint64(buf[8:]),
	)), nil
}

func validateBits(nBits int) error {
	if nBits < 1 || nBits > domain.MaxNBits {
		return fmt.Errorf("%w: n_bits must be in [1, %d], got %d", domain.ErrConfiguration, domain.MaxNBits, nBits)
	}
	return nil
}

// bitMask returns 2^nBits - 1 for nBits in [1, 64].
func bitMask(nBits int) uint64 {
	if nBits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << nBits) - 1
}
