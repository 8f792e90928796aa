package minhash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

func TestNewGenerator_NilArguments(t *testing.T) {
	bank, err := NewPermutationBank(32, 4, seedPtr(1))
	require.NoError(t, err)

	_, err = NewGenerator(nil, sha256Hasher{})
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, err = NewGenerator(bank, nil)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestGenerator_Fingerprint(t *testing.T) {
	gen := newTestGenerator(t, 32, 8, 42)
	shingles := shinglesOf("a b c", "b c d", "c d e")

	fp, err := gen.Fingerprint(shingles)
	require.NoError(t, err)
	require.Len(t, fp, 8)

	for i, tag := range fp {
		assert.Equal(t, i, tag.Index)
		assert.LessOrEqual(t, tag.Value, bitMask(32))
	}
}

func TestGenerator_FingerprintIsMinimumOverShingles(t *testing.T) {
	bank, err := NewPermutationBank(31, 5, seedPtr(9))
	require.NoError(t, err)
	gen, err := NewGenerator(bank, sha256Hasher{})
	require.NoError(t, err)

	shingles := shinglesOf("one two", "two three", "three four", "four five")
	fp, err := gen.Fingerprint(shingles)
	require.NoError(t, err)

	for i, mask := range bank.Permutations() {
		expected := ^uint64(0)
		for _, s := range shingles {
			h, err := gen.Hash(s)
			require.NoError(t, err)
			if v := h ^ mask; v < expected {
				expected = v
			}
		}
		assert.Equal(t, expected, fp[i].Value, "component %d", i)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	shingles := shinglesOf("the quick brown", "quick brown fox", "brown fox jumps")

	first, err := newTestGenerator(t, 64, 32, 5).Fingerprint(shingles)
	require.NoError(t, err)
	second, err := newTestGenerator(t, 64, 32, 5).Fingerprint(shingles)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	gen := newTestGenerator(t, 64, 32, 5)
	again1, err := gen.Fingerprint(shingles)
	require.NoError(t, err)
	again2, err := gen.Fingerprint(shingles)
	require.NoError(t, err)
	assert.Equal(t, again1, again2)
}

func TestGenerator_OrderAndMultiplicityInvariant(t *testing.T) {
	gen := newTestGenerator(t, 48, 16, 3)

	a, err := gen.Fingerprint(shinglesOf("x y", "y z", "z w"))
	require.NoError(t, err)
	b, err := gen.Fingerprint(shinglesOf("z w", "x y", "y z", "x y"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerator_InsufficientContent(t *testing.T) {
	gen := newTestGenerator(t, 32, 4, 1)

	fp, err := gen.Fingerprint(nil)
	assert.Nil(t, fp)
	assert.True(t, errors.Is(err, domain.ErrInsufficientContent))

	_, err = gen.Fingerprint([][]byte{})
	assert.True(t, errors.Is(err, domain.ErrInsufficientContent))
}

func TestGenerator_HashReductionFailure(t *testing.T) {
	bank, err := NewPermutationBank(32, 4, seedPtr(1))
	require.NoError(t, err)
	gen, err := NewGenerator(bank, emptyHasher{})
	require.NoError(t, err)

	_, err = gen.Fingerprint(shinglesOf("a b"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrHashReduction))
	assert.Contains(t, err.Error(), "empty")
}

func TestGenerator_Accessors(t *testing.T) {
	gen := newTestGenerator(t, 32, 12, 1)

	assert.Equal(t, 12, gen.Len())
	assert.Equal(t, "sha256", gen.HasherName())
}
