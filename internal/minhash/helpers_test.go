package minhash

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

// sha256Hasher is a minimal driven.Hasher for tests.
type sha256Hasher struct{}

func (sha256Hasher) Name() string {
	return "sha256"
}

func (sha256Hasher) Size() int {
	return sha256.Size
}

func (sha256Hasher) Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// emptyHasher returns no digest bytes, which cannot be reduced.
type emptyHasher struct{}

func (emptyHasher) Name() string {
	return "empty"
}

func (emptyHasher) Size() int {
	return 0
}

func (emptyHasher) Sum(_ []byte) []byte {
	return nil
}

func seedPtr(v int64) *int64 { return &v }

func newTestGenerator(t *testing.T, nBits, nHashes int, seed int64) *Generator {
	t.Helper()
	bank, err := NewPermutationBank(nBits, nHashes, seedPtr(seed))
	require.NoError(t, err)
	gen, err := NewGenerator(bank, sha256Hasher{})
	require.NoError(t, err)
	return gen
}

func shinglesOf(words ...string) [][]byte {
	out := make([][]byte, len(words))
	for i, w := range words {
		out[i] = []byte(w)
	}
	return out
}
