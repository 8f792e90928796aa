package minhash

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// bigReduce is the arbitrary-precision reference: int(digest) mod 2^nBits.
func bigReduce(digest []byte, nBits int) uint64 {
	v := new(big.Int).SetBytes(digest)
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nBits))
	return v.Mod(v, mod).Uint64()
}

func TestReduce_MatchesArbitraryPrecision(t *testing.T) {
	for i := 0; i < 50; i++ {
		digest := sha256.Sum256([]byte(fmt.Sprintf("shingle %d", i)))
		for _, bits := range []int{1, 7, 16, 31, 32, 48, 63, 64} {
			got, err := Reduce(digest[:], bits)
			require.NoError(t, err)
			assert.Equal(t, bigReduce(digest[:], bits), got, "bits=%d", bits)
		}
	}
}

func TestReduce_ShortDigest(t *testing.T) {
	got, err := Reduce([]byte{0x01, 0x02}, 64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102), got)

	got, err = Reduce([]byte{0xff}, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0f), got)
}

func TestReduce_Errors(t *testing.T) {
	_, err := Reduce(nil, 32)
	assert.True(t, errors.Is(err, domain.ErrHashReduction))

	_, err = Reduce([]byte{}, 32)
	assert.True(t, errors.Is(err, domain.ErrHashReduction))

	_, err = Reduce([]byte{1}, 0)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, err = Reduce([]byte{1}, 65)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
