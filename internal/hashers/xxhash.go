package hashers

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

var _ driven.Hasher = (*XXHash)(nil)

// XXHash is the non-cryptographic 64-bit xxHash digest.
// It is much faster than the cryptographic options and adequate when
// documents are not adversarial.
type XXHash struct{}

// NewXXHash creates an xxHash64 hasher.
func NewXXHash() *XXHash {
	return &XXHash{}
}

// Name returns the registry name.
func (h *XXHash) Name() string {
	return NameXXHash64
}

// Size returns the digest length in bytes.
func (h *XXHash) Size() int {
	return 8
}

// Sum returns the big-endian encoding of the xxHash64 of data.
func (h *XXHash) Sum(data []byte) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, xxhash.Sum64(data))
	return out
}
