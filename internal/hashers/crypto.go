package hashers

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

var (
	_ driven.Hasher = (*SHA3)(nil)
	_ driven.Hasher = (*SHA256)(nil)
	_ driven.Hasher = (*BLAKE2b)(nil)
)

// SHA3 is the SHA3-256 digest. It is the default hash function.
type SHA3 struct{}

// NewSHA3 creates a SHA3-256 hasher.
func NewSHA3() *SHA3 {
	return &SHA3{}
}

// Name returns the registry name.
func (h *SHA3) Name() string {
	return NameSHA3256
}

// Size returns the digest length in bytes.
func (h *SHA3) Size() int {
	return 32
}

// Sum returns the SHA3-256 digest of data.
func (h *SHA3) Sum(data []byte) []byte {
	sum := sha3.Sum256(data)
	return sum[:]
}

// SHA256 is the SHA-256 digest.
type SHA256 struct{}

// NewSHA256 creates a SHA-256 hasher.
func NewSHA256() *SHA256 {
	return &SHA256{}
}

// Name returns the registry name.
func (h *SHA256) Name() string {
	return NameSHA256
}

// Size returns the digest length in bytes.
func (h *SHA256) Size() int {
	return sha256.Size
}

// Sum returns the SHA-256 digest of data.
func (h *SHA256) Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// BLAKE2b is the 256-bit BLAKE2b digest.
type BLAKE2b struct{}

// NewBLAKE2b creates a BLAKE2b-256 hasher.
func NewBLAKE2b() *BLAKE2b {
	return &BLAKE2b{}
}

// Name returns the registry name.
func (h *BLAKE2b) Name() string {
	return NameBLAKE2b256
}

// Size returns the digest length in bytes.
func (h *BLAKE2b) Size() int {
	return blake2b.Size256
}

// Sum returns the BLAKE2b-256 digest of data.
func (h *BLAKE2b) Sum(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}
