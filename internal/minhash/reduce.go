package minhash

import (
	"fmt"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// Reduce maps a digest into the working width.
//
// The digest is read as a big-endian unsigned integer of arbitrary length
// and reduced modulo 2^nBits. Since 2^nBits divides 2^64, only the trailing
// eight bytes contribute; shorter digests are left-padded with zeros.
func Reduce(digest []byte, nBits int) (uint64, error) {
	if err := validateBits(nBits); err != nil {
		return 0, err
	}
	if len(digest) == 0 {
		return 0, fmt.Errorf("%w: empty digest", domain.ErrHashReduction)
	}

	tail := digest
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}

	var v uint64
	for _, b := range tail {
		v = v<<8 | uint64(b)
	}

	return v & bitMask(nBits), nil
}
