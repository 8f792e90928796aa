package domain

import "fmt"

// Default deduplication parameters.
const (
	// DefaultNBits is the default hash working width in bits.
	DefaultNBits = 64

	// DefaultNHashes is the default sketch length.
	DefaultNHashes = 128

	// DefaultJaccardThreshold is the default duplicate-decision cutoff.
	DefaultJaccardThreshold = 0.8

	// DefaultShingleSize is the default token window width.
	DefaultShingleSize = 5

	// DefaultHash is the default digest function name.
	DefaultHash = "sha3-256"

	// MaxNBits is the widest supported working width.
	MaxNBits = 64
)

// DedupSettings holds the construction parameters of the duplicate resolver.
// Validate tags are consumed by the settings validator in the services layer.
type DedupSettings struct {
	// NBits is the hash working width. Digests are reduced modulo 2^NBits.
	NBits int `json:"n_bits" validate:"min=1,max=64"`

	// NHashes is the sketch length (number of permutations).
	NHashes int `json:"n_hashes" validate:"min=1"`

	// JaccardThreshold is the similarity at or above which a document is a duplicate.
	JaccardThreshold float64 `json:"jaccard_threshold" validate:"gte=0,lte=1"`

	// ShingleSize is the number of tokens per shingle.
	ShingleSize int `json:"shingle_size" validate:"min=1"`

	// Hash names the digest function in the hasher registry.
	Hash string `json:"hash" validate:"required"`

	// Seed makes the permutation bank reproducible when set.
	Seed *int64 `json:"seed,omitempty"`
}

// DefaultDedupSettings returns settings with sensible defaults.
// Seed is left unset, so permutations differ between runs.
func DefaultDedupSettings() DedupSettings {
	return DedupSettings{
		NBits:            DefaultNBits,
		NHashes:          DefaultNHashes,
		JaccardThreshold: DefaultJaccardThreshold,
		ShingleSize:      DefaultShingleSize,
		Hash:             DefaultHash,
	}
}

// WithSeed returns a copy of the settings using the given seed.
func (s DedupSettings) WithSeed(seed int64) DedupSettings {
	s.Seed = &seed
	return s
}

// SeedString returns the seed for display, or "random" when unset.
func (s DedupSettings) SeedString() string {
	if s.Seed == nil {
		return "random"
	}
	return fmt.Sprintf("%d", *s.Seed)
}
