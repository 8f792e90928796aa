package driven

// Hasher is the replaceable digest primitive consumed by the fingerprint
// generator. Implementations must be deterministic and safe for concurrent use.
type Hasher interface {
	// Name returns the registry name (e.g., "sha3-256").
	Name() string

	// Size returns the digest length in bytes.
	Size() int

	// Sum returns the digest of data.
	Sum(data []byte) []byte
}

// HasherRegistry resolves hash functions by name.
type HasherRegistry interface {
	// Build creates the hasher registered under name.
	// Returns domain.ErrUnsupportedType for unknown names.
	Build(name string) (Hasher, error)

	// Has returns true if name is registered.
	Has(name string) bool

	// Names returns all registered names in sorted order.
	Names() []string
}
