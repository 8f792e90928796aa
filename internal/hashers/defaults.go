package hashers

import "github.com/custodia-labs/neardup/internal/core/ports/driven"

// Registered hash function names.
const (
	NameSHA3256    = "sha3-256"
	NameSHA256     = "sha256"
	NameBLAKE2b256 = "blake2b-256"
	NameXXHash64   = "xxhash64"
)

// RegisterDefaults registers all built-in hash functions with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(NameSHA3256, func() driven.Hasher { return NewSHA3() })
	r.Register(NameSHA256, func() driven.Hasher { return NewSHA256() })
	r.Register(NameBLAKE2b256, func() driven.Hasher { return NewBLAKE2b() })
	r.Register(NameXXHash64, func() driven.Hasher { return NewXXHash() })
}

// DefaultRegistry returns a registry populated with the built-in hashers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
