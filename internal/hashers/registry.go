// Package hashers provides the digest primitives used for fingerprinting.
package hashers

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.HasherRegistry = (*Registry)(nil)

// BuilderFunc creates a Hasher.
type BuilderFunc func() driven.Hasher

// Registry maps hash function names to their builders.
// It allows the digest to be selected from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new empty hasher registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a hasher builder to the registry.
// Name should be unique and match the hasher's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a hasher by name.
// Returns domain.ErrUnsupportedType if the name is not registered.
func (r *Registry) Build(name string) (driven.Hasher, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hash function %q", domain.ErrUnsupportedType, name)
	}
	return builder(), nil
}

// Has returns true if a hasher with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered hasher names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
