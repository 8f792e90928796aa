package normalisers

import (
	"github.com/custodia-labs/neardup/internal/normalisers/docx"
	"github.com/custodia-labs/neardup/internal/normalisers/eml"
	"github.com/custodia-labs/neardup/internal/normalisers/html"
	"github.com/custodia-labs/neardup/internal/normalisers/markdown"
)

// RegisterDefaults registers all built-in normalisers with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(html.New())
	r.Register(markdown.New())
	r.Register(docx.New())
	r.Register(eml.New())
}

// DefaultRegistry returns a registry with the built-in normalisers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
