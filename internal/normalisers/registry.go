package normalisers

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps file extensions to normalisers.
type Registry struct {
	byExt   map[string]driven.Normaliser
	formats map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt:   make(map[string]driven.Normaliser),
		formats: make(map[string]struct{}),
	}
}

// Register adds n for each of its extensions. A later registration for the
// same extension replaces the earlier one.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
	r.formats[n.Format()] = struct{}{}
}

// ForPath returns the normaliser registered for the extension of path.
func (r *Registry) ForPath(path string) (driven.Normaliser, bool) {
	n, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return n, ok
}

// Formats returns all registered format names, sorted.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.formats))
	for f := range r.formats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
