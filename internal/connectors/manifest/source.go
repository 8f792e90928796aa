// Package manifest loads documents listed in a YAML manifest file.
//
// Two layouts are accepted:
//
//	documents:
//	  - id: a
//	    text: first document
//	  - id: b
//	    text: second document
//
// or a mapping from ID to text, which is loaded in key order:
//
//	documents:
//	  a: first document
//	  b: second document
package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// SourceType identifies documents loaded from a manifest.
const SourceType = "manifest"

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source reads documents from a YAML manifest.
type Source struct {
	path string
}

// New creates a manifest source for the file at path.
func New(path string) *Source {
	return &Source{path: path}
}

// Type returns the source type.
func (s *Source) Type() string {
	return SourceType
}

// Path returns the manifest location.
func (s *Source) Path() string {
	return s.path
}

type file struct {
	Documents yaml.Node `yaml:"documents"`
}

type entry struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
	URI  string `yaml:"uri,omitempty"`
}

// Load parses the manifest. Entries with repeated IDs are returned as-is.
func (s *Source) Load(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data, s.uri())
}

// Close is a no-op.
func (s *Source) Close() error {
	return nil
}

func (s *Source) uri() string {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return s.path
	}
	return abs
}

// Parse decodes manifest bytes. Entries without their own uri get
// "<base>#<id>".
func Parse(data []byte, base string) ([]domain.Document, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing manifest: %v", domain.ErrInvalidInput, err)
	}

	var entries []entry
	switch f.Documents.Kind {
	case 0:
		return []domain.Document{}, nil
	case yaml.SequenceNode:
		if err := f.Documents.Decode(&entries); err != nil {
			return nil, fmt.Errorf("%w: decoding document list: %v", domain.ErrInvalidInput, err)
		}
	case yaml.MappingNode:
		var byID map[string]string
		if err := f.Documents.Decode(&byID); err != nil {
			return nil, fmt.Errorf("%w: decoding document mapping: %v", domain.ErrInvalidInput, err)
		}
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			entries = append(entries, entry{ID: id, Text: byID[id]})
		}
	default:
		return nil, fmt.Errorf("%w: documents must be a list or a mapping (line %d)",
			domain.ErrInvalidInput, f.Documents.Line)
	}

	docs := make([]domain.Document, 0, len(entries))
	for _, e := range entries {
		uri := e.URI
		if uri == "" && base != "" {
			uri = base + "#" + e.ID
		}
		docs = append(docs, domain.Document{ID: e.ID, Text: e.Text, URI: uri})
	}
	return docs, nil
}

// Write encodes docs as a manifest in list form.
func Write(path string, docs []domain.Document) error {
	out := struct {
		Documents []entry `yaml:"documents"`
	}{Documents: make([]entry, len(docs))}
	for i, doc := range docs {
		out.Documents[i] = entry{ID: doc.ID, Text: doc.Text}
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
