package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// WriteDocuments writes each document to dir, using its ID as the relative
// path. IDs that would escape dir are rejected.
func WriteDocuments(dir string, docs []domain.Document) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, doc := range docs {
		rel := filepath.FromSlash(doc.ID)
		if rel == "" || filepath.IsAbs(rel) || strings.HasPrefix(filepath.Clean(rel), "..") {
			return fmt.Errorf("%w: cannot write document %q outside %s", domain.ErrInvalidInput, doc.ID, dir)
		}

		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", doc.ID, err)
		}
		if err := os.WriteFile(path, []byte(doc.Text), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", doc.ID, err)
		}
	}

	return nil
}
