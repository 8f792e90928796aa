package driven

import (
	"context"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// DocumentSource loads documents from storage for deduplication.
// Sources must return documents in a deterministic order, since processing
// order decides which member of a near-duplicate cluster survives.
type DocumentSource interface {
	// Type returns the source type identifier (e.g., "filesystem").
	Type() string

	// Load returns every document the source holds.
	Load(ctx context.Context) ([]domain.Document, error)

	// Close releases resources.
	Close() error
}

// WatchableSource is a DocumentSource that can push new and changed documents.
type WatchableSource interface {
	DocumentSource

	// Watch listens for document changes until ctx is cancelled.
	Watch(ctx context.Context) (<-chan domain.DocumentEvent, error)
}
