package domain

// Document is a unit of text submitted for deduplication.
// Documents are owned by the caller; the core only reads Text.
type Document struct {
	// ID is the opaque unique key for the document.
	ID string

	// Text is the raw document text.
	Text string

	// URI is the original location (file path, manifest entry, etc).
	URI string

	// Metadata contains source-specific key-value pairs.
	Metadata map[string]any
}

// DocumentEventType represents the kind of change a watching source observed.
type DocumentEventType int

const (
	// DocumentCreated indicates a new document appeared.
	DocumentCreated DocumentEventType = iota

	// DocumentUpdated indicates an existing document was rewritten.
	DocumentUpdated
)

// String returns the event type name.
func (t DocumentEventType) String() string {
	switch t {
	case DocumentCreated:
		return "created"
	case DocumentUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// DocumentEvent is a change reported by a watching document source.
type DocumentEvent struct {
	// Type is the kind of change.
	Type DocumentEventType

	// Document is the affected document with its current text.
	Document Document
}
