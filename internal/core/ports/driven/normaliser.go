package driven

import "context"

// Normaliser extracts plain text from a markup or container format, so
// shingles are drawn from what a reader sees rather than from markup.
type Normaliser interface {
	// Format names the handled format (e.g., "html").
	Format() string

	// Extensions returns the handled file extensions, lower-case with a
	// leading dot.
	Extensions() []string

	// Normalise returns the plain text of content.
	// Malformed input wraps domain.ErrInvalidInput.
	Normalise(ctx context.Context, content []byte) (string, error)
}

// NormaliserRegistry selects a normaliser by file path.
type NormaliserRegistry interface {
	// ForPath returns the normaliser for the extension of path.
	ForPath(path string) (Normaliser, bool)

	// Formats returns the registered format names, sorted.
	Formats() []string
}
