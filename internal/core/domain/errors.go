package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown hash function or source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Deduplication Errors.

	// ErrConfiguration indicates invalid construction parameters.
	// It is fatal and raised before any document is processed.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInsufficientContent indicates a document produced zero shingles.
	// The document is rejected; the batch continues.
	ErrInsufficientContent = errors.New("insufficient content")

	// ErrHashReduction indicates a digest could not be reduced to the working width.
	ErrHashReduction = errors.New("hash reduction failed")

	// ErrInvalidEncoding indicates document text is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid text encoding")

	// ErrReportNotSaved indicates a batch completed, and its documents were
	// indexed, but the report could not be stored.
	ErrReportNotSaved = errors.New("report not saved")
)
