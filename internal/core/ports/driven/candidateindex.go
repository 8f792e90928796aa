package driven

import "github.com/custodia-labs/neardup/internal/core/domain"

// CandidateIndexReader exposes the candidate index read-only for diagnostics.
type CandidateIndexReader interface {
	// Lookup returns the IDs of documents that produced tag, in insertion order.
	// Returns an empty slice when the tag is unknown.
	Lookup(tag domain.Tag) []string

	// Snapshot returns a copy of every bucket.
	Snapshot() map[domain.Tag][]string

	// Stats returns summary counts.
	Stats() domain.IndexStats

	// Len returns the number of distinct tags.
	Len() int
}

// CandidateIndex maps tagged fingerprint components to the documents that
// produced them. There is no removal: only unique documents are inserted.
// Owned and mutated exclusively by the duplicate resolver.
type CandidateIndex interface {
	CandidateIndexReader

	// Insert appends docID to the bucket for tag, creating it if absent.
	Insert(tag domain.Tag, docID string)

	// InsertFingerprint inserts every component of fp for docID atomically.
	InsertFingerprint(fp domain.Fingerprint, docID string)
}
