package domain

import "time"

// DocumentState is the position of a document in the resolver's state machine.
type DocumentState string

// Resolver states. Duplicate, Unique and Rejected are terminal.
const (
	StatePending             DocumentState = "pending"
	StateShinglesExtracted   DocumentState = "shingles_extracted"
	StateFingerprintComputed DocumentState = "fingerprint_computed"
	StateCandidatesChecked   DocumentState = "candidates_checked"
	StateDuplicate           DocumentState = "duplicate"
	StateUnique              DocumentState = "unique"
	StateRejected            DocumentState = "rejected"
)

// IsTerminal returns true for states that end a document's processing.
func (s DocumentState) IsTerminal() bool {
	return s == StateDuplicate || s == StateUnique || s == StateRejected
}

// String returns the string representation.
func (s DocumentState) String() string {
	return string(s)
}

// Rejection reason codes.
const (
	ReasonInsufficientContent = "insufficient_content"
	ReasonInvalidEncoding     = "invalid_encoding"
	ReasonHashReduction       = "hash_reduction"
	ReasonInvalidInput        = "invalid_input"
)

// Duplicate records a document discarded as a near-duplicate.
type Duplicate struct {
	// DocumentID is the discarded document.
	DocumentID string

	// OriginalID is the previously retained document it matched.
	OriginalID string

	// Similarity is the exact Jaccard similarity of their shingle sets.
	Similarity float64

	// Estimate is the MinHash estimate of Similarity. Diagnostic only.
	Estimate float64

	// Tag is the shared tagged component that surfaced the candidate.
	Tag Tag
}

// Rejection records a document that could not be classified.
type Rejection struct {
	// DocumentID is the rejected document.
	DocumentID string

	// Reason is a stable reason code (see Reason* constants).
	Reason string

	// Err is the underlying error; use errors.Is against domain sentinels.
	Err error
}

// Outcome is the terminal classification of one document in a batch.
type Outcome struct {
	DocumentID string
	State      DocumentState

	// OriginalID and Similarity are set for duplicates.
	OriginalID string
	Similarity float64

	// Reason is set for rejections.
	Reason string
}

// Report is the result of one deduplication batch.
// Retained is a new collection; the caller's input is never modified.
type Report struct {
	// ID uniquely identifies the batch run.
	ID string

	// Retained holds the unique documents in processing order.
	Retained []Document

	// Duplicates holds the discarded near-duplicates in processing order.
	Duplicates []Duplicate

	// Rejected holds documents that failed per-document checks.
	Rejected []Rejection

	// Outcomes holds one entry per input document in processing order.
	Outcomes []Outcome

	// Settings are the parameters the batch ran with.
	Settings DedupSettings

	// StartedAt and FinishedAt bound the batch run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// DuplicateCount returns the number of documents removed as duplicates.
func (r *Report) DuplicateCount() int {
	return len(r.Duplicates)
}

// RetainedIDs returns the IDs of retained documents in order.
func (r *Report) RetainedIDs() []string {
	ids := make([]string, len(r.Retained))
	for i := range r.Retained {
		ids[i] = r.Retained[i].ID
	}
	return ids
}

// RemovedIDs returns the IDs of documents discarded as duplicates.
func (r *Report) RemovedIDs() []string {
	ids := make([]string, len(r.Duplicates))
	for i, d := range r.Duplicates {
		ids[i] = d.DocumentID
	}
	return ids
}

// Duration returns how long the batch took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary returns the persisted summary form of the report.
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		ID:         r.ID,
		Processed:  len(r.Outcomes),
		Retained:   len(r.Retained),
		Duplicates: len(r.Duplicates),
		Rejected:   len(r.Rejected),
		Settings:   r.Settings,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// ReportSummary is the stored form of a report. It omits document text.
type ReportSummary struct {
	ID         string
	Processed  int
	Retained   int
	Duplicates int
	Rejected   int
	Settings   DedupSettings
	StartedAt  time.Time
	FinishedAt time.Time

	// Outcomes is populated when a single report is fetched.
	Outcomes []Outcome
}
