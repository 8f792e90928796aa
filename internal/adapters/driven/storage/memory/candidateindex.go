package memory

import (
	"sync"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// Ensure CandidateIndex implements the interface.
var _ driven.CandidateIndex = (*CandidateIndex)(nil)

// CandidateIndex is an in-memory implementation of driven.CandidateIndex.
// Buckets keep documents in insertion order and are never pruned.
type CandidateIndex struct {
	mu       sync.RWMutex
	buckets  map[domain.Tag][]string
	docs     map[string]struct{}
	postings int
}

// NewCandidateIndex creates an empty candidate index.
func NewCandidateIndex() *CandidateIndex {
	return &CandidateIndex{
		buckets: make(map[domain.Tag][]string),
		docs:    make(map[string]struct{}),
	}
}

// Insert appends docID to the bucket for tag.
func (i *CandidateIndex) Insert(tag domain.Tag, docID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.insertLocked(tag, docID)
}

// InsertFingerprint inserts every component of fp under a single lock, so
// readers never observe a partially indexed document.
func (i *CandidateIndex) InsertFingerprint(fp domain.Fingerprint, docID string) {
	if len(fp) == 0 {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, tag := range fp {
		i.insertLocked(tag, docID)
	}
}

func (i *CandidateIndex) insertLocked(tag domain.Tag, docID string) {
	i.buckets[tag] = append(i.buckets[tag], docID)
	i.docs[docID] = struct{}{}
	i.postings++
}

// Lookup returns a copy of the bucket for tag.
func (i *CandidateIndex) Lookup(tag domain.Tag) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	bucket := i.buckets[tag]
	out := make([]string, len(bucket))
	copy(out, bucket)
	return out
}

// Snapshot returns a deep copy of all buckets.
func (i *CandidateIndex) Snapshot() map[domain.Tag][]string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make(map[domain.Tag][]string, len(i.buckets))
	for tag, bucket := range i.buckets {
		ids := make([]string, len(bucket))
		copy(ids, bucket)
		out[tag] = ids
	}
	return out
}

// Stats returns summary counts for the index.
func (i *CandidateIndex) Stats() domain.IndexStats {
	i.mu.RLock()
	defer i.mu.RUnlock()
	largest := 0
	for _, bucket := range i.buckets {
		if len(bucket) > largest {
			largest = len(bucket)
		}
	}
	return domain.IndexStats{
		Tags:          len(i.buckets),
		Postings:      i.postings,
		Documents:     len(i.docs),
		LargestBucket: largest,
	}
}

// Len returns the number of distinct tags.
func (i *CandidateIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.buckets)
}
