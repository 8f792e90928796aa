package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

func TestNewCandidateIndex(t *testing.T) {
	idx := NewCandidateIndex()
	require.NotNil(t, idx)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, domain.IndexStats{}, idx.Stats())
}

func TestCandidateIndex_Lookup_Unknown(t *testing.T) {
	idx := NewCandidateIndex()

	ids := idx.Lookup(domain.Tag{Index: 0, Value: 42})
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestCandidateIndex_Insert_PreservesOrder(t *testing.T) {
	idx := NewCandidateIndex()
	tag := domain.Tag{Index: 3, Value: 7}

	idx.Insert(tag, "b")
	idx.Insert(tag, "a")
	idx.Insert(tag, "c")

	assert.Equal(t, []string{"b", "a", "c"}, idx.Lookup(tag))
}

func TestCandidateIndex_TagsWithDifferentIndexAreDistinct(t *testing.T) {
	idx := NewCandidateIndex()

	idx.Insert(domain.Tag{Index: 0, Value: 5}, "doc-1")
	idx.Insert(domain.Tag{Index: 1, Value: 5}, "doc-2")

	assert.Equal(t, []string{"doc-1"}, idx.Lookup(domain.Tag{Index: 0, Value: 5}))
	assert.Equal(t, []string{"doc-2"}, idx.Lookup(domain.Tag{Index: 1, Value: 5}))
	assert.Equal(t, 2, idx.Len())
}

func TestCandidateIndex_InsertFingerprint(t *testing.T) {
	idx := NewCandidateIndex()
	fp := domain.Fingerprint{{Index: 0, Value: 10}, {Index: 1, Value: 20}, {Index: 2, Value: 10}}

	idx.InsertFingerprint(fp, "doc-1")
	idx.InsertFingerprint(fp, "doc-2")

	for _, tag := range fp {
		assert.Equal(t, []string{"doc-1", "doc-2"}, idx.Lookup(tag))
	}

	stats := idx.Stats()
	assert.Equal(t, 3, stats.Tags)
	assert.Equal(t, 6, stats.Postings)
	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 2, stats.LargestBucket)
}

func TestCandidateIndex_InsertFingerprint_Empty(t *testing.T) {
	idx := NewCandidateIndex()

	idx.InsertFingerprint(nil, "doc-1")

	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Stats().Documents)
}

func TestCandidateIndex_LookupReturnsCopy(t *testing.T) {
	idx := NewCandidateIndex()
	tag := domain.Tag{Index: 0, Value: 1}
	idx.Insert(tag, "doc-1")

	ids := idx.Lookup(tag)
	ids[0] = "mutated"

	assert.Equal(t, []string{"doc-1"}, idx.Lookup(tag))
}

func TestCandidateIndex_SnapshotIsDeepCopy(t *testing.T) {
	idx := NewCandidateIndex()
	tag := domain.Tag{Index: 0, Value: 1}
	idx.Insert(tag, "doc-1")

	snap := idx.Snapshot()
	snap[tag][0] = "mutated"
	snap[domain.Tag{Index: 9, Value: 9}] = []string{"x"}

	assert.Equal(t, []string{"doc-1"}, idx.Lookup(tag))
	assert.Equal(t, 1, idx.Len())
}

func TestCandidateIndex_ConcurrentReadersDuringInsert(t *testing.T) {
	idx := NewCandidateIndex()
	fp := make(domain.Fingerprint, 16)
	for i := range fp {
		fp[i] = domain.Tag{Index: i, Value: uint64(i * 3)}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			idx.InsertFingerprint(fp, "doc")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			stats := idx.Stats()
			// Every fingerprint is inserted under one lock.
			assert.Zero(t, stats.Postings%len(fp))
		}
	}()
	wg.Wait()

	assert.Equal(t, 50*len(fp), idx.Stats().Postings)
}
