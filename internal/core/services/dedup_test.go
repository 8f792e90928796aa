package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/neardup/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
	"github.com/custodia-labs/neardup/internal/hashers"
	"github.com/custodia-labs/neardup/internal/minhash"
	"github.com/custodia-labs/neardup/internal/shingle"
)

const foxText = "the quick brown fox jumps over"

func testSettings(mutate func(*domain.DedupSettings)) domain.DedupSettings {
	settings := domain.DefaultDedupSettings().WithSeed(42)
	if mutate != nil {
		mutate(&settings)
	}
	return settings
}

func newTestDedupService(t *testing.T, mutate func(*domain.DedupSettings), opts ...DedupOption) *DedupService {
	t.Helper()
	service, err := NewDedupService(testSettings(mutate), hashers.NewSHA3(), memory.NewCandidateIndex(), opts...)
	require.NoError(t, err)
	return service
}

// words returns n distinct tokens with the given prefix.
func words(prefix string, n int) string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(tokens, " ")
}

// emptyDigestHasher returns digests that cannot be reduced.
type emptyDigestHasher struct{}

func (emptyDigestHasher) Name() string { return "empty" }
func (emptyDigestHasher) Size() int { return 0 }
func (emptyDigestHasher) Sum([]byte) []byte { return nil }

// cancellingHasher cancels its context on first use.
type cancellingHasher struct {
	driven.Hasher
	cancel context.CancelFunc
}

func (h *cancellingHasher) Name() string { return "cancelling" }
func (h *cancellingHasher) Sum(data []byte) []byte {
	h.cancel()
	return h.Hasher.Sum(data)
}

// failingReportStore fails every save.
type failingReportStore struct {
	*memory.ReportStore
}

func (failingReportStore) SaveReport(context.Context, *domain.Report) error {
	return errors.New("disk full")
}

func TestNewDedupService_Success(t *testing.T) {
	service := newTestDedupService(t, nil)

	assert.Equal(t, testSettings(nil), service.Settings())
	assert.Equal(t, 0, service.Index().Len())
}

func TestNewDedupService_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.DedupSettings)
	}{
		{"zero bits", func(s *domain.DedupSettings) { s.NBits = 0 }},
		{"too many bits", func(s *domain.DedupSettings) { s.NBits = 65 }},
		{"zero hashes", func(s *domain.DedupSettings) { s.NHashes = 0 }},
		{"negative threshold", func(s *domain.DedupSettings) { s.JaccardThreshold = -0.1 }},
		{"threshold above one", func(s *domain.DedupSettings) { s.JaccardThreshold = 1.1 }},
		{"zero shingle size", func(s *domain.DedupSettings) { s.ShingleSize = 0 }},
		{"empty hash", func(s *domain.DedupSettings) { s.Hash = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewDedupService(testSettings(tt.mutate), hashers.NewSHA3(), memory.NewCandidateIndex())
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Nil(t, service)
		})
	}
}

func TestNewDedupService_CollaboratorErrors(t *testing.T) {
	settings := testSettings(nil)

	_, err := NewDedupService(settings, nil, memory.NewCandidateIndex())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = NewDedupService(settings, hashers.NewSHA256(), memory.NewCandidateIndex())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = NewDedupService(settings, hashers.NewSHA3(), nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestDedupService_IdenticalPair(t *testing.T) {
	for _, nHashes := range []int{1, 4, 128} {
		t.Run(fmt.Sprintf("n_hashes=%d", nHashes), func(t *testing.T) {
			service := newTestDedupService(t, func(s *domain.DedupSettings) {
				s.ShingleSize = 3
				s.NHashes = nHashes
				s.JaccardThreshold = 0.8
			})

			report, err := service.ProcessMap(context.Background(), map[string]string{
				"A": foxText,
				"B": foxText,
			})

			require.NoError(t, err)
			assert.Equal(t, []string{"A"}, report.RetainedIDs())
			assert.Equal(t, 1, report.DuplicateCount())
			assert.Equal(t, []string{"B"}, report.RemovedIDs())

			dup := report.Duplicates[0]
			assert.Equal(t, "A", dup.OriginalID)
			assert.InDelta(t, 1.0, dup.Similarity, 1e-9)
			assert.InDelta(t, 1.0, dup.Estimate, 1e-9)
			assert.Equal(t, 0, dup.Tag.Index)
		})
	}
}

func TestDedupService_IdenticalPair_ThresholdOne(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) {
		s.ShingleSize = 3
		s.JaccardThreshold = 1.0
	})

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "first", Text: foxText},
		{ID: "second", Text: foxText},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, report.RetainedIDs())
	assert.Equal(t, []string{"second"}, report.RemovedIDs())
}

func TestDedupService_ProcessOrderDecidesOriginal(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "B", Text: foxText},
		{ID: "A", Text: foxText},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, report.RetainedIDs())
	assert.Equal(t, "B", report.Duplicates[0].OriginalID)
}

func TestDedupService_ShortDocumentRejected(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 5 })

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "short", Text: "only five tokens in here"},
		{ID: "long", Text: words("w", 12)},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"long"}, report.RetainedIDs())
	assert.Zero(t, report.DuplicateCount())
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "short", report.Rejected[0].DocumentID)
	assert.Equal(t, domain.ReasonInsufficientContent, report.Rejected[0].Reason)
	assert.ErrorIs(t, report.Rejected[0].Err, domain.ErrInsufficientContent)

	// A rejected document never reaches the index.
	assert.Equal(t, 1, service.Index().Stats().Documents)
}

func TestDedupService_ShortDocumentsNeverMatchEachOther(t *testing.T) {
	service := newTestDedupService(t, nil)

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "a", Text: "hi"},
		{ID: "b", Text: "hello"},
		{ID: "c", Text: ""},
	})

	require.NoError(t, err)
	assert.Empty(t, report.Retained)
	assert.Zero(t, report.DuplicateCount())
	assert.Len(t, report.Rejected, 3)
	assert.Equal(t, 0, service.Index().Len())
}

func TestDedupService_InvalidEncodingRejected(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 2 })

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "bad", Text: "valid words then \xff\xfe garbage"},
	})

	require.NoError(t, err)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, domain.ReasonInvalidEncoding, report.Rejected[0].Reason)
	assert.ErrorIs(t, report.Rejected[0].Err, domain.ErrInvalidEncoding)
}

func TestDedupService_HashReductionRejected(t *testing.T) {
	settings := testSettings(func(s *domain.DedupSettings) {
		s.ShingleSize = 2
		s.Hash = "empty"
	})
	service, err := NewDedupService(settings, emptyDigestHasher{}, memory.NewCandidateIndex())
	require.NoError(t, err)

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "doc", Text: foxText},
	})

	require.NoError(t, err)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, domain.ReasonHashReduction, report.Rejected[0].Reason)
	assert.ErrorIs(t, report.Rejected[0].Err, domain.ErrHashReduction)
	assert.Empty(t, report.Retained)
}

func TestDedupService_InvalidIDsRejected(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 2 })
	ctx := context.Background()

	first, err := service.Process(ctx, []domain.Document{
		{ID: "", Text: words("a", 8)},
		{ID: "x", Text: words("b", 8)},
		{ID: "x", Text: words("c", 8)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, first.RetainedIDs())
	require.Len(t, first.Rejected, 2)
	for _, rejection := range first.Rejected {
		assert.Equal(t, domain.ReasonInvalidInput, rejection.Reason)
		assert.ErrorIs(t, rejection.Err, domain.ErrInvalidInput)
	}

	second, err := service.Process(ctx, []domain.Document{{ID: "x", Text: words("d", 8)}})
	require.NoError(t, err)
	assert.Empty(t, second.Retained)
	require.Len(t, second.Rejected, 1)
	assert.Contains(t, second.Rejected[0].Err.Error(), "already ingested")
}

func TestDedupService_RejectedIDCanBeResubmitted(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })
	ctx := context.Background()

	first, err := service.Process(ctx, []domain.Document{{ID: "doc", Text: "too short"}})
	require.NoError(t, err)
	assert.Len(t, first.Rejected, 1)

	second, err := service.Process(ctx, []domain.Document{{ID: "doc", Text: foxText}})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, second.RetainedIDs())
}

func TestDedupService_NearDuplicate(t *testing.T) {
	base := words("w", 20)
	// Only the first shingle contains the first token.
	edited := "changed" + strings.TrimPrefix(base, "w0")

	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "original", Text: base},
		{ID: "edited", Text: edited},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"original"}, report.RetainedIDs())
	require.Len(t, report.Duplicates, 1)
	// 16 shared shingles out of 18 distinct.
	assert.InDelta(t, 16.0/18.0, report.Duplicates[0].Similarity, 1e-9)
}

func TestDedupService_BelowThresholdIsUnique(t *testing.T) {
	base := words("w", 20)
	// Replace every fourth token so most shingles differ.
	tokens := strings.Fields(base)
	for i := 0; i < len(tokens); i += 4 {
		tokens[i] = "x" + tokens[i]
	}

	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "a", Text: base},
		{ID: "b", Text: strings.Join(tokens, " ")},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, report.RetainedIDs())
	assert.Zero(t, report.DuplicateCount())
}

func TestDedupService_DisjointDocumentsAcrossSeeds(t *testing.T) {
	a := words("alpha", 40)
	b := words("beta", 40)

	setA, err := shingle.Extract(a, 5)
	require.NoError(t, err)
	setB, err := shingle.Extract(b, 5)
	require.NoError(t, err)
	require.Zero(t, minhash.Jaccard(shingle.Set(setA), shingle.Set(setB)))

	for seed := int64(0); seed < 50; seed++ {
		service := newTestDedupService(t, func(s *domain.DedupSettings) {
			s.Seed = &seed
			s.NHashes = 128
		})

		report, err := service.Process(context.Background(), []domain.Document{
			{ID: "a", Text: a},
			{ID: "b", Text: b},
		})

		require.NoError(t, err)
		assert.Zero(t, report.DuplicateCount(), "seed %d", seed)
		assert.Len(t, report.Retained, 2, "seed %d", seed)
	}
}

func TestDedupService_Idempotent(t *testing.T) {
	base := words("w", 30)
	docs := []domain.Document{
		{ID: "a", Text: base},
		{ID: "b", Text: base},
		{ID: "c", Text: "head" + strings.TrimPrefix(base, "w0")},
		{ID: "d", Text: words("other", 30)},
		{ID: "e", Text: "short"},
	}

	first := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })
	report, err := first.Process(context.Background(), docs)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "d"}, report.RetainedIDs())

	fresh := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })
	again, err := fresh.Process(context.Background(), report.Retained)
	require.NoError(t, err)

	assert.Zero(t, again.DuplicateCount())
	assert.Equal(t, report.RetainedIDs(), again.RetainedIDs())
}

func TestDedupService_PrefixSimilarityOrdering(t *testing.T) {
	a := words("t", 30)
	tokens := strings.Fields(a)
	b := strings.Join(tokens[:24], " ")
	c := strings.Join(tokens[:12], " ")

	shingles := func(text string) map[string]struct{} {
		s, err := shingle.Extract(text, 3)
		require.NoError(t, err)
		return shingle.Set(s)
	}

	ab := minhash.Jaccard(shingles(a), shingles(b))
	ac := minhash.Jaccard(shingles(a), shingles(c))
	assert.GreaterOrEqual(t, ab, ac)

	service := newTestDedupService(t, func(s *domain.DedupSettings) {
		s.ShingleSize = 3
		s.JaccardThreshold = 0.7
	})
	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "A", Text: a},
		{ID: "B", Text: b},
		{ID: "C", Text: c},
	})
	require.NoError(t, err)

	// B (21/27) is close enough to A; C (9/27) is not.
	assert.Equal(t, []string{"A", "C"}, report.RetainedIDs())
	assert.Equal(t, []string{"B"}, report.RemovedIDs())
}

func TestDedupService_CrossBatchGrowth(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })
	ctx := context.Background()

	first, err := service.Process(ctx, []domain.Document{{ID: "A", Text: foxText}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, first.RetainedIDs())

	second, err := service.Process(ctx, []domain.Document{
		{ID: "B", Text: foxText},
		{ID: "C", Text: words("c", 10)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, second.RetainedIDs())
	require.Len(t, second.Duplicates, 1)
	assert.Equal(t, "A", second.Duplicates[0].OriginalID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDedupService_DuplicatesNotIndexed(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) {
		s.ShingleSize = 3
		s.NHashes = 16
	})

	_, err := service.Process(context.Background(), []domain.Document{
		{ID: "A", Text: foxText},
		{ID: "B", Text: foxText},
	})
	require.NoError(t, err)

	stats := service.Index().Stats()
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 16, stats.Postings)
	for _, ids := range service.Index().Snapshot() {
		assert.Equal(t, []string{"A"}, ids)
	}
}

func TestDedupService_IndexIsReadOnly(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })

	_, err := service.Process(context.Background(), []domain.Document{{ID: "A", Text: foxText}})
	require.NoError(t, err)

	view := service.Index()
	_, writable := view.(driven.CandidateIndex)
	assert.False(t, writable)
	_, concrete := view.(*memory.CandidateIndex)
	assert.False(t, concrete)

	stats := view.Stats()
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, stats.Tags, view.Len())
	for tag, ids := range view.Snapshot() {
		assert.Equal(t, ids, view.Lookup(tag))
	}
}

func TestDedupService_OutcomesFollowInputOrder(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "A", Text: foxText},
		{ID: "short", Text: "a b"},
		{ID: "B", Text: foxText},
	})
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, domain.StateUnique, report.Outcomes[0].State)
	assert.Equal(t, domain.StateRejected, report.Outcomes[1].State)
	assert.Equal(t, domain.ReasonInsufficientContent, report.Outcomes[1].Reason)
	assert.Equal(t, domain.StateDuplicate, report.Outcomes[2].State)
	assert.Equal(t, "A", report.Outcomes[2].OriginalID)
	for _, outcome := range report.Outcomes {
		assert.True(t, outcome.State.IsTerminal())
	}
}

func TestDedupService_InputNotMutated(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 })
	docs := []domain.Document{
		{ID: "A", Text: foxText},
		{ID: "B", Text: foxText},
	}
	snapshot := append([]domain.Document(nil), docs...)

	report, err := service.Process(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, snapshot, docs)
	report.Retained[0].Text = "changed"
	assert.Equal(t, foxText, docs[0].Text)
}

func TestDedupService_CancelledBeforeStart(t *testing.T) {
	service := newTestDedupService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := service.Process(ctx, []domain.Document{{ID: "A", Text: words("w", 10)}})

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 0, service.Index().Len())
}

func TestDedupService_CancelledMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewReportStore()
	settings := testSettings(func(s *domain.DedupSettings) {
		s.ShingleSize = 3
		s.NHashes = 8
		s.Hash = "cancelling"
	})
	hasher := &cancellingHasher{Hasher: hashers.NewSHA3(), cancel: cancel}
	service, err := NewDedupService(settings, hasher, memory.NewCandidateIndex(), WithReportStore(store))
	require.NoError(t, err)

	report, err := service.Process(ctx, []domain.Document{
		{ID: "A", Text: foxText},
		{ID: "B", Text: words("b", 10)},
	})

	assert.ErrorIs(t, err, context.Canceled)
	// The document in flight completes fully; the next one never starts.
	assert.Equal(t, []string{"A"}, report.RetainedIDs())
	assert.Len(t, report.Outcomes, 1)
	assert.Equal(t, 8, service.Index().Stats().Postings)

	reports, err := store.ListReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestDedupService_SavesReport(t *testing.T) {
	store := memory.NewReportStore()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ticks := 0
	clock := func() time.Time {
		ticks++
		return start.Add(time.Duration(ticks) * time.Second)
	}

	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 },
		WithReportStore(store), WithClock(clock))

	report, err := service.Process(context.Background(), []domain.Document{
		{ID: "A", Text: foxText},
		{ID: "B", Text: foxText},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Second, report.Duration())

	saved, err := store.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Processed)
	assert.Equal(t, 1, saved.Duplicates)
	assert.Equal(t, report.Settings.Hash, saved.Settings.Hash)
}

func TestDedupService_SaveReportError(t *testing.T) {
	service := newTestDedupService(t, func(s *domain.DedupSettings) { s.ShingleSize = 3 },
		WithReportStore(failingReportStore{memory.NewReportStore()}))

	report, err := service.Process(context.Background(), []domain.Document{{ID: "A", Text: foxText}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReportNotSaved)
	require.NotNil(t, report)
	assert.Equal(t, []string{"A"}, report.RetainedIDs())
}

func TestDedupService_EmptyBatch(t *testing.T) {
	service := newTestDedupService(t, nil)

	report, err := service.Process(context.Background(), nil)

	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Empty(t, report.Retained)
	assert.NotNil(t, report.Duplicates)
	assert.NotNil(t, report.Rejected)
}

func TestRejectionReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrap: %w", domain.ErrInsufficientContent), domain.ReasonInsufficientContent},
		{fmt.Errorf("wrap: %w", domain.ErrInvalidEncoding), domain.ReasonInvalidEncoding},
		{fmt.Errorf("wrap: %w", domain.ErrHashReduction), domain.ReasonHashReduction},
		{domain.ErrInvalidInput, domain.ReasonInvalidInput},
		{errors.New("other"), domain.ReasonInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, rejectionReason(tt.err))
		})
	}
}
