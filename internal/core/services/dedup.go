package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
	"github.com/custodia-labs/neardup/internal/core/ports/driving"
	"github.com/custodia-labs/neardup/internal/logger"
	"github.com/custodia-labs/neardup/internal/minhash"
	"github.com/custodia-labs/neardup/internal/shingle"
)

// Ensure DedupService implements the interface.
var _ driving.DedupService = (*DedupService)(nil)

// DedupService is the duplicate resolver. Each document is shingled,
// fingerprinted, checked against the candidate index and either discarded
// as a near-duplicate or retained and indexed.
//
// Calls are serialized; the service owns the index it is given.
type DedupService struct {
	mu        sync.Mutex
	settings  domain.DedupSettings
	generator *minhash.Generator
	index     driven.CandidateIndex
	reports   driven.ReportStore
	now       func() time.Time

	// ingested holds every ID classified unique or duplicate so far.
	ingested map[string]struct{}

	// shingleSets and fingerprints cache indexed documents for exact confirmation.
	shingleSets  map[string]map[string]struct{}
	fingerprints map[string]domain.Fingerprint
}

// DedupOption configures a DedupService.
type DedupOption func(*DedupService)

// WithReportStore saves every completed report to store.
func WithReportStore(store driven.ReportStore) DedupOption {
	return func(s *DedupService) {
		s.reports = store
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) DedupOption {
	return func(s *DedupService) {
		s.now = now
	}
}

// NewDedupService creates a duplicate resolver.
// Settings are validated and the permutation bank is drawn here; any failure
// wraps domain.ErrConfiguration and no service is returned.
func NewDedupService(
	settings domain.DedupSettings,
	hasher driven.Hasher,
	index driven.CandidateIndex,
	opts ...DedupOption,
) (*DedupService, error) {
	if err := ValidateSettings(settings, nil); err != nil {
		return nil, err
	}
	if hasher == nil {
		return nil, fmt.Errorf("%w: hasher is required", domain.ErrConfiguration)
	}
	if hasher.Name() != settings.Hash {
		return nil, fmt.Errorf("%w: hasher %q does not match configured hash %q",
			domain.ErrConfiguration, hasher.Name(), settings.Hash)
	}
	if index == nil {
		return nil, fmt.Errorf("%w: candidate index is required", domain.ErrConfiguration)
	}

	bank, err := minhash.NewPermutationBank(settings.NBits, settings.NHashes, settings.Seed)
	if err != nil {
		return nil, err
	}
	generator, err := minhash.NewGenerator(bank, hasher)
	if err != nil {
		return nil, err
	}

	s := &DedupService{
		settings:     settings,
		generator:    generator,
		index:        index,
		now:          time.Now,
		ingested:     make(map[string]struct{}),
		shingleSets:  make(map[string]map[string]struct{}),
		fingerprints: make(map[string]domain.Fingerprint),
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Debugw("dedup service ready",
		"hash", settings.Hash,
		"n_bits", settings.NBits,
		"n_hashes", settings.NHashes,
		"shingle_size", settings.ShingleSize,
		"threshold", settings.JaccardThreshold,
		"seed", settings.SeedString(),
	)

	return s, nil
}

// Settings returns the parameters the service was built with.
func (s *DedupService) Settings() domain.DedupSettings {
	return s.settings
}

// Index exposes the candidate index read-only. The returned view cannot
// be converted back into a writable index.
func (s *DedupService) Index() driven.CandidateIndexReader {
	return indexView{index: s.index}
}

// indexView forwards the reader methods only.
type indexView struct {
	index driven.CandidateIndexReader
}

func (v indexView) Lookup(tag domain.Tag) []string { return v.index.Lookup(tag) }

func (v indexView) Snapshot() map[domain.Tag][]string { return v.index.Snapshot() }

func (v indexView) Stats() domain.IndexStats { return v.index.Stats() }

func (v indexView) Len() int { return v.index.Len() }

// ProcessMap classifies an ID to text mapping in ascending ID order.
func (s *DedupService) ProcessMap(ctx context.Context, docs map[string]string) (*domain.Report, error) {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ordered := make([]domain.Document, len(ids))
	for i, id := range ids {
		ordered[i] = domain.Document{ID: id, Text: docs[id]}
	}
	return s.Process(ctx, ordered)
}

// Process classifies documents in slice order.
// The first document of a near-duplicate group wins; later ones are reported
// as duplicates of it. Documents that cannot be classified are rejected and
// the batch continues. On cancellation the partial report is returned with
// ctx.Err() and is not saved.
func (s *DedupService) Process(ctx context.Context, docs []domain.Document) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := startProcessSpan(ctx, len(docs))
	defer span.End()

	report := &domain.Report{
		ID:         uuid.NewString(),
		Retained:   make([]domain.Document, 0, len(docs)),
		Duplicates: make([]domain.Duplicate, 0),
		Rejected:   make([]domain.Rejection, 0),
		Outcomes:   make([]domain.Outcome, 0, len(docs)),
		Settings:   s.settings,
		StartedAt:  s.now(),
	}

	logger.Section("Deduplicate")
	logger.Debug("processing %d documents (report %s)", len(docs), report.ID)

	seen := make(map[string]struct{}, len(docs))
	var runErr error
	for i := range docs {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		s.processDocument(ctx, docs[i], seen, report)
	}

	report.FinishedAt = s.now()
	setProcessSpanResult(span, report)
	recordBatch(ctx, report.Duration(), runErr != nil)

	logger.Infow("duplicates found",
		"count", report.DuplicateCount(),
		"retained", len(report.Retained),
		"rejected", len(report.Rejected),
		"report", report.ID,
	)

	if runErr != nil {
		logger.Warn("batch %s cancelled after %d of %d documents", report.ID, len(report.Outcomes), len(docs))
		return report, runErr
	}

	if s.reports != nil {
		if err := s.reports.SaveReport(ctx, report); err != nil {
			return report, fmt.Errorf("%w: %w", domain.ErrReportNotSaved, err)
		}
	}

	return report, nil
}

// processDocument drives one document through the state machine and records
// its terminal outcome in report.
func (s *DedupService) processDocument(
	ctx context.Context,
	doc domain.Document,
	seen map[string]struct{},
	report *domain.Report,
) {
	state := domain.StatePending

	if err := s.checkID(doc.ID, seen); err != nil {
		s.reject(ctx, report, doc.ID, state, err)
		return
	}
	seen[doc.ID] = struct{}{}

	shingles, err := shingle.Extract(doc.Text, s.settings.ShingleSize)
	if err != nil {
		s.reject(ctx, report, doc.ID, state, err)
		return
	}
	state = s.advance(doc.ID, domain.StateShinglesExtracted)

	fp, err := s.generator.Fingerprint(shingles)
	if err != nil {
		s.reject(ctx, report, doc.ID, state, err)
		return
	}
	state = s.advance(doc.ID, domain.StateFingerprintComputed)

	set := shingle.Set(shingles)
	match, compared := s.findDuplicate(fp, set)
	recordCandidates(ctx, compared)
	s.advance(doc.ID, domain.StateCandidatesChecked)

	s.ingested[doc.ID] = struct{}{}

	if match != nil {
		match.DocumentID = doc.ID
		report.Duplicates = append(report.Duplicates, *match)
		report.Outcomes = append(report.Outcomes, domain.Outcome{
			DocumentID: doc.ID,
			State:      domain.StateDuplicate,
			OriginalID: match.OriginalID,
			Similarity: match.Similarity,
		})
		recordOutcome(ctx, domain.StateDuplicate)
		logger.Debugw("classified",
			"id", doc.ID,
			"state", domain.StateDuplicate,
			"original", match.OriginalID,
			"similarity", match.Similarity,
			"tag", match.Tag.String(),
		)
		return
	}

	s.index.InsertFingerprint(fp, doc.ID)
	s.shingleSets[doc.ID] = set
	s.fingerprints[doc.ID] = fp

	report.Retained = append(report.Retained, doc)
	report.Outcomes = append(report.Outcomes, domain.Outcome{
		DocumentID: doc.ID,
		State:      domain.StateUnique,
	})
	recordOutcome(ctx, domain.StateUnique)
	logger.Debugw("classified", "id", doc.ID, "state", domain.StateUnique, "compared", compared)
}

// findDuplicate walks the buckets for every tag of fp and returns the first
// candidate whose exact similarity reaches the threshold, plus the number of
// distinct candidates compared.
func (s *DedupService) findDuplicate(fp domain.Fingerprint, set map[string]struct{}) (*domain.Duplicate, int) {
	compared := make(map[string]struct{})

	for _, tag := range fp {
		for _, candidate := range s.index.Lookup(tag) {
			if _, done := compared[candidate]; done {
				continue
			}
			compared[candidate] = struct{}{}

			candidateSet, ok := s.shingleSets[candidate]
			if !ok {
				// Entry not written by this service; nothing to confirm against.
				continue
			}

			similarity := minhash.Jaccard(set, candidateSet)
			if similarity < s.settings.JaccardThreshold {
				continue
			}

			estimate, err := minhash.EstimateSimilarity(fp, s.fingerprints[candidate])
			if err != nil {
				estimate = 0
			}
			return &domain.Duplicate{
				OriginalID: candidate,
				Similarity: similarity,
				Estimate:   estimate,
				Tag:        tag,
			}, len(compared)
		}
	}

	return nil, len(compared)
}

// checkID rejects empty IDs, IDs repeated within the batch and IDs already
// classified by an earlier batch.
func (s *DedupService) checkID(id string, seen map[string]struct{}) error {
	if id == "" {
		return fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	if _, ok := seen[id]; ok {
		return fmt.Errorf("%w: document %q repeated in batch", domain.ErrInvalidInput, id)
	}
	if _, ok := s.ingested[id]; ok {
		return fmt.Errorf("%w: document %q already ingested", domain.ErrInvalidInput, id)
	}
	return nil
}

func (s *DedupService) advance(id string, state domain.DocumentState) domain.DocumentState {
	logger.Debugw("state", "id", id, "state", state)
	return state
}

func (s *DedupService) reject(
	ctx context.Context,
	report *domain.Report,
	id string,
	reached domain.DocumentState,
	err error,
) {
	reason := rejectionReason(err)
	report.Rejected = append(report.Rejected, domain.Rejection{
		DocumentID: id,
		Reason:     reason,
		Err:        err,
	})
	report.Outcomes = append(report.Outcomes, domain.Outcome{
		DocumentID: id,
		State:      domain.StateRejected,
		Reason:     reason,
	})
	recordOutcome(ctx, domain.StateRejected)
	logger.Warnw("document rejected", "id", id, "reason", reason, "after", reached, "error", err)
}

// rejectionReason maps a per-document error to its stable reason code.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientContent):
		return domain.ReasonInsufficientContent
	case errors.Is(err, domain.ErrInvalidEncoding):
		return domain.ReasonInvalidEncoding
	case errors.Is(err, domain.ErrHashReduction):
		return domain.ReasonHashReduction
	default:
		return domain.ReasonInvalidInput
	}
}
