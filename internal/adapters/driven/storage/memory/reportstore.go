package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// Ensure ReportStore implements the interface.
var _ driven.ReportStore = (*ReportStore)(nil)

// ReportStore is an in-memory implementation of driven.ReportStore.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]domain.ReportSummary
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]domain.ReportSummary),
	}
}

// SaveReport stores or replaces a report summary with its outcomes.
func (s *ReportStore) SaveReport(_ context.Context, report *domain.Report) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}
	summary := report.Summary()
	summary.Outcomes = make([]domain.Outcome, len(report.Outcomes))
	copy(summary.Outcomes, report.Outcomes)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = summary
	return nil
}

// GetReport retrieves a report by ID.
func (s *ReportStore) GetReport(_ context.Context, id string) (*domain.ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	summary.Outcomes = append([]domain.Outcome(nil), summary.Outcomes...)
	return &summary, nil
}

// ListReports returns all report summaries, most recent first.
// Outcomes are omitted from listings.
func (s *ReportStore) ListReports(_ context.Context) ([]domain.ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ReportSummary, 0, len(s.reports))
	for _, summary := range s.reports {
		summary.Outcomes = nil
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result, nil
}
