package driven

import (
	"context"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// ReportStore persists deduplication reports.
// Stored reports keep identifiers, outcomes and settings, never document text.
type ReportStore interface {
	// SaveReport stores a report and its per-document outcomes.
	SaveReport(ctx context.Context, report *domain.Report) error

	// GetReport retrieves a report summary with outcomes by ID.
	// Returns domain.ErrNotFound if the report does not exist.
	GetReport(ctx context.Context, id string) (*domain.ReportSummary, error)

	// ListReports returns report summaries, most recent first.
	ListReports(ctx context.Context) ([]domain.ReportSummary, error)
}
