package driving

import (
	"context"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// DedupService detects and discards near-duplicate documents.
// Index state persists across calls, so a corpus can grow over several batches.
type DedupService interface {
	// Process classifies documents in slice order and returns a new report.
	// The input slice is never modified. On context cancellation the partial
	// report is returned together with ctx.Err(). When the report store
	// fails, the complete report is returned with domain.ErrReportNotSaved.
	Process(ctx context.Context, docs []domain.Document) (*domain.Report, error)

	// ProcessMap classifies an ID to text mapping in ascending ID order.
	ProcessMap(ctx context.Context, docs map[string]string) (*domain.Report, error)

	// Index exposes the candidate index read-only.
	Index() driven.CandidateIndexReader

	// Settings returns the parameters the service was built with.
	Settings() domain.DedupSettings
}
