// Package tui provides an interactive terminal browser for saved
// deduplication reports.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// Ports aggregates the services the TUI reads from.
type Ports struct {
	// Reports lists and fetches saved reports.
	Reports driven.ReportStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Reports == nil {
		return ErrMissingReportStore
	}
	return nil
}
