// Package messages defines Bubbletea message types for the report browser.
package messages

import (
	"github.com/custodia-labs/neardup/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewReports lists saved reports.
	ViewReports ViewType = iota
	// ViewOutcomes shows the per-document outcomes of one report.
	ViewOutcomes
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewReports:
		return "reports"
	case ViewOutcomes:
		return "outcomes"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ReportsLoaded carries the saved report summaries, most recent first.
type ReportsLoaded struct {
	Reports []domain.ReportSummary
	Err     error
}

// ReportLoaded carries one report with its outcomes.
type ReportLoaded struct {
	Report *domain.ReportSummary
	Err    error
}
