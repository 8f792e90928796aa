package tui

import "errors"

// ErrMissingReportStore is returned when the report store is not provided.
var ErrMissingReportStore = errors.New("tui: report store is required")
