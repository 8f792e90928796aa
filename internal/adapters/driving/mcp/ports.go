package mcp

import (
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
	"github.com/custodia-labs/neardup/internal/core/ports/driving"
)

// Ports aggregates the services the MCP server needs.
type Ports struct {
	// Dedup classifies documents. Its index lives as long as the server.
	Dedup driving.DedupService

	// Reports serves saved reports. Optional.
	Reports driven.ReportStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Dedup == nil {
		return ErrMissingDedupService
	}
	return nil
}
