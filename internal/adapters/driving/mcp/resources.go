package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

const uriScheme = "neardup://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Deduplication parameters the server runs with",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "reports",
		Name:        "reports",
		Description: "Saved deduplication reports, most recent first",
		MIMEType:    "application/json",
	}, s.handleReportsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "reports/{reportId}",
		Name:        "report",
		Description: "Per-document outcomes of a saved report",
		MIMEType:    "application/json",
	}, s.handleReportResource)
}

// reportInfo is the JSON form of a report summary.
type reportInfo struct {
	ID         string               `json:"id"`
	Processed  int                  `json:"processed"`
	Retained   int                  `json:"retained"`
	Duplicates int                  `json:"duplicates"`
	Rejected   int                  `json:"rejected"`
	Settings   domain.DedupSettings `json:"settings"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Outcomes   []outcomeInfo        `json:"outcomes,omitempty"`
}

type outcomeInfo struct {
	DocumentID string  `json:"document_id"`
	State      string  `json:"state"`
	OriginalID string  `json:"original_id,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

func newReportInfo(summary *domain.ReportSummary) reportInfo {
	info := reportInfo{
		ID:         summary.ID,
		Processed:  summary.Processed,
		Retained:   summary.Retained,
		Duplicates: summary.Duplicates,
		Rejected:   summary.Rejected,
		Settings:   summary.Settings,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
	}
	for _, o := range summary.Outcomes {
		info.Outcomes = append(info.Outcomes, outcomeInfo{
			DocumentID: o.DocumentID,
			State:      o.State.String(),
			OriginalID: o.OriginalID,
			Similarity: o.Similarity,
			Reason:     o.Reason,
		})
	}
	return info
}

// handleSettingsResource returns the active settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Dedup.Settings())
}

// handleReportsResource returns summaries of all saved reports.
func (s *Server) handleReportsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := []reportInfo{}
	if s.ports.Reports != nil {
		summaries, err := s.ports.Reports.ListReports(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing reports: %w", err)
		}
		for i := range summaries {
			infos = append(infos, newReportInfo(&summaries[i]))
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleReportResource returns one saved report with its outcomes.
func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Reports == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	reportID := extractReportID(req.Params.URI)
	if reportID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	summary, err := s.ports.Reports.GetReport(ctx, reportID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}

	return jsonResource(req.Params.URI, newReportInfo(summary))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractReportID extracts the report ID from a URI like neardup://reports/{reportId}.
func extractReportID(uri string) string {
	const prefix = uriScheme + "reports/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
