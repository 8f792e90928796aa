package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// DocumentInput is one document submitted for deduplication.
type DocumentInput struct {
	ID   string `json:"id" jsonschema:"unique document identifier"`
	Text string `json:"text" jsonschema:"the document text"`
	URI  string `json:"uri,omitempty" jsonschema:"where the document came from"`
}

// DeduplicateInput is the input schema for the deduplicate tool.
type DeduplicateInput struct {
	Documents []DocumentInput `json:"documents" jsonschema:"documents to classify, in order"`
}

// DeduplicateOutput is the output schema for the deduplicate tool.
type DeduplicateOutput struct {
	ReportID   string            `json:"report_id"`
	Retained   []string          `json:"retained"`
	Duplicates []DuplicateOutput `json:"duplicates"`
	Rejected   []RejectionOutput `json:"rejected"`
	Warning    string            `json:"warning,omitempty"`
}

// DuplicateOutput describes a document discarded as a near-duplicate.
type DuplicateOutput struct {
	DocumentID string  `json:"document_id"`
	OriginalID string  `json:"original_id"`
	Similarity float64 `json:"similarity"`
}

// RejectionOutput describes a document that could not be classified.
type RejectionOutput struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
}

// IndexStatsInput is the (empty) input schema for the index_stats tool.
type IndexStatsInput struct{}

// IndexStatsOutput is the output schema for the index_stats tool.
type IndexStatsOutput struct {
	Tags          int `json:"tags"`
	Postings      int `json:"postings"`
	Documents     int `json:"documents"`
	LargestBucket int `json:"largest_bucket"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "deduplicate",
		Description: "Classify documents as unique or near-duplicate. Unique documents join " +
			"the server's corpus and are compared against later calls.",
	}, s.handleDeduplicate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Summarise the candidate index built so far",
	}, s.handleIndexStats)
}

// handleDeduplicate handles the deduplicate tool invocation.
func (s *Server) handleDeduplicate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeduplicateInput,
) (*mcp.CallToolResult, DeduplicateOutput, error) {
	docs := make([]domain.Document, len(input.Documents))
	for i, d := range input.Documents {
		docs[i] = domain.Document{ID: d.ID, Text: d.Text, URI: d.URI}
	}

	report, err := s.ports.Dedup.Process(ctx, docs)
	// The documents are already in the corpus when only the save failed,
	// so the classification must still reach the client.
	var warning string
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrReportNotSaved) && report != nil:
		warning = err.Error()
	default:
		return nil, DeduplicateOutput{}, err
	}

	output := DeduplicateOutput{
		ReportID:   report.ID,
		Retained:   report.RetainedIDs(),
		Duplicates: make([]DuplicateOutput, len(report.Duplicates)),
		Rejected:   make([]RejectionOutput, len(report.Rejected)),
		Warning:    warning,
	}
	for i, d := range report.Duplicates {
		output.Duplicates[i] = DuplicateOutput{
			DocumentID: d.DocumentID,
			OriginalID: d.OriginalID,
			Similarity: d.Similarity,
		}
	}
	for i, r := range report.Rejected {
		output.Rejected[i] = RejectionOutput{DocumentID: r.DocumentID, Reason: r.Reason}
	}

	return nil, output, nil
}

// handleIndexStats handles the index_stats tool invocation.
func (s *Server) handleIndexStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ IndexStatsInput,
) (*mcp.CallToolResult, IndexStatsOutput, error) {
	stats := s.ports.Dedup.Index().Stats()
	return nil, IndexStatsOutput{
		Tags:          stats.Tags,
		Postings:      stats.Postings,
		Documents:     stats.Documents,
		LargestBucket: stats.LargestBucket,
	}, nil
}
