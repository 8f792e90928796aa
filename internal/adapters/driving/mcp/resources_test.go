package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleSettingsResource(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleSettingsResource(context.Background(), readRequest("neardup://settings"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.Equal(t, "sha3-256", got["hash"])
	assert.Equal(t, float64(42), got["seed"])
}

func TestServer_handleReportsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no reports store", func(t *testing.T) {
		server, _ := newTestServer(t)
		server.ports.Reports = nil

		result, err := server.handleReportsResource(ctx, readRequest("neardup://reports"))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists saved reports", func(t *testing.T) {
		server, _ := newTestServer(t)
		_, output, err := server.handleDeduplicate(ctx, nil, DeduplicateInput{
			Documents: []DocumentInput{{ID: "a", Text: words("w", 30)}},
		})
		require.NoError(t, err)

		result, err := server.handleReportsResource(ctx, readRequest("neardup://reports"))
		require.NoError(t, err)

		var got []reportInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 1)
		assert.Equal(t, output.ReportID, got[0].ID)
		assert.Equal(t, 1, got[0].Processed)
		assert.Equal(t, 1, got[0].Retained)
	})
}

func TestServer_handleReportResource(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t)
	_, output, err := server.handleDeduplicate(ctx, nil, DeduplicateInput{
		Documents: []DocumentInput{
			{ID: "a", Text: words("w", 30)},
			{ID: "b", Text: words("w", 30)},
		},
	})
	require.NoError(t, err)

	t.Run("returns outcomes", func(t *testing.T) {
		result, err := server.handleReportResource(ctx, readRequest("neardup://reports/"+output.ReportID))
		require.NoError(t, err)

		var got reportInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got.Outcomes, 2)
		assert.Equal(t, "unique", got.Outcomes[0].State)
		assert.Equal(t, "duplicate", got.Outcomes[1].State)
		assert.Equal(t, "a", got.Outcomes[1].OriginalID)
	})

	t.Run("unknown report", func(t *testing.T) {
		_, err := server.handleReportResource(ctx, readRequest("neardup://reports/missing"))
		assert.Error(t, err)
	})

	t.Run("no reports store", func(t *testing.T) {
		bare := *server
		bare.ports = &Ports{Dedup: server.ports.Dedup}
		_, err := bare.handleReportResource(ctx, readRequest("neardup://reports/"+output.ReportID))
		assert.Error(t, err)
	})
}

func TestExtractReportID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"neardup://reports/abc", "abc"},
		{"neardup://reports/", ""},
		{"neardup://reports/abc/extra", ""},
		{"neardup://settings", ""},
		{"other://reports/abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractReportID(tt.uri))
		})
	}
}
