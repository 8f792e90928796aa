// Package mcp provides an MCP (Model Context Protocol) server adapter for neardup.
// It lets AI assistants deduplicate documents against a corpus that grows
// for as long as the server runs.
package mcp

import "errors"

// ErrMissingDedupService is returned when the dedup service is not provided.
var ErrMissingDedupService = errors.New("mcp: dedup service is required")
