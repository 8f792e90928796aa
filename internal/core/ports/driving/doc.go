// Package driving holds the use-case interfaces that the CLI, the MCP
// server and the report browser call into: DedupService for batch
// deduplication and SettingsService for reading and changing the
// resolver parameters.
//
// Implementations live in internal/core/services.
package driving
