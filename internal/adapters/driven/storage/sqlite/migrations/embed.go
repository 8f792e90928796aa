// Package migrations carries the SQLite schema for documents and reports.
// Files are named NNN_name.up.sql / NNN_name.down.sql and applied in
// numeric order by the sqlite store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
