// Package sqlite stores neardup documents and deduplication reports in a
// single SQLite database, by default ~/.neardup/data/neardup.db.
//
// The driver is modernc.org/sqlite, so no cgo toolchain is needed. The
// connection runs in WAL mode with foreign keys enforced, so every outcome
// row must belong to a saved report.
//
// The schema lives in the migrations package and is applied on Open.
package sqlite
