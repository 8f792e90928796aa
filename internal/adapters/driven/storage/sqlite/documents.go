package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// SourceType identifies documents loaded from the database.
const SourceType = "sqlite"

// documentSource implements driven.DocumentSource.
type documentSource struct {
	store *Store
}

var _ driven.DocumentSource = (*documentSource)(nil)

// Type returns the source type.
func (s *documentSource) Type() string {
	return SourceType
}

// Load returns all documents ordered by position, then ID.
func (s *documentSource) Load(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, content, uri, metadata
		FROM documents
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var metadataJSON string
		if err := rows.Scan(&doc.ID, &doc.Text, &doc.URI, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if metadataJSON != "" && metadataJSON != jsonNull {
			if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata for %s: %w", doc.ID, err)
			}
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// Close is a no-op; the database is owned by the Store.
func (s *documentSource) Close() error {
	return nil
}

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// ImportDocuments upserts docs into the documents table. Positions continue
// after the current maximum so imported documents load after existing ones.
func (s *Store) ImportDocuments(ctx context.Context, docs []domain.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM documents").Scan(&next); err != nil {
		return fmt.Errorf("reading next position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, content, uri, position, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			uri = excluded.uri,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("%w: document at %d has no id", domain.ErrInvalidInput, i)
		}
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Text, doc.URI, next+i, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
