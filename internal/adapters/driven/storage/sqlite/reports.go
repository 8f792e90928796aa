package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// SaveReport stores a report summary and its outcomes in one transaction.
func (s *reportStore) SaveReport(ctx context.Context, report *domain.Report) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}

	settingsJSON, err := json.Marshal(report.Settings)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	summary := report.Summary()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (id, processed, retained, duplicates, rejected, settings, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			processed = excluded.processed,
			retained = excluded.retained,
			duplicates = excluded.duplicates,
			rejected = excluded.rejected,
			settings = excluded.settings,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, summary.ID, summary.Processed, summary.Retained, summary.Duplicates, summary.Rejected,
		string(settingsJSON), summary.StartedAt.UTC(), summary.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM report_outcomes WHERE report_id = ?", report.ID); err != nil {
		return fmt.Errorf("clearing outcomes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_outcomes (report_id, position, document_id, state, original_id, similarity, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, outcome := range report.Outcomes {
		if _, err := stmt.ExecContext(ctx, report.ID, i, outcome.DocumentID, outcome.State.String(),
			outcome.OriginalID, outcome.Similarity, outcome.Reason); err != nil {
			return fmt.Errorf("saving outcome %s: %w", outcome.DocumentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetReport retrieves a report summary with its outcomes.
func (s *reportStore) GetReport(ctx context.Context, id string) (*domain.ReportSummary, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, processed, retained, duplicates, rejected, settings, started_at, finished_at
		FROM reports WHERE id = ?
	`, id)

	summary, err := scanReport(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id, state, original_id, similarity, reason
		FROM report_outcomes WHERE report_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	summary.Outcomes = make([]domain.Outcome, 0, summary.Processed)
	for rows.Next() {
		var outcome domain.Outcome
		var state string
		if err := rows.Scan(&outcome.DocumentID, &state, &outcome.OriginalID,
			&outcome.Similarity, &outcome.Reason); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		outcome.State = domain.DocumentState(state)
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outcomes: %w", err)
	}

	return summary, nil
}

// ListReports returns report summaries, most recent first.
func (s *reportStore) ListReports(ctx context.Context) ([]domain.ReportSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, processed, retained, duplicates, rejected, settings, started_at, finished_at
		FROM reports
		ORDER BY started_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var summaries []domain.ReportSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		summary, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}

	return summaries, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanReport scans a single report summary.
func scanReport(row rowScanner) (*domain.ReportSummary, error) {
	var summary domain.ReportSummary
	var settingsJSON string

	if err := row.Scan(&summary.ID, &summary.Processed, &summary.Retained, &summary.Duplicates,
		&summary.Rejected, &settingsJSON, &summary.StartedAt, &summary.FinishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	if err := json.Unmarshal([]byte(settingsJSON), &summary.Settings); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	return &summary, nil
}
