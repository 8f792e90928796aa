package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// printReport writes the human-readable batch summary.
func printReport(cmd *cobra.Command, report *domain.Report) {
	cmd.Printf("Processed %d documents in %s\n", len(report.Outcomes), report.Duration().Round(time.Millisecond))
	cmd.Printf("  Retained:   %d\n", len(report.Retained))
	cmd.Printf("  Duplicates: %d\n", len(report.Duplicates))
	cmd.Printf("  Rejected:   %d\n", len(report.Rejected))
	cmd.Println()

	cmd.Printf("duplicates found: %d\n", report.DuplicateCount())
	for _, d := range report.Duplicates {
		cmd.Printf("  %s -> %s (similarity %.3f)\n", d.DocumentID, d.OriginalID, d.Similarity)
	}

	if len(report.Rejected) > 0 {
		cmd.Printf("rejected: %d\n", len(report.Rejected))
		for _, r := range report.Rejected {
			cmd.Printf("  %s (%s)\n", r.DocumentID, r.Reason)
		}
	}
}

func printIndexStats(cmd *cobra.Command, stats domain.IndexStats) {
	cmd.Println()
	cmd.Println("Candidate Index")
	cmd.Printf("  Tags:           %d\n", stats.Tags)
	cmd.Printf("  Postings:       %d\n", stats.Postings)
	cmd.Printf("  Documents:      %d\n", stats.Documents)
	cmd.Printf("  Largest bucket: %d\n", stats.LargestBucket)
}

// formatOutcome renders one classification on a single line.
func formatOutcome(o domain.Outcome) string {
	switch o.State {
	case domain.StateDuplicate:
		return fmt.Sprintf("%s: duplicate of %s (similarity %.3f)", o.DocumentID, o.OriginalID, o.Similarity)
	case domain.StateRejected:
		return fmt.Sprintf("%s: rejected (%s)", o.DocumentID, o.Reason)
	default:
		return fmt.Sprintf("%s: %s", o.DocumentID, o.State)
	}
}

type reportJSON struct {
	ID         string               `json:"id"`
	Settings   domain.DedupSettings `json:"settings"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Retained   []string             `json:"retained"`
	Duplicates []duplicateJSON      `json:"duplicates"`
	Rejected   []rejectionJSON      `json:"rejected"`
	Index      *indexJSON           `json:"index,omitempty"`
}

type duplicateJSON struct {
	ID         string  `json:"id"`
	OriginalID string  `json:"original_id"`
	Similarity float64 `json:"similarity"`
	Estimate   float64 `json:"estimate"`
	Tag        string  `json:"tag"`
}

type rejectionJSON struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

type indexJSON struct {
	Tags          int `json:"tags"`
	Postings      int `json:"postings"`
	Documents     int `json:"documents"`
	LargestBucket int `json:"largest_bucket"`
}

func writeReportJSON(w io.Writer, report *domain.Report, stats *domain.IndexStats) error {
	out := reportJSON{
		ID:         report.ID,
		Settings:   report.Settings,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Retained:   report.RetainedIDs(),
		Duplicates: make([]duplicateJSON, 0, len(report.Duplicates)),
		Rejected:   make([]rejectionJSON, 0, len(report.Rejected)),
	}
	for _, d := range report.Duplicates {
		out.Duplicates = append(out.Duplicates, duplicateJSON{
			ID:         d.DocumentID,
			OriginalID: d.OriginalID,
			Similarity: d.Similarity,
			Estimate:   d.Estimate,
			Tag:        d.Tag.String(),
		})
	}
	for _, r := range report.Rejected {
		rej := rejectionJSON{ID: r.DocumentID, Reason: r.Reason}
		if r.Err != nil {
			rej.Error = r.Err.Error()
		}
		out.Rejected = append(out.Rejected, rej)
	}
	if stats != nil {
		out.Index = &indexJSON{
			Tags:          stats.Tags,
			Postings:      stats.Postings,
			Documents:     stats.Documents,
			LargestBucket: stats.LargestBucket,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
