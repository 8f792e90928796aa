package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect saved deduplication reports",
	Long: `Lists and shows reports saved with 'neardup dedup --save'.
Reports keep document IDs and outcomes, not document text.`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runReportList,
}

var reportShowCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Show a saved report (default most recent)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReportShow,
}

func init() {
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportList(cmd *cobra.Command, _ []string) error {
	store, err := openDataStore()
	if err != nil {
		return err
	}
	defer store.Close()

	reports, err := store.ReportStore().ListReports(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(reports) == 0 {
		cmd.Println("No reports saved. Run 'neardup dedup --save' to save one.")
		return nil
	}

	cmd.Printf("Found %d report(s):\n\n", len(reports))
	for _, r := range reports {
		cmd.Printf("  %s  %s\n", r.ID, r.StartedAt.Local().Format(time.DateTime))
		cmd.Printf("    processed %d, retained %d, duplicates %d, rejected %d\n",
			r.Processed, r.Retained, r.Duplicates, r.Rejected)
	}

	return nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	store, err := openDataStore()
	if err != nil {
		return err
	}
	defer store.Close()

	reports := store.ReportStore()
	ctx := cmd.Context()

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		list, err := reports.ListReports(ctx)
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}
		if len(list) == 0 {
			return errors.New("no reports saved")
		}
		id = list[0].ID
	}

	report, err := reports.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("report not found: %s", id)
		}
		return fmt.Errorf("failed to get report: %w", err)
	}

	cmd.Printf("Report: %s\n", report.ID)
	cmd.Printf("  Started:    %s\n", report.StartedAt.Local().Format(time.DateTime))
	cmd.Printf("  Duration:   %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	cmd.Printf("  Settings:   hash=%s bits=%d hashes=%d shingle-size=%d threshold=%g seed=%s\n",
		report.Settings.Hash, report.Settings.NBits, report.Settings.NHashes,
		report.Settings.ShingleSize, report.Settings.JaccardThreshold, report.Settings.SeedString())
	cmd.Printf("  Processed:  %d\n", report.Processed)
	cmd.Printf("  Retained:   %d\n", report.Retained)
	cmd.Printf("  Duplicates: %d\n", report.Duplicates)
	cmd.Printf("  Rejected:   %d\n", report.Rejected)

	if len(report.Outcomes) > 0 {
		cmd.Println()
		cmd.Println("Outcomes:")
		for _, o := range report.Outcomes {
			cmd.Printf("  %s\n", formatOutcome(o))
		}
	}

	return nil
}
