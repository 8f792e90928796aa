package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/neardup/internal/connectors/filesystem"
	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/services"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Remove near-duplicates from a set of documents",
	Long: `Loads documents from a directory, a YAML manifest or a SQLite database,
processes them in order and reports which were kept, which were dropped as
near-duplicates of an earlier document and which could not be processed.

Stored settings apply unless overridden by flags for this run.`,
	Example: `  neardup dedup --dir ./corpus
  neardup dedup --manifest docs.yaml --threshold 0.9 --seed 42
  neardup dedup --dir ./corpus --output ./deduped --save`,
	Args: cobra.NoArgs,
	RunE: runDedup,
}

var (
	dedupSource   sourceFlags
	dedupSettings settingsFlags
	dedupJSON     bool
	dedupIndex    bool
	dedupSave     bool
	dedupOutput   string
)

func init() {
	dedupSource.register(dedupCmd)
	dedupSettings.register(dedupCmd)

	flags := dedupCmd.Flags()
	flags.BoolVar(&dedupJSON, "json", false, "print the report as JSON")
	flags.BoolVar(&dedupIndex, "show-index", false, "print candidate index statistics")
	flags.BoolVar(&dedupSave, "save", false, "save the report to the data store")
	flags.StringVarP(&dedupOutput, "output", "o", "", "write retained documents into this directory")

	rootCmd.AddCommand(dedupCmd)
}

func runDedup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := dedupSettings.resolve(cmd)
	if err != nil {
		return err
	}

	source, closeSource, err := dedupSource.open()
	if err != nil {
		return err
	}
	defer closeSource()

	docs, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}

	var opts []services.DedupOption
	if dedupSave {
		store, err := openDataStore()
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, services.WithReportStore(store.ReportStore()))
	}

	svc, err := buildDedupService(settings, opts...)
	if err != nil {
		return err
	}

	report, err := svc.Process(ctx, docs)
	// A failed save still leaves a complete report; show it before failing.
	var saveErr error
	if err != nil {
		if !errors.Is(err, domain.ErrReportNotSaved) || report == nil {
			return fmt.Errorf("deduplication failed: %w", err)
		}
		saveErr = err
	}

	if dedupOutput != "" {
		if err := filesystem.WriteDocuments(dedupOutput, report.Retained); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if dedupJSON {
		var stats *domain.IndexStats
		if dedupIndex {
			s := svc.Index().Stats()
			stats = &s
		}
		if err := writeReportJSON(cmd.OutOrStdout(), report, stats); err != nil {
			return err
		}
		return saveErr
	}

	printReport(cmd, report)
	if dedupIndex {
		printIndexStats(cmd, svc.Index().Stats())
	}
	if dedupOutput != "" {
		cmd.Printf("\nWrote %d documents to %s\n", len(report.Retained), dedupOutput)
	}
	if saveErr != nil {
		return saveErr
	}
	if dedupSave {
		cmd.Printf("\nReport saved: %s\n", report.ID)
	}

	return nil
}

// buildDedupService validates settings against the hasher registry and
// wires a resolver over a fresh in-memory candidate index.
func buildDedupService(settings domain.DedupSettings, opts ...services.DedupOption) (*services.DedupService, error) {
	if err := services.ValidateSettings(settings, hasherRegistry); err != nil {
		return nil, err
	}
	hasher, err := hasherRegistry.Build(settings.Hash)
	if err != nil {
		return nil, err
	}
	return services.NewDedupService(settings, hasher, memory.NewCandidateIndex(), opts...)
}
