package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/connectors/filesystem"
	"github.com/custodia-labs/neardup/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Deduplicate a directory and keep checking new files",
	Long: `Processes every file under the directory as an initial batch, then watches
it and classifies each created or rewritten file as it appears.

A file is read once writes to it stop. New files are compared against
everything kept so far. Files that were already processed are reported as
rejected when rewritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var (
	watchSettings  settingsFlags
	watchExt       string
	watchNormalise bool
)

func init() {
	watchSettings.register(watchCmd)
	watchCmd.Flags().StringVar(&watchExt, "ext", "", "comma-separated file extensions to watch (e.g. txt,md)")
	watchCmd.Flags().BoolVar(&watchNormalise, "normalise", false, "extract text from HTML, Markdown, DOCX and EML files")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	settings, err := watchSettings.resolve(cmd)
	if err != nil {
		return err
	}
	svc, err := buildDedupService(settings)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := filesystem.New(dir, fileOptions(watchExt, watchNormalise)...)
	defer source.Close()

	// Watch before the initial load so files written in between are not missed.
	events, err := source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	docs, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	docs = absorbSettling(ctx, docs, events, 2*filesystem.DefaultSettleDelay)
	report, err := svc.Process(ctx, docs)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("deduplication failed: %w", err)
	}
	printReport(cmd, report)

	cmd.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", dir)
	for event := range events {
		report, err := svc.Process(ctx, []domain.Document{event.Document})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("deduplication failed: %w", err)
		}
		for _, outcome := range report.Outcomes {
			cmd.Printf("[%s] %s\n", event.Type, formatOutcome(outcome))
		}
	}

	cmd.Println("Stopped watching.")
	return nil
}

// absorbSettling folds events that arrive within quiet of each other into
// the initial batch. A file still being written while Load ran is then
// classified once, on its final text, instead of being read twice.
func absorbSettling(ctx context.Context, docs []domain.Document, events <-chan domain.DocumentEvent, quiet time.Duration) []domain.Document {
	byID := make(map[string]int, len(docs))
	for i, doc := range docs {
		byID[doc.ID] = i
	}

	timer := time.NewTimer(quiet)
	defer timer.Stop()
	changed := false
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return sortedIfChanged(docs, changed)
			}
			if i, seen := byID[event.Document.ID]; seen {
				docs[i] = event.Document
			} else {
				byID[event.Document.ID] = len(docs)
				docs = append(docs, event.Document)
				changed = true
			}
			timer.Reset(quiet)
		case <-timer.C:
			return sortedIfChanged(docs, changed)
		case <-ctx.Done():
			return sortedIfChanged(docs, changed)
		}
	}
}

func sortedIfChanged(docs []domain.Document, changed bool) []domain.Document {
	if changed {
		sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	}
	return docs
}
