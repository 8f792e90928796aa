package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/neardup/internal/adapters/driving/tui"
)

// errNotTerminal is returned when the browser would draw to a pipe or file.
var errNotTerminal = errors.New("report browse needs an interactive terminal; use 'neardup report show' instead")

var reportBrowseCmd = &cobra.Command{
	Use:   "browse [report-id]",
	Short: "Browse saved reports interactively",
	Long: `Opens a terminal browser over the saved reports. Select a report to see
its outcomes, press f to cycle between all, duplicate, rejected and unique
documents, and / to find documents by ID.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReportBrowse,
}

func init() {
	reportCmd.AddCommand(reportBrowseCmd)
}

func runReportBrowse(cmd *cobra.Command, args []string) error {
	if f, ok := cmd.OutOrStdout().(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return errNotTerminal
	}

	store, err := openDataStore()
	if err != nil {
		return err
	}
	defer store.Close()

	app, err := tui.NewApp(&tui.Ports{Reports: store.ReportStore()})
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())
	if len(args) > 0 {
		app.WithReport(args[0])
	}
	return app.Run()
}
