package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/neardup/internal/adapters/driving/mcp"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
	"github.com/custodia-labs/neardup/internal/core/services"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes a 'deduplicate' tool. Documents kept by one call stay in
the corpus, so later calls are checked against everything seen so far.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  neardup mcp serve

  # HTTP mode, saving every report to the data store
  neardup mcp serve --port 8080 --save`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

var (
	mcpSettings settingsFlags
	mcpPort     int
	mcpSave     bool
)

func init() {
	mcpSettings.register(mcpServeCmd)
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().BoolVar(&mcpSave, "save", false, "save reports to the data store instead of memory")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	settings, err := mcpSettings.resolve(cmd)
	if err != nil {
		return err
	}

	var reports driven.ReportStore = memory.NewReportStore()
	if mcpSave {
		store, err := openDataStore()
		if err != nil {
			return err
		}
		defer store.Close()
		reports = store.ReportStore()
	}

	svc, err := buildDedupService(settings, services.WithReportStore(reports))
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Dedup: svc, Reports: reports})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(cmd.Context())
}
