package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

var versionFull bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the neardup build and its default parameters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("neardup %s\n", version)
		if !versionFull {
			return
		}

		defaults := domain.DefaultDedupSettings()
		cmd.Printf("go:        %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("hashers:   %s (default %s)\n", strings.Join(hasherRegistry.Names(), ", "), defaults.Hash)
		cmd.Printf("defaults:  n_bits=%d n_hashes=%d shingle_size=%d jaccard_threshold=%.2f\n",
			defaults.NBits, defaults.NHashes, defaults.ShingleSize, defaults.JaccardThreshold)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "print runtime details and default settings")
	rootCmd.AddCommand(versionCmd)
}
