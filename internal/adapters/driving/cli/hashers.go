package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

var hashersCmd = &cobra.Command{
	Use:   "hashers",
	Short: "List available hash functions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println("Available hash functions:")
		for _, name := range hasherRegistry.Names() {
			if name == domain.DefaultHash {
				cmd.Printf("  %s (default)\n", name)
				continue
			}
			cmd.Printf("  %s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(hashersCmd)
}
