// Package cli provides the neardup command-line interface.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/adapters/driven/config/file"
	"github.com/custodia-labs/neardup/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
	"github.com/custodia-labs/neardup/internal/core/ports/driving"
	"github.com/custodia-labs/neardup/internal/core/services"
	"github.com/custodia-labs/neardup/internal/hashers"
	"github.com/custodia-labs/neardup/internal/logger"
	"github.com/custodia-labs/neardup/internal/normalisers"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
)

// Injected services. Nil values are built on demand from --config-dir;
// tests replace them directly.
var (
	hasherRegistry     driven.HasherRegistry     = hashers.DefaultRegistry()
	normaliserRegistry driven.NormaliserRegistry = normalisers.DefaultRegistry()
	settingsService    driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "neardup",
	Short: "Find and remove near-duplicate documents",
	Long: `neardup detects near-duplicate text documents with MinHash fingerprints.

Documents are split into word shingles, sketched with a bank of hash
permutations and checked against every document kept so far. A document
whose shingle set is at least as similar as the Jaccard threshold to an
earlier one is reported as a duplicate and dropped.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default ~/"+file.DefaultDirName+")")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveConfigDir returns --config-dir or the default directory.
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return file.DefaultDir()
}

// getSettingsService returns the injected settings service or builds one
// over the config file in the config directory.
func getSettingsService() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return services.NewSettingsService(store, hasherRegistry), nil
}

// openDataStore opens the report database under the config directory.
// The caller closes it.
func openDataStore() (*sqlite.Store, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening data store: %w", err)
	}
	return store, nil
}
