package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/neardup/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage deduplication settings",
	Long: `View and change the stored deduplication settings.

Stored settings are used by dedup and watch unless overridden with flags.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change one stored setting.

Available keys:
  threshold     - Jaccard similarity cutoff between 0 and 1
  shingle-size  - tokens per shingle
  hashes        - number of MinHash permutations
  bits          - hash working width in bits (1-64)
  hash          - hash function name (see 'neardup hashers')
  seed          - permutation seed for reproducible runs`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetSeedCmd = &cobra.Command{
	Use:   "reset-seed",
	Short: "Remove the stored seed so permutations are random",
	Args:  cobra.NoArgs,
	RunE:  runSettingsResetSeed,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetSeedCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := getSettingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Printf("  Hash:         %s\n", settings.Hash)
	cmd.Printf("  Bits:         %d\n", settings.NBits)
	cmd.Printf("  Hashes:       %d\n", settings.NHashes)
	cmd.Printf("  Shingle size: %d\n", settings.ShingleSize)
	cmd.Printf("  Threshold:    %g\n", settings.JaccardThreshold)
	cmd.Printf("  Seed:         %s\n", settings.SeedString())
	cmd.Println()

	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

// settingSetters maps a CLI key to a parser that applies the value.
var settingSetters = map[string]func(svc driving.SettingsService, value string) error{
	"threshold": func(svc driving.SettingsService, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("threshold must be a number: %w", err)
		}
		return svc.SetThreshold(v)
	},
	"shingle-size": func(svc driving.SettingsService, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("shingle-size must be an integer: %w", err)
		}
		return svc.SetShingleSize(v)
	},
	"hashes": func(svc driving.SettingsService, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("hashes must be an integer: %w", err)
		}
		return svc.SetHashes(v)
	},
	"bits": func(svc driving.SettingsService, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bits must be an integer: %w", err)
		}
		return svc.SetBits(v)
	},
	"hash": func(svc driving.SettingsService, value string) error {
		return svc.SetHash(value)
	},
	"seed": func(svc driving.SettingsService, value string) error {
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("seed must be an integer: %w", err)
		}
		return svc.SetSeed(v)
	},
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	setter, ok := settingSetters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}

	svc, err := getSettingsService()
	if err != nil {
		return err
	}
	if err := setter(svc, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runSettingsResetSeed(cmd *cobra.Command, _ []string) error {
	svc, err := getSettingsService()
	if err != nil {
		return err
	}
	if err := svc.ClearSeed(); err != nil {
		return fmt.Errorf("failed to clear seed: %w", err)
	}

	cmd.Println("Seed cleared; permutations will be random.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return errors.New("settings wizard requires an interactive terminal")
	}

	svc, err := getSettingsService()
	if err != nil {
		return err
	}
	current, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings := *current

	cmd.Println("neardup Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(in)

	// Step 1: Hash function
	cmd.Println("Step 1: Select Hash Function")
	cmd.Println("----------------------------")
	names := hasherRegistry.Names()
	defaultIdx := 1
	for i, name := range names {
		if name == settings.Hash {
			defaultIdx = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, name)
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultIdx)
	settings.Hash = names[parseChoice(readLine(reader), len(names), defaultIdx)-1]
	cmd.Println()

	// Step 2: Sketch parameters
	cmd.Println("Step 2: Sketch Parameters")
	cmd.Println("-------------------------")
	settings.NHashes = promptInt(cmd, reader, "Number of permutations", settings.NHashes)
	settings.NBits = promptInt(cmd, reader, "Working width in bits", settings.NBits)
	settings.ShingleSize = promptInt(cmd, reader, "Tokens per shingle", settings.ShingleSize)
	cmd.Println()

	// Step 3: Decision
	cmd.Println("Step 3: Duplicate Threshold")
	cmd.Println("---------------------------")
	cmd.Printf("Jaccard threshold [%g]: ", settings.JaccardThreshold)
	if input := readLine(reader); input != "" {
		v, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return fmt.Errorf("threshold must be a number: %w", err)
		}
		settings.JaccardThreshold = v
	}
	cmd.Printf("Seed (empty for random) [%s]: ", settings.SeedString())
	if input := readLine(reader); input != "" {
		v, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return fmt.Errorf("seed must be an integer: %w", err)
		}
		settings = settings.WithSeed(v)
	}
	cmd.Println()

	if err := svc.Save(&settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Println("All settings are valid and saved.")
	return nil
}

// Helper functions.

func promptInt(cmd *cobra.Command, reader *bufio.Reader, label string, current int) int {
	cmd.Printf("%s [%d]: ", label, current)
	input := readLine(reader)
	if input == "" {
		return current
	}
	v, err := strconv.Atoi(input)
	if err != nil {
		return current
	}
	return v
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
