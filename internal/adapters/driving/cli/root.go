// Package cli implements the cobra command tree driving the screening
// engine.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leadscreen-cli/internal/logger"
)

var version = "dev"

var (
	verbose   bool
	configDir string

	configStore *file.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "leadscreen",
	Short: "Screen lead lists for CPC violations, duplicates, and phone conflicts",
	Long: `leadscreen validates a lead list before delivery: it enforces the
contacts-per-company limit, detects duplicates against a previous
delivery and within the list itself, and flags shared phone numbers
claimed by different companies. Violations are annotated directly in
the lead table.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.leadscreen)")
}

// initApp prepares logging and configuration before any command runs.
func initApp(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return err
	}
	configStore = store
	return nil
}

// Execute runs the root command with the build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
