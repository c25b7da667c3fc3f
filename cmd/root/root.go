// Package root contains the root command for the application
package root

import (
	"ledgersort/internal/config"
	"ledgersort/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg holds the loaded configuration, populated before any subcommand runs.
	Cfg *config.Config

	// Output is the shared output file flag.
	Output string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledgersort",
		Short: "Import bank and credit card exports and categorize the transactions.",
		Long: `ledgersort ingests CSV and XML exports from banks and credit cards,
normalizes them into one canonical transaction ledger, and assigns each
transaction a spending category.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ledgersort!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.WithError(err).Fatal("Failed to load configuration")
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
		},
	}
)

// Init initializes the root command and its persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&Output, "output", "o", "", "Output CSV file")
}
