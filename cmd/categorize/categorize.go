// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"

	"ledgersort/cmd/common"
	"ledgersort/cmd/root"
	"ledgersort/internal/importer"
	"ledgersort/internal/logging"
	"ledgersort/internal/models"

	"github.com/spf13/cobra"
)

var (
	input       string
	description string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Assign spending categories to transactions",
	Long: `Categorize transactions from a canonical CSV file using the configured
cascade: remote categorizer, locally trained classifier, then keyword rules.
With --description a single ad-hoc description is categorized instead.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Canonical CSV file to categorize")
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Categorize a single transaction description")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	logger := root.Log

	if input == "" && description == "" {
		return fmt.Errorf("either --input or --description is required")
	}

	cat, cleanup := common.NewCategorizer(cmd.Context(), cfg, logger)
	defer cleanup()

	if description != "" {
		decision := cat.Categorize(cmd.Context(), models.Transaction{Description: description})
		logger.WithFields(
			logging.Field{Key: "description", Value: description},
			logging.Field{Key: "category", Value: decision.Category},
			logging.Field{Key: "stage", Value: string(decision.Stage)},
		).Info("Categorized description")
		fmt.Printf("%s\n", decision.Category)
		return nil
	}

	transactions, err := importer.ReadTransactionsFromCSV(input, common.Delimiter(cfg), logger)
	if err != nil {
		return err
	}

	cat.Apply(cmd.Context(), transactions)

	output := root.Output
	if output == "" {
		output = input
	}
	return importer.WriteTransactionsToCSV(transactions, output, common.Delimiter(cfg), logger)
}
