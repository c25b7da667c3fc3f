// Package importcmd handles the import command: parse one or more export
// files, merge them into a deduplicated session, and write the canonical CSV.
package importcmd

import (
	"fmt"
	"time"

	"ledgersort/cmd/common"
	"ledgersort/cmd/root"
	"ledgersort/internal/importer"
	"ledgersort/internal/logging"
	"ledgersort/internal/models"

	"github.com/spf13/cobra"
)

var (
	withCategories bool
	fromFlag       string
	toFlag         string
	sourceFlag     string
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import bank export files into a canonical transaction CSV",
	Long: `Import one or more CSV or XML bank exports. Column roles, encodings and
delimiters are detected per file; overlapping exports are deduplicated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: importFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&withCategories, "categorize", "c", false, "Assign categories during import")
	Cmd.Flags().StringVar(&fromFlag, "from", "", "Only keep transactions on or after this date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&toFlag, "to", "", "Only keep transactions on or before this date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&sourceFlag, "source", "", "Only keep transactions from this source")
}

func importFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	logger := root.Log

	session, err := common.NewSession(cfg, logger)
	if err != nil {
		return err
	}

	for _, file := range args {
		if _, err := session.ImportFile(file); err != nil {
			return fmt.Errorf("importing %s: %w", file, err)
		}
	}

	transactions := session.Transactions()
	if fromFlag != "" || toFlag != "" || sourceFlag != "" {
		opts := importer.FilterOptions{Source: sourceFlag}
		if opts.From, err = parseDateFlag(fromFlag); err != nil {
			return err
		}
		if opts.To, err = parseDateFlag(toFlag); err != nil {
			return err
		}
		transactions = session.Filter(opts)
	}

	if withCategories {
		cat, cleanup := common.NewCategorizer(cmd.Context(), cfg, logger)
		defer cleanup()
		cat.Apply(cmd.Context(), transactions)
	}

	summary := session.Summarize()
	logger.WithFields(
		logging.Field{Key: "count", Value: summary.Count},
		logging.Field{Key: "income", Value: summary.Income.StringFixed(2)},
		logging.Field{Key: "expenses", Value: summary.Expenses.StringFixed(2)},
		logging.Field{Key: "net", Value: summary.Net.StringFixed(2)},
	).Info("Import session summary")

	output := root.Output
	if output == "" {
		output = "transactions.csv"
	}
	return importer.WriteTransactionsToCSV(transactions, output, common.Delimiter(cfg), logger)
}

func parseDateFlag(value string) (models.Date, error) {
	if value == "" {
		return models.Date{}, nil
	}
	t, err := time.Parse(models.DateLayoutISO, value)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return models.NewDate(t), nil
}
