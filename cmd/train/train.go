// Package train handles training the local transaction classifier.
package train

import (
	"fmt"

	"ledgersort/cmd/common"
	"ledgersort/cmd/root"
	"ledgersort/internal/classifier"
	"ledgersort/internal/importer"
	"ledgersort/internal/logging"

	"github.com/spf13/cobra"
)

var (
	input     string
	modelPath string
)

// Cmd represents the train command
var Cmd = &cobra.Command{
	Use:   "train",
	Short: "Train the local classifier from categorized transactions",
	Long: `Train the local text classifier from a canonical CSV of already
categorized transactions and save the model for later categorize runs.`,
	RunE: trainFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Canonical CSV file with categorized transactions")
	Cmd.Flags().StringVarP(&modelPath, "model", "m", "", "Model file to write (defaults to the configured path)")
	if err := Cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}
}

func trainFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	logger := root.Log

	transactions, err := importer.ReadTransactionsFromCSV(input, common.Delimiter(cfg), logger)
	if err != nil {
		return err
	}

	var examples []classifier.Example
	for _, tx := range transactions {
		if tx.Category == "" {
			continue
		}
		examples = append(examples, classifier.Example{
			Text:  tx.Description,
			Label: tx.Category,
		})
	}

	model, err := classifier.Train(examples, cfg.Classifier.MinSamples, logger)
	if err != nil {
		return fmt.Errorf("training classifier: %w", err)
	}

	path := modelPath
	if path == "" {
		path = cfg.Classifier.ModelPath
	}
	if err := model.Save(path); err != nil {
		return fmt.Errorf("saving classifier model: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: "examples", Value: len(examples)},
		logging.Field{Key: "model", Value: path},
	).Info("Trained and saved classifier model")

	return nil
}
