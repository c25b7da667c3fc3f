package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"

	"github.com/gocarina/gocsv"
)

// WriteTransactionsToCSV writes transactions to the canonical CSV layout.
// Amounts are fixed to two decimal places and dates render as ISO 8601.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	// Round on a copy; the caller's transactions stay untouched.
	rows := make([]models.Transaction, len(transactions))
	copy(rows, transactions)
	for i := range rows {
		rows[i].Amount = rows[i].Amount.Round(2)
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: "file", Value: csvFile},
		logging.Field{Key: "count", Value: len(transactions)},
	).Info("Wrote transactions to CSV file")

	return nil
}

// ReadTransactionsFromCSV reads a canonical CSV file back into transactions.
func ReadTransactionsFromCSV(csvFile string, delimiter rune, logger logging.Logger) ([]models.Transaction, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	csvReader := csv.NewReader(file)
	csvReader.Comma = delimiter

	var transactions []models.Transaction
	if err := gocsv.UnmarshalCSV(csvReader, &transactions); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: "file", Value: csvFile},
		logging.Field{Key: "count", Value: len(transactions)},
	).Info("Read transactions from CSV file")

	return transactions, nil
}
