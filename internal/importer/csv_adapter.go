// Package importer turns bank export files into canonical transactions. Each
// file format has an adapter that produces a RawTable; the builder then
// infers column roles, normalizes values, and assembles transactions, and the
// session accumulates results across files with deduplication.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/parsererror"
	"ledgersort/internal/sniff"
)

// CSVAdapter parses delimiter-separated text exports. Encoding and delimiter
// are detected per file from a leading sample, so exports from different
// banks need no per-bank configuration.
type CSVAdapter struct {
	defaultEncoding string
	logger          logging.Logger
}

// NewCSVAdapter creates a CSVAdapter. defaultEncoding is the fallback applied
// when detection is uncertain, e.g. "windows-1252".
func NewCSVAdapter(defaultEncoding string, logger logging.Logger) *CSVAdapter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CSVAdapter{
		defaultEncoding: defaultEncoding,
		logger:          logger,
	}
}

// Parse reads a CSV file into a RawTable. The first record is taken as the
// header row; blank header cells get positional names so every column stays
// addressable.
func (a *CSVAdapter) Parse(filePath string) (*models.RawTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	sample := make([]byte, sniff.SampleSize)
	n, err := file.Read(sample)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("error sampling CSV file: %w", err)
	}
	detected := sniff.Detect(sample[:n], a.defaultEncoding, a.logger)

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error rewinding CSV file: %w", err)
	}

	reader := csv.NewReader(sniff.DecodeReader(file, detected.Encoding))
	reader.Comma = detected.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.ParseError{
			Adapter: "csv",
			Field:   "file",
			Value:   filePath,
			Err:     err,
		}
	}
	if len(records) == 0 {
		return nil, &parsererror.DataExtractionError{
			FilePath: filePath,
			Field:    "rows",
			Reason:   "file is empty",
		}
	}

	table := tableFromRecords(records)

	a.logger.WithFields(
		logging.Field{Key: "file", Value: filePath},
		logging.Field{Key: "encoding", Value: detected.EncodingName},
		logging.Field{Key: "delimiter", Value: string(detected.Delimiter)},
		logging.Field{Key: "columns", Value: len(table.Columns)},
		logging.Field{Key: "rows", Value: table.RowCount()},
	).Info("Parsed CSV file")

	return table, nil
}

// tableFromRecords builds a columnar table from header plus data records.
// Ragged rows are padded with empty cells so all columns share a length.
func tableFromRecords(records [][]string) *models.RawTable {
	header := records[0]
	table := &models.RawTable{Columns: make([]models.Column, len(header))}

	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", j+1)
		}
		table.Columns[j].Name = name
		table.Columns[j].Cells = make([]models.Cell, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		for j := range table.Columns {
			if j < len(record) {
				table.Columns[j].Cells = append(table.Columns[j].Cells, models.TextCell(record[j]))
			} else {
				table.Columns[j].Cells = append(table.Columns[j].Cells, models.Cell{Kind: models.CellEmpty})
			}
		}
	}

	return table
}
