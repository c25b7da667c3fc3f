package importer

import (
	"os"
	"path/filepath"
	"testing"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestCSVAdapterParse(t *testing.T) {
	data := "Date;Description;Amount\n" +
		"2024-01-05;WALMART STORE;-45.00\n" +
		"2024-01-06;SHELL OIL;-12.00\n"
	path := writeTempFile(t, "export.csv", []byte(data))

	table, err := NewCSVAdapter("utf-8", logging.NewMockLogger()).Parse(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount"}, table.ColumnNames())
	assert.Equal(t, 2, table.RowCount())

	desc, ok := table.Column("Description")
	require.True(t, ok)
	assert.Equal(t, "WALMART STORE", desc.Cells[0].Text)
}

func TestCSVAdapterBlankAndRaggedRows(t *testing.T) {
	data := "Date,,Amount\n" +
		"2024-01-05,coffee,4.50\n" +
		"2024-01-06,groceries\n"
	path := writeTempFile(t, "export.csv", []byte(data))

	table, err := NewCSVAdapter("utf-8", logging.NewMockLogger()).Parse(path)
	require.NoError(t, err)

	// A blank header cell gets a positional name.
	assert.Equal(t, []string{"Date", "column_2", "Amount"}, table.ColumnNames())

	// The short row is padded with an empty cell.
	amount, ok := table.Column("Amount")
	require.True(t, ok)
	require.Len(t, amount.Cells, 2)
	assert.Equal(t, models.CellEmpty, amount.Cells[1].Kind)
}

func TestCSVAdapterDecodesLegacyEncoding(t *testing.T) {
	// 0xE9 is é in windows-1252; the byte sequence is invalid UTF-8 so the
	// statistical guess already lands on windows-1252.
	data := append([]byte("Date,Description,Amount\n2024-01-05,caf"), 0xE9)
	data = append(data, []byte(",4.50\n")...)
	path := writeTempFile(t, "export.csv", data)

	table, err := NewCSVAdapter("windows-1252", logging.NewMockLogger()).Parse(path)
	require.NoError(t, err)

	desc, ok := table.Column("Description")
	require.True(t, ok)
	assert.Equal(t, "café", desc.Cells[0].Text)
}

func TestCSVAdapterEmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.csv", nil)

	_, err := NewCSVAdapter("utf-8", logging.NewMockLogger()).Parse(path)
	require.Error(t, err)

	var extraction *parsererror.DataExtractionError
	assert.ErrorAs(t, err, &extraction)
}

func TestCSVAdapterMissingFile(t *testing.T) {
	_, err := NewCSVAdapter("utf-8", logging.NewMockLogger()).Parse(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
