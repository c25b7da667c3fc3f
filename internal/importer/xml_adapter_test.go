package importer

import (
	"testing"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<export>
  <transactions>
    <transaction>
      <date>2024-01-05</date>
      <description>WALMART STORE</description>
      <amount>-45.00</amount>
    </transaction>
    <transaction>
      <date>2024-01-06</date>
      <description>PAYROLL</description>
      <amount>2500.00 CR</amount>
    </transaction>
  </transactions>
</export>`

func TestXMLAdapterParse(t *testing.T) {
	path := writeTempFile(t, "export.xml", []byte(sampleXML))

	table, err := NewXMLAdapter(logging.NewMockLogger()).Parse(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "description", "amount"}, table.ColumnNames())
	assert.Equal(t, 2, table.RowCount())

	amount, ok := table.Column("amount")
	require.True(t, ok)

	// Plain decimal stays typed, the CR-suffixed value stays text for the
	// normalizer to interpret.
	assert.Equal(t, models.CellNumber, amount.Cells[0].Kind)
	assert.True(t, decimal.RequireFromString("-45.00").Equal(amount.Cells[0].Number))
	assert.Equal(t, models.CellText, amount.Cells[1].Kind)
	assert.Equal(t, "2500.00 CR", amount.Cells[1].Text)
}

func TestXMLAdapterNoTransactions(t *testing.T) {
	path := writeTempFile(t, "empty.xml", []byte(`<export><transactions/></export>`))

	_, err := NewXMLAdapter(logging.NewMockLogger()).Parse(path)
	require.Error(t, err)

	var extraction *parsererror.DataExtractionError
	assert.ErrorAs(t, err, &extraction)
}

func TestXMLAdapterMalformed(t *testing.T) {
	path := writeTempFile(t, "bad.xml", []byte(`<export><transactions>`))

	_, err := NewXMLAdapter(logging.NewMockLogger()).Parse(path)
	require.Error(t, err)

	var invalid *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &invalid)
}
