package inference

import (
	"regexp"
	"testing"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/normalize"
	"ledgersort/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAmountPattern = regexp.MustCompile(`[$£€]?\s*\(?-?\d[\d,']*(\.\d+)?\)?(\s*(?i:cr|dr))?`)

func newTestInferencer() *Inferencer {
	n := normalize.New([]string{"01/02/2006", "02.01.2006"}, true, logging.NewMockLogger())
	return New(n, testAmountPattern, logging.NewMockLogger())
}

func textColumn(name string, values ...string) models.Column {
	col := models.Column{Name: name}
	for _, v := range values {
		col.Cells = append(col.Cells, models.TextCell(v))
	}
	return col
}

func numberColumn(name string, values ...string) models.Column {
	col := models.Column{Name: name}
	for _, v := range values {
		col.Cells = append(col.Cells, models.NumberCell(decimal.RequireFromString(v)))
	}
	return col
}

func TestInferByName(t *testing.T) {
	table := &models.RawTable{Columns: []models.Column{
		textColumn("Posting Date", "2024-01-05"),
		textColumn("Merchant Name", "WALMART"),
		textColumn("Debit Amount", "12.34"),
	}}

	roles, err := newTestInferencer().Infer(table)
	require.NoError(t, err)
	assert.Equal(t, "Posting Date", roles.Date)
	assert.Equal(t, "Merchant Name", roles.Description)
	assert.Equal(t, "Debit Amount", roles.Amount)
}

func TestInferByNameFirstMatchWins(t *testing.T) {
	// Two date-like names: the leftmost wins.
	table := &models.RawTable{Columns: []models.Column{
		textColumn("Posting Date", "2024-01-05"),
		textColumn("Booking Date", "2024-01-07"),
		textColumn("Payee", "coffee"),
		textColumn("Amount", "3.20"),
	}}

	roles, err := newTestInferencer().Infer(table)
	require.NoError(t, err)
	assert.Equal(t, "Posting Date", roles.Date)
	assert.Equal(t, "Payee", roles.Description)
	assert.Equal(t, "Amount", roles.Amount)
}

func TestInferByNameRolesScanIndependently(t *testing.T) {
	// Each role runs its own left-to-right scan, so the shared "transaction"
	// hint lets one column serve every role. Deliberate first-match behavior,
	// kept even though richer labels exist further right.
	table := &models.RawTable{Columns: []models.Column{
		textColumn("Transaction Date", "2024-01-05"),
		textColumn("Details", "coffee"),
		textColumn("Value", "3.20"),
	}}

	roles, err := newTestInferencer().Infer(table)
	require.NoError(t, err)
	assert.Equal(t, "Transaction Date", roles.Date)
	assert.Equal(t, "Transaction Date", roles.Description)
	assert.Equal(t, "Transaction Date", roles.Amount)
}

func TestInferByShape(t *testing.T) {
	// Anonymized headers force the value-shape fallback for every role. The
	// digit run in "WALMART STORE 1234" must not make col2 look like the
	// amount column.
	table := &models.RawTable{Columns: []models.Column{
		textColumn("col1", "2024-01-05", "2024-01-06"),
		textColumn("col2", "WALMART STORE 1234", "SHELL OIL"),
		textColumn("col3", "$12.34", "(7.50)"),
	}}

	roles, err := newTestInferencer().Infer(table)
	require.NoError(t, err)
	assert.Equal(t, "col1", roles.Date)
	assert.Equal(t, "col2", roles.Description)
	assert.Equal(t, "col3", roles.Amount)
}

func TestInferByShapeDigitRunInTextNotAmount(t *testing.T) {
	// A description column that is mostly digits ("STORE 1234") sits to the
	// left of the real amount column. Only whole-cell currency shapes count.
	table := &models.RawTable{Columns: []models.Column{
		textColumn("col1", "2024-01-05"),
		textColumn("col2", "WALMART STORE 1234"),
		textColumn("col3", "$12.34"),
	}}

	roles, err := newTestInferencer().Infer(table)
	require.NoError(t, err)
	assert.Equal(t, "col3", roles.Amount)
	assert.Equal(t, "col2", roles.Description)
}

func TestInferByShapeRequiresEverySampleAmountShaped(t *testing.T) {
	// col2 mixes a currency-shaped value with free text, so it stays a
	// description candidate and col3 wins the amount role.
	table := &models.RawTable{Columns: []models.Column{
		textColumn("col1", "2024-01-05", "2024-01-06"),
		textColumn("col2", "12.34", "pending"),
		textColumn("col3", "5.00", "120.00 CR"),
	}}

	roles, err := newTestInferencer().Infer(table)
	require.NoError(t, err)
	assert.Equal(t, "col3", roles.Amount)
	assert.Equal(t, "col2", roles.Description)
}

func TestInferByShapePrefersNumericColumn(t *testing.T) {
	table := &models.RawTable{Columns: []models.Column{
		textColumn("col1", "2024-01-05"),
		textColumn("col2", "coffee shop"),
		numberColumn("col3", "4.50"),
	}}

	roles, err := newTestInferencer().Infer(table)
	require.NoError(t, err)
	assert.Equal(t, "col3", roles.Amount)
	assert.Equal(t, "col2", roles.Description)
}

func TestInferUnresolvable(t *testing.T) {
	table := &models.RawTable{Columns: []models.Column{
		textColumn("col1", "alpha"),
		textColumn("col2", "beta"),
		textColumn("col3", "gamma"),
	}}

	_, err := newTestInferencer().Infer(table)
	require.Error(t, err)

	var unresolved *parsererror.UnresolvedColumnsError
	require.ErrorAs(t, err, &unresolved)
	assert.Contains(t, unresolved.Missing, "date")
	assert.Contains(t, unresolved.Missing, "amount")
	assert.Equal(t, []string{"col1", "col2", "col3"}, unresolved.Available)
}

func TestInferDateColumnNotClaimedAsAmount(t *testing.T) {
	// The column already claimed as date must not also win the amount
	// fallback, whatever its values look like.
	table := &models.RawTable{Columns: []models.Column{
		textColumn("col1", "2024-01-05"),
		textColumn("col2", "12.34"),
	}}

	_, err := newTestInferencer().Infer(table)
	require.Error(t, err)

	// col2 is claimed as amount, leaving no description column, so the
	// all-or-nothing rule rejects the table with only description missing.
	var unresolved *parsererror.UnresolvedColumnsError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"description"}, unresolved.Missing)
}
