package importer

import (
	"testing"
	"time"

	"ledgersort/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTx(date, description, amount, source string) models.Transaction {
	t, _ := time.Parse(models.DateLayoutISO, date)
	return models.Transaction{
		Date:        models.NewDate(t),
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Source:      source,
	}
}

func TestDeduplicateKeepsFirst(t *testing.T) {
	input := []models.Transaction{
		makeTx("2024-01-05", "coffee", "4.50", "first"),
		makeTx("2024-01-06", "groceries", "52.10", "first"),
		makeTx("2024-01-05", "coffee", "4.50", "second"),
		makeTx("2024-01-05", "coffee", "4.60", "second"),
	}

	unique, removed := Deduplicate(input)
	assert.Equal(t, 1, removed)
	require.Len(t, unique, 3)

	// First occurrence survives, order preserved.
	assert.Equal(t, "first", unique[0].Source)
	assert.Equal(t, "groceries", unique[1].Description)
	// Same date and description but a different amount is not a duplicate.
	assert.True(t, decimal.RequireFromString("4.60").Equal(unique[2].Amount))
}

func TestDeduplicateIdempotent(t *testing.T) {
	input := []models.Transaction{
		makeTx("2024-01-05", "coffee", "4.50", "a"),
		makeTx("2024-01-05", "coffee", "4.50", "a"),
	}

	once, removed := Deduplicate(input)
	assert.Equal(t, 1, removed)

	twice, removed := Deduplicate(once)
	assert.Equal(t, 0, removed)
	assert.Equal(t, once, twice)
}

func TestDeduplicateEmpty(t *testing.T) {
	unique, removed := Deduplicate(nil)
	assert.Equal(t, 0, removed)
	assert.Empty(t, unique)
}
