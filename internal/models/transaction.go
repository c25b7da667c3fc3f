// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record produced by the import pipeline.
// The struct field order fixes the column order of the canonical CSV export.
//
// Sign convention is process-wide: positive amounts are inflows (income),
// negative amounts are outflows (expenses), after the source polarity flag
// has been applied during normalization.
//
// A Transaction is immutable after construction except for Category, which is
// assigned by the categorization cascade.
type Transaction struct {
	Date          Date            `csv:"date"`           // calendar date, ISO 8601 in exports
	Description   string          `csv:"description"`    // free text, may be empty but never meaningful as nil
	Amount        decimal.Decimal `csv:"amount"`         // signed decimal amount
	TransactionID string          `csv:"transaction_id"` // deterministic id derived from (date, description, amount)
	Source        string          `csv:"source"`         // provenance: source name (defaults to file stem)
	ImportDate    time.Time       `csv:"import_date"`    // provenance: when the file was imported
	FilePath      string          `csv:"file_path"`      // provenance: originating file
	Category      string          `csv:"category"`       // assigned post-hoc by the cascade, empty until then
}

// DedupKey returns the identity used by the deduplicator: transactions that
// agree on date, description, and amount are considered duplicates.
func (t *Transaction) DedupKey() string {
	return t.Date.String() + "|" + t.Description + "|" + t.Amount.String()
}

// IsIncome reports whether the transaction is an inflow under the canonical
// sign convention.
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction is an outflow under the canonical
// sign convention.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}
