package importer

import (
	"path/filepath"
	"strings"
	"time"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Adapter parses one file format into a raw table.
type Adapter interface {
	Parse(filePath string) (*models.RawTable, error)
}

// ImportStats summarizes one file import within a session.
type ImportStats struct {
	BuildStats
	Duplicates int // rows dropped by session-wide deduplication
	Added      int // transactions actually added to the session
}

// FilterOptions selects a subset of the session's transactions. Zero-valued
// fields do not constrain.
type FilterOptions struct {
	From   models.Date
	To     models.Date
	Source string
}

// Summary aggregates the session's transactions.
type Summary struct {
	Count    int
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
	Earliest models.Date
	Latest   models.Date
	BySource map[string]int
}

// Session accumulates transactions across multiple file imports. Every import
// deduplicates against everything already in the session, so overlapping
// exports from the same bank merge cleanly.
type Session struct {
	builder      *Builder
	adapters     map[string]Adapter
	transactions []models.Transaction
	logger       logging.Logger
}

// NewSession creates a Session dispatching to the given adapters, keyed by
// lowercase file extension including the dot.
func NewSession(builder *Builder, adapters map[string]Adapter, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Session{
		builder:  builder,
		adapters: adapters,
		logger:   logger,
	}
}

// ImportFile parses one file, builds transactions, and merges them into the
// session. The source label is the file name without its extension.
func (s *Session) ImportFile(filePath string) (ImportStats, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	adapter, ok := s.adapters[ext]
	if !ok {
		return ImportStats{}, &parsererror.UnsupportedFormatError{
			FilePath:  filePath,
			Extension: ext,
		}
	}

	table, err := adapter.Parse(filePath)
	if err != nil {
		return ImportStats{}, err
	}

	source := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	built, buildStats, err := s.builder.Build(table, source, filePath, time.Now().UTC())
	if err != nil {
		return ImportStats{}, err
	}

	before := len(s.transactions)
	merged, duplicates := Deduplicate(append(s.transactions, built...))
	s.transactions = merged

	stats := ImportStats{
		BuildStats: buildStats,
		Duplicates: duplicates,
		Added:      len(merged) - before,
	}

	s.logger.WithFields(
		logging.Field{Key: "file", Value: filePath},
		logging.Field{Key: "added", Value: stats.Added},
		logging.Field{Key: "duplicates", Value: stats.Duplicates},
		logging.Field{Key: "total", Value: len(s.transactions)},
	).Info("Imported file into session")

	return stats, nil
}

// Transactions returns the session's accumulated transactions in import
// order. The caller may mutate the returned slice elements, e.g. to write
// categories back.
func (s *Session) Transactions() []models.Transaction {
	return s.transactions
}

// Filter returns the transactions matching the given options, preserving
// order.
func (s *Session) Filter(opts FilterOptions) []models.Transaction {
	var matched []models.Transaction
	for _, tx := range s.transactions {
		if !opts.From.IsZero() && tx.Date.Before(opts.From.Time) {
			continue
		}
		if !opts.To.IsZero() && tx.Date.After(opts.To.Time) {
			continue
		}
		if opts.Source != "" && !strings.EqualFold(tx.Source, opts.Source) {
			continue
		}
		matched = append(matched, tx)
	}
	return matched
}

// Summarize computes totals over the session. Expenses are reported as a
// positive magnitude.
func (s *Session) Summarize() Summary {
	summary := Summary{
		Count:    len(s.transactions),
		BySource: make(map[string]int),
	}

	for _, tx := range s.transactions {
		if tx.Amount.IsPositive() {
			summary.Income = summary.Income.Add(tx.Amount)
		} else {
			summary.Expenses = summary.Expenses.Add(tx.Amount.Abs())
		}
		summary.BySource[tx.Source]++

		if summary.Earliest.IsZero() || tx.Date.Before(summary.Earliest.Time) {
			summary.Earliest = tx.Date
		}
		if summary.Latest.IsZero() || tx.Date.After(summary.Latest.Time) {
			summary.Latest = tx.Date
		}
	}

	summary.Net = summary.Income.Sub(summary.Expenses)
	return summary
}
