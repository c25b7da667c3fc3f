// Package normalize converts raw date and amount text into canonical typed
// values. Unparseable values are reported as missing, never as errors; the
// transaction builder decides what to do with rows that have missing values.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"

	"github.com/shopspring/decimal"
)

// genericDateFormats is the fast path tried before the configured layouts.
var genericDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// numberPattern extracts the first signed-decimal substring of an amount.
var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// currencySymbols and thousands separators stripped before number extraction.
var currencyStripper = strings.NewReplacer("$", "", "£", "", "€", "", ",", "", "'", "")

// Normalizer converts raw cell values into canonical dates and amounts using
// the configured date layouts and source polarity.
type Normalizer struct {
	dateFormats      []string
	positiveIsIncome bool
	logger           logging.Logger
}

// New creates a Normalizer. dateFormats is the ordered list of Go layouts
// tried after the generic fast path; positiveIsIncome is the source polarity
// flag (false means positive raw values are expenses).
func New(dateFormats []string, positiveIsIncome bool, logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Normalizer{
		dateFormats:      dateFormats,
		positiveIsIncome: positiveIsIncome,
		logger:           logger,
	}
}

// ParseDate parses raw date text. The fast generic formats are tried first,
// then the configured layouts in order. ok is false for unparseable values.
func (n *Normalizer) ParseDate(raw string) (models.Date, bool) {
	cleaned := cleanDateString(raw)
	if cleaned == "" {
		return models.Date{}, false
	}

	for _, layout := range genericDateFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return models.NewDate(t), true
		}
	}
	for _, layout := range n.dateFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return models.NewDate(t), true
		}
	}

	return models.Date{}, false
}

// DateFromCell converts a raw cell into a canonical date.
func (n *Normalizer) DateFromCell(cell models.Cell) (models.Date, bool) {
	switch cell.Kind {
	case models.CellTime:
		return models.NewDate(cell.Time), true
	case models.CellText:
		return n.ParseDate(cell.Text)
	default:
		return models.Date{}, false
	}
}

// ParseAmount parses raw amount text into a signed decimal.
//
// The two-stage sign logic is order-sensitive: the textual convention
// (CR/DR suffix, parentheses) is resolved first, and the source polarity flag
// is applied last. Reversing the order would silently invert every amount for
// sources using CR/DR notation.
func (n *Normalizer) ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(currencyStripper.Replace(raw))
	if s == "" {
		return decimal.Decimal{}, false
	}

	// Stage one: textual sign conventions. forced is zero when the text
	// carries no explicit convention and the extracted sign stands.
	forced := 0
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "cr"):
		s = strings.TrimSpace(s[:len(s)-2])
		forced = 1
	case strings.HasSuffix(lower, "dr"):
		s = strings.TrimSpace(s[:len(s)-2])
		forced = -1
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		s = strings.TrimSpace(s[1 : len(s)-1])
		forced = -1
	}

	match := numberPattern.FindString(s)
	if match == "" {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSuffix(match, "."))
	if err != nil {
		return decimal.Decimal{}, false
	}

	if forced > 0 {
		amount = amount.Abs()
	} else if forced < 0 {
		amount = amount.Abs().Neg()
	}

	// Stage two: source polarity.
	if !n.positiveIsIncome {
		amount = amount.Neg()
	}

	return amount, true
}

// AmountFromCell converts a raw cell into a canonical signed amount.
// Already-numeric cells pass through unchanged.
func (n *Normalizer) AmountFromCell(cell models.Cell) (decimal.Decimal, bool) {
	switch cell.Kind {
	case models.CellNumber:
		return cell.Number, true
	case models.CellText:
		return n.ParseAmount(cell.Text)
	default:
		return decimal.Decimal{}, false
	}
}

// cleanDateString trims and collapses runs of whitespace.
func cleanDateString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
