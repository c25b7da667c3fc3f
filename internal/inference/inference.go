// Package inference resolves which columns of a raw table carry the
// transaction date, description, and amount.
//
// Name-based matching runs first because it is cheap and usually correct for
// well-labeled exports; value-shape fallback handles anonymized or oddly
// labeled exports without per-bank configuration.
package inference

import (
	"regexp"
	"strings"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/normalize"
	"ledgersort/internal/parsererror"
)

// Role is the canonical purpose a column serves.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleAmount      Role = "amount"
)

// Name substrings that identify a role. Matching is on lower-cased column
// names; the literal token "transaction" intentionally appears for both
// description and amount, and the first column in table order wins.
var (
	dateNameHints        = []string{"date"}
	descriptionNameHints = []string{"desc", "payee", "merchant", "name", "transaction"}
	amountNameHints      = []string{"amount", "sum", "value", "transaction", "debit", "credit"}
)

// shapeSampleSize is how many values are inspected for currency shape.
const shapeSampleSize = 5

// RoleMap maps each logical role to a column name of the raw table.
type RoleMap struct {
	Date        string
	Description string
	Amount      string
}

// Inferencer resolves column roles for raw tables.
type Inferencer struct {
	normalizer    *normalize.Normalizer
	amountPattern *regexp.Regexp
	logger        logging.Logger
}

// New creates an Inferencer. amountPattern is the configured currency-shape
// regex used in the value-shape fallback for the amount role.
func New(normalizer *normalize.Normalizer, amountPattern *regexp.Regexp, logger logging.Logger) *Inferencer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Inferencer{
		normalizer:    normalizer,
		amountPattern: amountPattern,
		logger:        logger,
	}
}

// Infer resolves all three roles or fails for the whole table. Resolution is
// all-or-nothing: a table with any unresolved role produces no transactions.
func (inf *Inferencer) Infer(table *models.RawTable) (RoleMap, error) {
	var roles RoleMap

	// Pass one: name matching, stable left-to-right scan per role. Each role
	// scans independently, so a name like "Transaction Date" can serve more
	// than one role through the shared "transaction" hint. Known limitation
	// of the substring heuristic.
	roles.Date = matchByName(table, dateNameHints)
	roles.Description = matchByName(table, descriptionNameHints)
	roles.Amount = matchByName(table, amountNameHints)

	// Pass two: value-shape fallback for roles the names did not resolve.
	if roles.Date == "" {
		roles.Date = inf.dateByShape(table)
	}
	if roles.Amount == "" {
		roles.Amount = inf.amountByShape(table, roles.Date)
	}
	if roles.Description == "" {
		roles.Description = descriptionByShape(table, roles.Date, roles.Amount)
	}

	missing := missingRoles(roles)
	if len(missing) > 0 {
		err := &parsererror.UnresolvedColumnsError{
			Missing:   missing,
			Available: table.ColumnNames(),
		}
		inf.logger.WithFields(
			logging.Field{Key: "missing", Value: strings.Join(missing, ",")},
			logging.Field{Key: "columns", Value: strings.Join(table.ColumnNames(), ",")},
		).Error("Could not resolve required columns")
		return RoleMap{}, err
	}

	inf.logger.WithFields(
		logging.Field{Key: "date", Value: roles.Date},
		logging.Field{Key: "description", Value: roles.Description},
		logging.Field{Key: "amount", Value: roles.Amount},
	).Debug("Resolved column roles")

	return roles, nil
}

// matchByName returns the first column, in table order, whose lower-cased
// name contains one of the hints.
func matchByName(table *models.RawTable, hints []string) string {
	for i := range table.Columns {
		if nameMatches(strings.ToLower(table.Columns[i].Name), hints) {
			return table.Columns[i].Name
		}
	}
	return ""
}

func nameMatches(lowerName string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(lowerName, hint) {
			return true
		}
	}
	return false
}

// dateByShape finds the first column whose first non-missing value is
// date-like: already date-typed, or text that parses with the configured
// formats.
func (inf *Inferencer) dateByShape(table *models.RawTable) string {
	for i := range table.Columns {
		col := &table.Columns[i]
		cell, ok := col.FirstNonEmpty()
		if !ok {
			continue
		}
		switch cell.Kind {
		case models.CellTime:
			return col.Name
		case models.CellText:
			if _, ok := inf.normalizer.ParseDate(cell.Text); ok {
				return col.Name
			}
		}
	}
	return ""
}

// amountByShape prefers the first already-numeric column, then the first text
// column whose sampled values are all currency-shaped. The shape check is
// anchored to the whole trimmed cell, so digit runs inside free text do not
// count. The date column is skipped: compact all-digit date layouts would
// pass the shape check.
func (inf *Inferencer) amountByShape(table *models.RawTable, dateColumn string) string {
	for i := range table.Columns {
		if table.Columns[i].Name == dateColumn {
			continue
		}
		if table.Columns[i].IsNumeric() {
			return table.Columns[i].Name
		}
	}
	for i := range table.Columns {
		col := &table.Columns[i]
		if col.Name == dateColumn || !col.IsText() {
			continue
		}
		sample := col.Sample(shapeSampleSize)
		if len(sample) == 0 {
			continue
		}
		shaped := true
		for _, cell := range sample {
			if !inf.wholeCellAmount(cell.Text) {
				shaped = false
				break
			}
		}
		if shaped {
			return col.Name
		}
	}
	return ""
}

// wholeCellAmount reports whether the entire trimmed cell matches the
// configured currency pattern.
func (inf *Inferencer) wholeCellAmount(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	loc := inf.amountPattern.FindStringIndex(trimmed)
	return loc != nil && loc[0] == 0 && loc[1] == len(trimmed)
}

// descriptionByShape returns the first text column not already claimed by
// another role.
func descriptionByShape(table *models.RawTable, dateColumn, amountColumn string) string {
	for i := range table.Columns {
		col := &table.Columns[i]
		if col.Name == dateColumn || col.Name == amountColumn {
			continue
		}
		if col.IsText() {
			return col.Name
		}
	}
	return ""
}

func missingRoles(roles RoleMap) []string {
	var missing []string
	if roles.Date == "" {
		missing = append(missing, string(RoleDate))
	}
	if roles.Description == "" {
		missing = append(missing, string(RoleDescription))
	}
	if roles.Amount == "" {
		missing = append(missing, string(RoleAmount))
	}
	return missing
}
