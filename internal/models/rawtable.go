package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CellKind describes the typed content of a raw table cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellTime
)

// Cell is a single untyped value extracted from a source file. Exactly one of
// Text, Number, or Time is meaningful, selected by Kind.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
	Time   time.Time
}

// TextCell builds a text cell; blank strings become empty cells.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell builds a numeric cell.
func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Number: d}
}

// TimeCell builds a date-like cell.
func TimeCell(t time.Time) Cell {
	return Cell{Kind: CellTime, Time: t}
}

// Column is an ordered sequence of cells under a source column name.
type Column struct {
	Name  string
	Cells []Cell
}

// IsNumeric reports whether every non-empty cell in the column is numeric.
// Columns with no values at all are not numeric.
func (c *Column) IsNumeric() bool {
	seen := false
	for _, cell := range c.Cells {
		switch cell.Kind {
		case CellNumber:
			seen = true
		case CellEmpty:
		default:
			return false
		}
	}
	return seen
}

// IsText reports whether the column holds at least one text cell and nothing
// but text or empty cells.
func (c *Column) IsText() bool {
	seen := false
	for _, cell := range c.Cells {
		switch cell.Kind {
		case CellText:
			seen = true
		case CellEmpty:
		default:
			return false
		}
	}
	return seen
}

// FirstNonEmpty returns the first cell that carries a value.
func (c *Column) FirstNonEmpty() (Cell, bool) {
	for _, cell := range c.Cells {
		if cell.Kind != CellEmpty {
			return cell, true
		}
	}
	return Cell{}, false
}

// Sample returns up to n non-empty cells from the top of the column.
func (c *Column) Sample(n int) []Cell {
	var out []Cell
	for _, cell := range c.Cells {
		if cell.Kind == CellEmpty {
			continue
		}
		out = append(out, cell)
		if len(out) == n {
			break
		}
	}
	return out
}

// RawTable is untyped tabular data as produced by a format adapter, before
// column roles have been inferred. It is consumed once and discarded.
type RawTable struct {
	Columns []Column
}

// ColumnNames returns the column names in table order.
func (t *RawTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// Column looks a column up by name, case-insensitively.
func (t *RawTable) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// RowCount returns the length of the longest column.
func (t *RawTable) RowCount() int {
	max := 0
	for i := range t.Columns {
		if n := len(t.Columns[i].Cells); n > max {
			max = n
		}
	}
	return max
}

// CellAt returns the cell at the given row of a column, or an empty cell when
// the column is shorter than the requested row.
func (c *Column) CellAt(row int) Cell {
	if row < 0 || row >= len(c.Cells) {
		return Cell{Kind: CellEmpty}
	}
	return c.Cells[row]
}
