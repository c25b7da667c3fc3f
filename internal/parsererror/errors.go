// Package parsererror defines the typed errors reported by the import pipeline.
//
// Per-value problems (an unparseable date or amount in one row) are not errors:
// the normalization layer returns a missing sentinel and the transaction
// builder drops the row. Only whole-table and whole-file failures surface here.
package parsererror

import (
	"fmt"
	"strings"
)

// UnresolvedColumnsError reports a column-role resolution failure for a whole
// table. It names the roles that could not be resolved and the column names
// that were available, so the caller can retry with a different adapter.
type UnresolvedColumnsError struct {
	Missing   []string // roles that could not be resolved: "date", "description", "amount"
	Available []string // column names present in the raw table
}

func (e *UnresolvedColumnsError) Error() string {
	return fmt.Sprintf("could not resolve column roles [%s]; available columns: [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// InvalidFormatError reports that an input file does not conform to the format
// expected by its adapter.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// UnsupportedFormatError reports a file extension with no registered adapter.
type UnsupportedFormatError struct {
	FilePath  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format '%s' for file '%s'", e.Extension, e.FilePath)
}

// DataExtractionError reports that required data could not be extracted from a
// file even though the file format itself is valid.
type DataExtractionError struct {
	FilePath string
	Field    string
	Reason   string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s",
		e.FilePath, e.Field, e.Reason)
}

// ParseError wraps a lower-level error with the adapter and value context in
// which it occurred.
type ParseError struct {
	Adapter string
	Field   string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v", e.Adapter, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
