package models

import "time"

// DateLayoutISO is the canonical date layout used in exports.
const DateLayoutISO = "2006-01-02"

// Date is a calendar date with no time component. It wraps time.Time so the
// rest of the code can use the standard comparison methods, and implements
// the gocsv marshalling interfaces with the ISO 8601 date layout.
type Date struct {
	time.Time
}

// NewDate builds a Date from a time.Time, truncating any time-of-day
// component and normalizing to UTC so equal dates always compare equal.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// String formats the date as ISO 8601, or "" for the zero value.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayoutISO)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (d *Date) UnmarshalCSV(value string) error {
	if value == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayoutISO, value)
	if err != nil {
		return err
	}
	*d = NewDate(t)
	return nil
}
