// Package types contains value types shared across the analytics packages.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the textual form of a Date.
const DateLayout = "2006-01-02"

var jsonNull = []byte("null")

// ErrInvalidDate is returned when a value cannot be parsed as a calendar date.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar date without time of day. The zero value means the
// date is missing.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a Date, normalizing out-of-range values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses YYYY-MM-DD. Full RFC3339 timestamps are accepted as well;
// their date is taken in the offset they carry.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// MustParseDate is ParseDate for literals; it panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Year returns the year of d.
func (d Date) Year() int { return d.year }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.month }

// Day returns the day of month of d.
func (d Date) Day() int { return d.day }

// IsZero reports whether d is the missing date.
func (d Date) IsZero() bool { return d.year == 0 && d.month == 0 && d.day == 0 }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

func (d Date) ordinal() int { return d.year*10000 + int(d.month)*100 + d.day }

// Compare returns -1, 0 or +1 when d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	a, b := d.ordinal(), o.ordinal()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// Within reports whether d lies in the closed interval [start, end].
func (d Date) Within(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// String formats d as YYYY-MM-DD, or "" when missing.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON encodes a missing date as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return jsonNull, nil
	}
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON accepts null, "" or a date string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == string(jsonNull) {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	return d.UnmarshalText([]byte(s))
}

// NullFloat is a number that may be absent. Absent is not the same as zero.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a present NullFloat.
func Float(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// FloatPtr converts a nil-able pointer.
func FloatPtr(p *float64) NullFloat {
	if p == nil {
		return NullFloat{}
	}
	return Float(*p)
}

// OrZero returns the value, or 0 when absent.
func (n NullFloat) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Float64
}

// MarshalJSON encodes an absent value as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return []byte(strconv.FormatFloat(n.Float64, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts null or a JSON number.
func (n *NullFloat) UnmarshalJSON(b []byte) error {
	if string(b) == string(jsonNull) {
		*n = NullFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", string(b), err)
	}
	*n = Float(v)
	return nil
}
