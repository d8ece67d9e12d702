package report

import "github.com/okian/mawsim/internal/domain/types"

// Default look-back windows, in days.
const (
	DefaultTrendDays   = 30
	DefaultWeekdayDays = 12 * 7
)

// Range is an inclusive date interval.
type Range struct {
	Start types.Date `json:"startDate"`
	End   types.Date `json:"endDate"`
}

// Contains reports whether d lies in r. Missing dates never do.
func (r Range) Contains(d types.Date) bool {
	return !d.IsZero() && d.Within(r.Start, r.End)
}

// ResolveRange fills the missing bounds of a caller-supplied range. A
// missing end is today; a missing start is defaultDays before the end.
func ResolveRange(start, end, today types.Date, defaultDays int) (Range, error) {
	if end.IsZero() {
		end = today
	}
	if start.IsZero() {
		start = end.AddDays(-defaultDays)
	}
	if start.After(end) {
		return Range{}, &InvalidRangeError{Start: start, End: end}
	}
	return Range{Start: start, End: end}, nil
}
