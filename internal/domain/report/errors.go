package report

import (
	"errors"
	"fmt"

	"github.com/okian/mawsim/internal/domain/types"
)

// Sentinel error kinds for report inputs.
var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrInvalidYear  = errors.New("invalid year")
	ErrNoCalendar   = errors.New("no calendar table")
)

// InvalidRangeError reports a range whose start is after its end.
type InvalidRangeError struct {
	Start types.Date
	End   types.Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%v: start %s is after end %s", ErrInvalidRange, e.Start, e.End)
}

// Unwrap allows errors.Is(err, ErrInvalidRange).
func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }
