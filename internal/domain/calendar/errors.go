package calendar

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the calendar table.
var (
	ErrConfiguration = errors.New("calendar configuration invalid")
	ErrUnknownPeriod = errors.New("unknown calendar period")
)

// ConfigurationError describes why a period table was rejected.
type ConfigurationError struct {
	Reason string
	Period Period
	// Other is set when the failure involves a second period (overlap).
	Other *Period
}

func (e *ConfigurationError) Error() string {
	if e.Other != nil {
		return fmt.Sprintf("%v: %s: %s overlaps %s", ErrConfiguration, e.Reason, e.Period, *e.Other)
	}
	if e.Period == (Period{}) {
		return fmt.Sprintf("%v: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrConfiguration, e.Reason, e.Period)
}

// Unwrap allows errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
