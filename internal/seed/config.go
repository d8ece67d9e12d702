package seed

import (
	"fmt"
	"time"
)

// Config holds configuration for the seed tool.
type Config struct {
	Seed                int64        // RNG seed; equal seeds give equal datasets
	Year                int          // Year the records are spread over
	Campaigns           int          // Number of campaigns
	ContentPerCampaign  int          // Content items per campaign
	AccountsPerCampaign int          // Social accounts per campaign
	PerformanceDays     int          // Daily performance entries per campaign, at most
	UndatedRate         float64      // Share of published items without a publishedDate
	MissingMetricRate   float64      // Share of metric values left unrecorded
	FocusDay            time.Weekday // Day that gets FocusLift
	PeriodLift          float64      // Multiplier for content inside calendar periods
	FocusLift           float64      // Multiplier for content published on FocusDay

	CalendarPath string        // Calendar table; empty uses the built-in one
	Output       string        // Output file for the dataset
	ProbeURL     string        // Base URL of a running service to probe after writing
	Workers      int           // Concurrent probe requests
	Timeout      time.Duration // HTTP request timeout
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Seed:                1,
		Year:                2025,
		Campaigns:           12,
		ContentPerCampaign:  40,
		AccountsPerCampaign: 2,
		PerformanceDays:     90,
		UndatedRate:         0.02,
		MissingMetricRate:   0.05,
		FocusDay:            time.Friday,
		PeriodLift:          1.6,
		FocusLift:           1.4,
		Output:              "data/fixture.json",
		Workers:             4,
		Timeout:             10 * time.Second,
	}
}

// Validate checks the generation parameters.
func (c Config) Validate() error {
	switch {
	case c.Year < 1 || c.Year > 9999:
		return fmt.Errorf("%w: year %d", ErrInvalidConfig, c.Year)
	case c.Campaigns < 1:
		return fmt.Errorf("%w: campaigns must be positive", ErrInvalidConfig)
	case c.ContentPerCampaign < 0, c.AccountsPerCampaign < 0, c.PerformanceDays < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	case c.UndatedRate < 0 || c.UndatedRate > 1, c.MissingMetricRate < 0 || c.MissingMetricRate > 1:
		return fmt.Errorf("%w: rates must be within [0, 1]", ErrInvalidConfig)
	case c.PeriodLift <= 0 || c.FocusLift <= 0:
		return fmt.Errorf("%w: lifts must be positive", ErrInvalidConfig)
	}
	return nil
}
