package service

import (
	"time"

	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/adapters/worker"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// BreakerSettings tunes the circuit breaker around storage fetches.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerSettings returns the settings used when none are given.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// WithStore sets the record store. Required.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithCalendar sets the period table. Defaults to the built-in table.
func WithCalendar(table *calendar.Table) Option {
	return func(s *Service) {
		if table != nil {
			s.calendar = table
		}
	}
}

// WithPool sets the worker pool used for concurrent fetches and reports.
// Without one everything runs on the caller's goroutine.
func WithPool(pool *worker.Pool) Option {
	return func(s *Service) {
		s.pool = pool
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the market time zone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithFocusDay sets the weekday compared against the rest of the week.
func WithFocusDay(day time.Weekday) Option {
	return func(s *Service) {
		if day >= time.Sunday && day <= time.Saturday {
			s.focus = day
		}
	}
}

// WithFetchTimeout bounds every storage fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithBreaker configures the storage circuit breaker.
func WithBreaker(b BreakerSettings) Option {
	return func(s *Service) {
		s.breakerSettings = &b
	}
}

// WithoutBreaker disables the storage circuit breaker.
func WithoutBreaker() Option {
	return func(s *Service) {
		s.breakerSettings = nil
	}
}
