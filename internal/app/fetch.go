package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/adapters/worker"
	"github.com/okian/mawsim/pkg/logger"
	"github.com/okian/mawsim/pkg/metrics"
)

const breakerName = "store"

// newBreaker wraps storage fetches. Unknown records and abandoned requests
// do not count as store failures.
func newBreaker(b BreakerSettings, log logger.Logger) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: b.MaxRequests,
		Interval:    b.Interval,
		Timeout:     b.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, repository.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(name, int(to))
			metrics.RecordBreakerStateChange(name, to.String())
			log.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	}
	metrics.UpdateBreakerState(breakerName, int(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[any](settings)
}

// fetch runs one storage read under the fetch deadline and the breaker.
func fetch[T any](ctx context.Context, s *Service, what string, read func(context.Context) (T, error)) (T, error) {
	var zero T

	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	run := func() (any, error) { return read(fctx) }
	var (
		res any
		err error
	)
	if s.breaker != nil {
		res, err = s.breaker.Execute(run)
	} else {
		res, err = run()
	}
	if err != nil {
		return zero, s.fetchError(ctx, what, err)
	}
	return res.(T), nil
}

// fetchError classifies a failed read. The caller's own cancellation is
// passed through untouched.
func (s *Service) fetchError(ctx context.Context, what string, err error) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, repository.ErrNotFound):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("fetch %s: %w: %v", what, ErrUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn(ctx, "store fetch timed out",
			logger.String("fetch", what),
			logger.Duration("timeout", s.fetchTimeout),
		)
		return fmt.Errorf("fetch %s after %s: %w", what, s.fetchTimeout, ErrTimeout)
	default:
		s.logger.Error(ctx, "store fetch failed", logger.String("fetch", what), logger.Error(err))
		return fmt.Errorf("fetch %s: %w", what, err)
	}
}

// parallel runs jobs on the pool, or in order when there is none.
func (s *Service) parallel(ctx context.Context, jobs ...worker.Job) error {
	if s.pool == nil || len(jobs) < 2 {
		for _, job := range jobs {
			if err := job(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	err := s.pool.Do(ctx, jobs...)
	if errors.Is(err, worker.ErrQueueFull) || errors.Is(err, worker.ErrStopped) {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return firstError(err)
}

// firstError unwraps a joined error to its first member, so that callers
// see the same error a sequential run would have returned.
func firstError(err error) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return err
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
