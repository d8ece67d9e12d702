package service

import (
	"context"
	"errors"

	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/adapters/worker"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/report"
)

// Sentinel error kinds returned by the service.
var (
	ErrNoStore     = errors.New("no record store configured")
	ErrUnavailable = errors.New("record store unavailable")
	ErrTimeout     = errors.New("record store fetch timed out")
	ErrBusy        = errors.New("service busy")
)

// errorKind labels err for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, report.ErrInvalidRange), errors.Is(err, report.ErrInvalidYear),
		errors.Is(err, calendar.ErrUnknownPeriod):
		return "invalid_input"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrBusy), errors.Is(err, worker.ErrQueueFull):
		return "unavailable"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
