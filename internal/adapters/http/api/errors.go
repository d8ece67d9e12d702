package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/mawsim/internal/adapters/repository"
	service "github.com/okian/mawsim/internal/app"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/report"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrRouteNotFound = errors.New("route not found")
	ErrMethod        = errors.New("method not allowed")
	ErrRateLimited   = errors.New("too many requests")
)

// Kind classifies an API error and decides its status code.
type Kind string

// Error kinds.
const (
	KindInvalid     Kind = "invalid_input"
	KindNotFound    Kind = "not_found"
	KindMethod      Kind = "method_not_allowed"
	KindRateLimited Kind = "rate_limited"
	KindUnavailable Kind = "unavailable"
	KindTimeout     Kind = "timeout"
	KindCanceled    Kind = "canceled"
	KindInternal    Kind = "internal"
)

// statusClientClosed is the non-standard status logged when the client went
// away before the report was ready.
const statusClientClosed = 499

// Status maps k to an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethod:
		return http.StatusMethodNotAllowed
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindCanceled:
		return statusClientClosed
	default:
		return http.StatusInternalServerError
	}
}

// Error is an API failure tagged with the operation that produced it.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NewKind builds an error of an explicit kind.
func NewKind(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap tags err with op and classifies it. Errors that already carry a kind
// keep it.
func Wrap(op string, err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return &Error{Op: op, Kind: apiErr.Kind, Err: apiErr.Err}
	}
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) Kind {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, report.ErrInvalidRange),
		errors.Is(err, report.ErrInvalidYear),
		errors.Is(err, calendar.ErrUnknownPeriod):
		return KindInvalid
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrRouteNotFound):
		return KindNotFound
	case errors.Is(err, ErrMethod):
		return KindMethod
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, service.ErrUnavailable), errors.Is(err, service.ErrBusy):
		return KindUnavailable
	case errors.Is(err, service.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindInternal
	}
}
