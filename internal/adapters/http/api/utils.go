package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/types"
	"github.com/okian/mawsim/pkg/logger"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err and writes it as {code, message}. Internal
// failures are logged and never echoed to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	e := Wrap(op, err)
	msg := e.Err.Error()
	if e.Kind == KindInternal {
		s.logger.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		msg = http.StatusText(http.StatusInternalServerError)
	}
	writeJSON(w, e.Kind.Status(), errorResponse{Code: string(e.Kind), Message: msg})
}

// Query parameter sets. The query tag names the parameter; validate holds
// the rules checked before any report runs.

type rangeParams struct {
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

type contentParams struct {
	rangeParams
	CampaignID  string `query:"campaignId" validate:"omitempty,max=64,printascii"`
	ContentType string `query:"contentType" validate:"omitempty,content_type"`
	Channel     string `query:"channel" validate:"omitempty,channel"`
}

type weekdayParams struct {
	rangeParams
	Day string `query:"day" validate:"omitempty,weekday"`
}

type yearParams struct {
	Year string `query:"year" validate:"omitempty,number,max=4"`
}

type holidayParams struct {
	yearParams
	Label string `query:"label" validate:"omitempty,max=64"`
}

type campaignParams struct {
	rangeParams
	ID string `query:"id" validate:"required,max=64,printascii"`
}

type familyParams struct {
	holidayParams
	Family string `query:"family" validate:"required,max=32,printascii"`
}

var weekdays = func() map[string]time.Weekday {
	m := make(map[string]time.Weekday, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		m[strings.ToLower(d.String())] = d
	}
	return m
}()

// newValidator registers the domain rules used by the query parameter sets
// and reports field errors by parameter name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})
	_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		return model.ContentType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("channel", func(fl validator.FieldLevel) bool {
		return model.Channel(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := weekdays[strings.ToLower(fl.Field().String())]
		return ok
	})
	return v
}

// check validates params and rewrites field errors into a readable
// message.
func (s *Server) check(params any) error {
	err := s.validate.Struct(params)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date, got %q", fe.Field(), fe.Value())
	case "number":
		return fmt.Sprintf("%s must be a number, got %q", fe.Field(), fe.Value())
	case "content_type", "channel", "weekday":
		return fmt.Sprintf("unknown %s %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("invalid %s %q", fe.Field(), fe.Value())
	}
}

func (p rangeParams) bind(r *http.Request) rangeParams {
	q := r.URL.Query()
	p.StartDate = strings.TrimSpace(q.Get("startDate"))
	p.EndDate = strings.TrimSpace(q.Get("endDate"))
	return p
}

// dates parses the validated range. Missing bounds stay zero.
func (p rangeParams) dates() (from, to types.Date, err error) {
	if p.StartDate != "" {
		if from, err = types.ParseDate(p.StartDate); err != nil {
			return from, to, fmt.Errorf("%w: startDate: %v", ErrBadRequest, err)
		}
	}
	if p.EndDate != "" {
		if to, err = types.ParseDate(p.EndDate); err != nil {
			return from, to, fmt.Errorf("%w: endDate: %v", ErrBadRequest, err)
		}
	}
	return from, to, nil
}

func (p yearParams) bind(r *http.Request) yearParams {
	p.Year = strings.TrimSpace(r.URL.Query().Get("year"))
	return p
}

// year returns the requested year, zero meaning the current one.
func (p yearParams) year() int {
	if p.Year == "" {
		return 0
	}
	y, err := strconv.Atoi(p.Year)
	if err != nil {
		return -1
	}
	return y
}
