// Package api serves the analytics reports over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	service "github.com/okian/mawsim/internal/app"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/report"
	"github.com/okian/mawsim/internal/domain/types"
	"github.com/okian/mawsim/pkg/logger"
)

// Analytics is the report surface the handlers need.
type Analytics interface {
	Dashboard(ctx context.Context) (report.DashboardReport, error)
	CampaignPerformance(ctx context.Context, id string, from, to types.Date) (report.TrendReport, error)
	ContentPerformance(ctx context.Context, q report.ContentQuery) (report.ContentReport, error)
	DayOfWeekFocus(ctx context.Context, from, to types.Date, focus time.Weekday) (report.DayOfWeekReport, error)
	HolidayPerformance(ctx context.Context, family calendar.Family, year int, filter string) (report.HolidayReport, error)
	HolidayOverview(ctx context.Context, year int) (service.Overview, error)
	Periods(year int) service.PeriodList
	FocusDay() time.Weekday
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	analytics Analytics
	validate  *validator.Validate

	healthHandler *HealthHandler
	statsHandler  *StatsHandler

	corsOrigins []string
	rateLimit   int
	logger      logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(analytics Analytics, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		analytics:     analytics,
		validate:      newValidator(),
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		corsOrigins:   []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Register installs the middleware stack and every route on r. Routes added
// to r afterwards share the same middleware.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(requestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(MetricsMiddleware)
	r.Use(corsMiddleware(s.corsOrigins))
	if s.rateLimit > 0 {
		r.Use(s.rateLimiter(s.rateLimit, time.Minute))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, "route", ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, "route", ErrMethod)
	})

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/api", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/campaigns/{id}/performance", s.handleCampaignPerformance)
			r.Get("/content/performance", s.handleContentPerformance)
		})
		r.Route("/cultural-analytics", func(r chi.Router) {
			r.Get("/weekday-engagement", s.handleWeekday)
			r.Get("/friday-engagement", s.handleWeekday)
			r.Get("/ramadan-performance", s.handleRamadan)
			r.Get("/eid-performance", s.handleEid)
			r.Get("/periods/{family}/performance", s.handleFamily)
			r.Get("/overview", s.handleOverview)
		})
		r.Get("/calendar/periods", s.handlePeriods)
	})
}

// Handler returns a router with every route registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	s.Register(ctx, r)
	return r
}
