// Package service wires the record store, the period calendar and the
// report functions into the operations served by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/adapters/worker"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/report"
	"github.com/okian/mawsim/internal/domain/types"
	"github.com/okian/mawsim/pkg/logger"
	"github.com/okian/mawsim/pkg/metrics"
)

const defaultFetchTimeout = 5 * time.Second

// Report names used in logs and metrics.
const (
	reportDashboard = "dashboard"
	reportTrend     = "campaign_trend"
	reportContent   = "content"
	reportWeekday   = "weekday"
	reportHoliday   = "holiday"
	reportOverview  = "holiday_overview"
)

// Service computes the analytics reports from the record store.
type Service struct {
	store    repository.Store
	calendar *calendar.Table
	pool     *worker.Pool

	breakerSettings *BreakerSettings
	breaker         *gobreaker.CircuitBreaker[any]

	fetchTimeout time.Duration
	focus        time.Weekday
	loc          *time.Location
	now          func() time.Time

	mu        sync.RWMutex
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a Service. A store is required.
func New(opts ...Option) (*Service, error) {
	defaults := DefaultBreakerSettings()
	s := &Service{
		breakerSettings: &defaults,
		fetchTimeout:    defaultFetchTimeout,
		focus:           report.DefaultFocusDay,
		loc:             time.UTC,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		return nil, ErrNoStore
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.calendar == nil {
		table, err := calendar.Default()
		if err != nil {
			return nil, fmt.Errorf("load built-in calendar: %w", err)
		}
		s.calendar = table
	}
	if s.breakerSettings != nil {
		s.breaker = newBreaker(*s.breakerSettings, s.logger)
	}
	metrics.UpdateCalendar(len(s.calendar.Years()), s.calendar.PeriodCount())
	return s, nil
}

// Start starts the worker pool, if any.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.pool != nil {
		s.pool.Start()
	}
	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "analytics service started",
		logger.String("calendar", s.calendar.Version()),
		logger.String("focusDay", s.focus.String()),
		logger.Duration("fetchTimeout", s.fetchTimeout),
		logger.Bool("breaker", s.breaker != nil),
	)
	return nil
}

// Stop drains the worker pool and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping analytics service...")

	var firstErr error
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
	return firstErr
}

// Today returns the current date in the market time zone.
func (s *Service) Today() types.Date {
	return types.DateOf(s.now().In(s.loc))
}

// Calendar returns the period table in use.
func (s *Service) Calendar() *calendar.Table { return s.calendar }

// FocusDay returns the configured focus weekday.
func (s *Service) FocusDay() time.Weekday { return s.focus }

// observe records the outcome of a report computation.
func (s *Service) observe(ctx context.Context, name string, start time.Time, excluded int, err error) {
	if err != nil {
		kind := errorKind(err)
		metrics.RecordReportError(name, kind)
		metrics.RecordErrorByComponent("service", kind)
		s.logger.Debug(ctx, "report failed",
			logger.String("report", name),
			logger.String("kind", kind),
			logger.Error(err),
		)
		return
	}
	metrics.RecordReport(name, elapsedMs(start))
	metrics.RecordRecordsExcluded(name, excluded)
	if excluded > 0 {
		s.logger.Debug(ctx, "records excluded from report",
			logger.String("report", name),
			logger.Int("excluded", excluded),
		)
	}
}

func (s *Service) publishedContents(ctx context.Context, campaignID string) ([]model.Content, error) {
	return fetch(ctx, s, repository.CollectionContents, func(ctx context.Context) ([]model.Content, error) {
		return s.store.Contents(ctx, repository.ContentFilter{CampaignID: campaignID, Status: model.ContentPublished})
	})
}

// Dashboard returns the global overview. The three collections are read
// concurrently.
func (s *Service) Dashboard(ctx context.Context) (out report.DashboardReport, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, reportDashboard, start, 0, err) }()

	var (
		campaigns []model.Campaign
		contents  []model.Content
		accounts  []model.SocialAccount
	)
	err = s.parallel(ctx,
		func(ctx context.Context) (err error) {
			campaigns, err = fetch(ctx, s, repository.CollectionCampaigns, s.store.Campaigns)
			return err
		},
		func(ctx context.Context) (err error) {
			contents, err = fetch(ctx, s, repository.CollectionContents, func(ctx context.Context) ([]model.Content, error) {
				return s.store.Contents(ctx, repository.ContentFilter{})
			})
			return err
		},
		func(ctx context.Context) (err error) {
			accounts, err = fetch(ctx, s, repository.CollectionSocial, s.store.SocialAccounts)
			return err
		},
	)
	if err != nil {
		return out, err
	}
	return report.Dashboard(campaigns, contents, accounts), nil
}

// CampaignPerformance returns the daily trend of one campaign. A missing end
// is today; a missing start is 30 days before the end.
func (s *Service) CampaignPerformance(ctx context.Context, id string, from, to types.Date) (out report.TrendReport, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, reportTrend, start, out.Excluded, err) }()

	r, err := report.ResolveRange(from, to, s.Today(), report.DefaultTrendDays)
	if err != nil {
		return out, err
	}
	c, err := fetch(ctx, s, repository.CollectionCampaigns, func(ctx context.Context) (model.Campaign, error) {
		return s.store.Campaign(ctx, id)
	})
	if err != nil {
		return out, err
	}
	return report.CampaignTrend(c, r), nil
}

// ContentPerformance returns the published content breakdown for q.
func (s *Service) ContentPerformance(ctx context.Context, q report.ContentQuery) (out report.ContentReport, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, reportContent, start, out.Excluded, err) }()

	if !q.Start.IsZero() && !q.End.IsZero() && q.Start.After(q.End) {
		return out, &report.InvalidRangeError{Start: q.Start, End: q.End}
	}
	contents, err := s.publishedContents(ctx, q.CampaignID)
	if err != nil {
		return out, err
	}
	return report.ContentPerformance(contents, q)
}

// DayOfWeek compares the configured focus day with the rest of the week.
func (s *Service) DayOfWeek(ctx context.Context, from, to types.Date) (report.DayOfWeekReport, error) {
	return s.DayOfWeekFocus(ctx, from, to, s.focus)
}

// DayOfWeekFocus compares focus with the rest of the week. A missing end is
// today; a missing start is twelve weeks before the end.
func (s *Service) DayOfWeekFocus(ctx context.Context, from, to types.Date, focus time.Weekday) (out report.DayOfWeekReport, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, reportWeekday, start, out.Excluded, err) }()

	r, err := report.ResolveRange(from, to, s.Today(), report.DefaultWeekdayDays)
	if err != nil {
		return out, err
	}
	contents, err := s.publishedContents(ctx, "")
	if err != nil {
		return out, err
	}
	return report.DayOfWeek(contents, r, focus), nil
}

// HolidayPerformance compares the periods of family in year with the rest
// of that year. Year zero is the current year; filter narrows the family's
// labels by case-insensitive substring.
func (s *Service) HolidayPerformance(ctx context.Context, family calendar.Family, year int, filter string) (out report.HolidayReport, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, reportHoliday, start, out.Excluded, err) }()

	if year == 0 {
		year = s.Today().Year()
	}
	if year < 1 || year > 9999 {
		return out, fmt.Errorf("%w: %d", report.ErrInvalidYear, year)
	}
	labels, err := s.calendar.Resolve(family, filter)
	if err != nil {
		return out, err
	}
	q := report.HolidayQuery{Family: family, Year: year, Labels: labels}

	contents, err := s.publishedContents(ctx, "")
	if err != nil {
		return out, err
	}
	return report.HolidayPeriod(contents, s.calendar, q)
}

// Overview holds one holiday report per configured family.
type Overview struct {
	Year     int                    `json:"year"`
	Calendar string                 `json:"calendarVersion"`
	Families []report.HolidayReport `json:"families"`
}

// HolidayOverview computes the holiday report of every configured family for
// year, one family per pool job, from a single content fetch.
func (s *Service) HolidayOverview(ctx context.Context, year int) (out Overview, err error) {
	start := time.Now()
	defer func() {
		excluded := 0
		if len(out.Families) > 0 {
			excluded = out.Families[0].Excluded
		}
		s.observe(ctx, reportOverview, start, excluded, err)
	}()

	if year == 0 {
		year = s.Today().Year()
	}
	if year < 1 || year > 9999 {
		return out, fmt.Errorf("%w: %d", report.ErrInvalidYear, year)
	}
	contents, err := s.publishedContents(ctx, "")
	if err != nil {
		return out, err
	}

	families := s.calendar.Families()
	reports := make([]report.HolidayReport, len(families))
	jobs := make([]worker.Job, len(families))
	for i, f := range families {
		jobs[i] = func(context.Context) (err error) {
			reports[i], err = report.HolidayPeriod(contents, s.calendar, report.HolidayQuery{Family: f, Year: year})
			return err
		}
	}
	if err := s.parallel(ctx, jobs...); err != nil {
		return out, err
	}
	return Overview{Year: year, Calendar: s.calendar.Version(), Families: reports}, nil
}

// PeriodList is the configured calendar, optionally limited to one year.
type PeriodList struct {
	Version  string            `json:"version"`
	Years    []int             `json:"years"`
	Families []calendar.Family `json:"families"`
	Periods  []calendar.Period `json:"periods"`
}

// Periods lists the configured periods of year, or of every year when year
// is zero.
func (s *Service) Periods(year int) PeriodList {
	out := PeriodList{
		Version:  s.calendar.Version(),
		Years:    s.calendar.Years(),
		Families: s.calendar.Families(),
		Periods:  []calendar.Period{},
	}
	for _, y := range out.Years {
		if year == 0 || y == year {
			out.Periods = append(out.Periods, s.calendar.Periods(y)...)
		}
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"calendarVersion": s.calendar.Version(),
		"calendarYears":   s.calendar.Years(),
		"focusDay":        s.focus.String(),
		"fetchTimeoutMs":  s.fetchTimeout.Milliseconds(),
		"timezone":        s.loc.String(),
	}
	if s.started {
		stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())
	}
	if s.pool != nil {
		stats["workerCount"] = s.pool.Size()
	}
	if s.breaker != nil {
		stats["breakerState"] = s.breaker.State().String()
		counts := s.breaker.Counts()
		stats["breakerConsecutiveFailures"] = counts.ConsecutiveFailures
	}
	return stats
}
