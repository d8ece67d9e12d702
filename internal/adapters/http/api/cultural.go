package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/mawsim/internal/domain/calendar"
)

// Period families with dedicated routes.
const (
	familyRamadan calendar.Family = "ramadan"
	familyEid     calendar.Family = "eid"
)

// handleWeekday handles GET /api/cultural-analytics/weekday-engagement and
// its friday-engagement alias. The optional day parameter overrides the
// configured focus day.
func (s *Server) handleWeekday(w http.ResponseWriter, r *http.Request) {
	const op = "weekday_engagement"
	p := weekdayParams{
		rangeParams: rangeParams{}.bind(r),
		Day:         strings.TrimSpace(r.URL.Query().Get("day")),
	}
	if err := s.check(p); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	from, to, err := p.dates()
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	focus := s.analytics.FocusDay()
	if p.Day != "" {
		focus = weekdays[strings.ToLower(p.Day)]
	}
	out, err := s.analytics.DayOfWeekFocus(r.Context(), from, to, focus)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRamadan handles GET /api/cultural-analytics/ramadan-performance.
func (s *Server) handleRamadan(w http.ResponseWriter, r *http.Request) {
	s.holiday(w, r, "ramadan_performance", familyRamadan, "")
}

// handleEid handles GET /api/cultural-analytics/eid-performance. eidType
// narrows the report to the matching Eid, e.g. "fitr" or "adha".
func (s *Server) handleEid(w http.ResponseWriter, r *http.Request) {
	s.holiday(w, r, "eid_performance", familyEid, r.URL.Query().Get("eidType"))
}

// handleFamily handles GET /api/cultural-analytics/periods/{family}/performance.
func (s *Server) handleFamily(w http.ResponseWriter, r *http.Request) {
	const op = "period_performance"
	p := familyParams{
		holidayParams: holidayParams{
			yearParams: yearParams{}.bind(r),
			Label:      strings.TrimSpace(r.URL.Query().Get("label")),
		},
		Family: strings.ToLower(strings.TrimSpace(chi.URLParam(r, "family"))),
	}
	if err := s.check(p); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	out, err := s.analytics.HolidayPerformance(r.Context(), calendar.Family(p.Family), p.year(), p.Label)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) holiday(w http.ResponseWriter, r *http.Request, op string, family calendar.Family, filter string) {
	p := holidayParams{
		yearParams: yearParams{}.bind(r),
		Label:      strings.TrimSpace(filter),
	}
	if err := s.check(p); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	out, err := s.analytics.HolidayPerformance(r.Context(), family, p.year(), p.Label)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleOverview handles GET /api/cultural-analytics/overview.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "overview"
	p := yearParams{}.bind(r)
	if err := s.check(p); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	out, err := s.analytics.HolidayOverview(r.Context(), p.year())
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePeriods handles GET /api/calendar/periods. Without a year every
// configured period is listed.
func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	const op = "calendar_periods"
	p := yearParams{}.bind(r)
	if err := s.check(p); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, s.analytics.Periods(p.year()))
}
