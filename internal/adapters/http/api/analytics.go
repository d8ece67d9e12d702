package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/report"
)

// handleDashboard handles GET /api/analytics/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "dashboard"
	out, err := s.analytics.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCampaignPerformance handles GET /api/analytics/campaigns/{id}/performance.
func (s *Server) handleCampaignPerformance(w http.ResponseWriter, r *http.Request) {
	const op = "campaign_performance"
	p := campaignParams{
		rangeParams: rangeParams{}.bind(r),
		ID:          strings.TrimSpace(chi.URLParam(r, "id")),
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
	out, err := s.analytics.CampaignPerformance(r.Context(), p.ID, from, to)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleContentPerformance handles GET /api/analytics/content/performance.
func (s *Server) handleContentPerformance(w http.ResponseWriter, r *http.Request) {
	const op = "content_performance"
	q := r.URL.Query()
	p := contentParams{
		rangeParams: rangeParams{}.bind(r),
		CampaignID:  strings.TrimSpace(q.Get("campaignId")),
		ContentType: strings.TrimSpace(q.Get("contentType")),
		Channel:     strings.TrimSpace(q.Get("channel")),
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
	out, err := s.analytics.ContentPerformance(r.Context(), report.ContentQuery{
		CampaignID: p.CampaignID,
		Type:       model.ContentType(p.ContentType),
		Channel:    model.Channel(p.Channel),
		Start:      from,
		End:        to,
	})
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
