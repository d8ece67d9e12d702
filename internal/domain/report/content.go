package report

import (
	"slices"
	"strings"

	"github.com/okian/mawsim/internal/domain/aggregate"
	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/types"
)

// ContentQuery filters the content report. Zero fields do not filter.
type ContentQuery struct {
	CampaignID string
	Type       model.ContentType
	Channel    model.Channel
	Start      types.Date
	End        types.Date
}

func (q ContentQuery) dated() bool { return !q.Start.IsZero() || !q.End.IsZero() }

func (q ContentQuery) match(c model.Content) bool {
	if c.Status != model.ContentPublished {
		return false
	}
	if q.CampaignID != "" && c.CampaignID != q.CampaignID {
		return false
	}
	if q.Type != "" && c.Type != q.Type {
		return false
	}
	if q.Channel != "" && c.Channel != q.Channel {
		return false
	}
	return true
}

func (q ContentQuery) inRange(d types.Date) bool {
	if !q.Start.IsZero() && d.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && d.After(q.End) {
		return false
	}
	return true
}

// ContentSummary holds the overall figures of the content report.
type ContentSummary struct {
	TotalContent      int     `json:"totalContent"`
	TotalImpressions  float64 `json:"totalImpressions"`
	TotalClicks       float64 `json:"totalClicks"`
	TotalEngagement   float64 `json:"totalEngagement"`
	TotalConversions  float64 `json:"totalConversions"`
	AvgImpressions    float64 `json:"avgImpressions"`
	AvgClicks         float64 `json:"avgClicks"`
	AvgEngagement     float64 `json:"avgEngagement"`
	AvgConversions    float64 `json:"avgConversions"`
	AvgCTR            float64 `json:"avgCTR"`
	AvgConversionRate float64 `json:"avgConversionRate"`
}

// Breakdown is the summary of one group of a breakdown.
type Breakdown struct {
	Key string `json:"key"`
	aggregate.Summary
}

// ContentItem is one row of the content list.
type ContentItem struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Type          model.ContentType `json:"type"`
	Channel       model.Channel     `json:"channel"`
	Campaign      string            `json:"campaign"`
	PublishedDate types.Date        `json:"publishedDate"`
	Performance   model.Metrics     `json:"performance"`
}

// ContentReport is the published-content performance breakdown.
type ContentReport struct {
	Summary   ContentSummary `json:"summary"`
	ByType    []Breakdown    `json:"byType"`
	ByChannel []Breakdown    `json:"byChannel"`
	Content   []ContentItem  `json:"content"`
	// Excluded counts matching items dropped for lacking a publishedDate
	// while a date filter was set.
	Excluded int `json:"excluded"`
}

// ContentPerformance reports on the published content matching q. Items
// are listed newest first; undated items are listed last.
func ContentPerformance(contents []model.Content, q ContentQuery) (ContentReport, error) {
	var out ContentReport
	if !q.Start.IsZero() && !q.End.IsZero() && q.Start.After(q.End) {
		return out, &InvalidRangeError{Start: q.Start, End: q.End}
	}

	selected := make([]model.Content, 0, len(contents))
	for _, c := range contents {
		if !q.match(c) {
			continue
		}
		if q.dated() {
			if c.PublishedDate.IsZero() {
				out.Excluded++
				continue
			}
			if !q.inRange(c.PublishedDate) {
				continue
			}
		}
		selected = append(selected, c)
	}
	slices.SortStableFunc(selected, func(a, b model.Content) int {
		switch {
		case a.PublishedDate.IsZero() && b.PublishedDate.IsZero():
			return 0
		case a.PublishedDate.IsZero():
			return 1
		case b.PublishedDate.IsZero():
			return -1
		}
		return b.PublishedDate.Compare(a.PublishedDate)
	})

	samples := make([]model.Sample, len(selected))
	out.Content = make([]ContentItem, len(selected))
	for i, c := range selected {
		samples[i] = c.Sample()
		out.Content[i] = ContentItem{
			ID:            c.ID,
			Title:         c.Title,
			Type:          c.Type,
			Channel:       c.Channel,
			Campaign:      c.CampaignName,
			PublishedDate: c.PublishedDate,
			Performance:   c.Performance,
		}
	}

	all, _ := aggregate.Aggregate(samples, aggregate.All("all")).Get("all")
	s := all.Summary()
	out.Summary = ContentSummary{
		TotalContent:      s.Count,
		TotalImpressions:  s.TotalImpressions,
		TotalClicks:       s.TotalClicks,
		TotalEngagement:   s.TotalEngagement,
		TotalConversions:  s.TotalConversions,
		AvgImpressions:    s.AvgImpressions,
		AvgClicks:         s.AvgClicks,
		AvgEngagement:     s.AvgEngagement,
		AvgConversions:    s.AvgConversions,
		AvgCTR:            s.CTR,
		AvgConversionRate: s.ConversionRate,
	}
	out.ByType = breakdown(aggregate.Aggregate(samples, aggregate.ByContentType))
	out.ByChannel = breakdown(aggregate.Aggregate(samples, aggregate.ByChannel))
	return out, nil
}

// breakdown lists the buckets of g sorted by key.
func breakdown(g *aggregate.Grouping) []Breakdown {
	out := make([]Breakdown, 0, len(g.Buckets))
	for _, b := range g.Buckets {
		out = append(out, Breakdown{Key: b.Key, Summary: b.Summary()})
	}
	slices.SortFunc(out, func(a, b Breakdown) int { return strings.Compare(a.Key, b.Key) })
	return out
}
