package report

import (
	"slices"
	"strings"

	"github.com/okian/mawsim/internal/domain/aggregate"
	"github.com/okian/mawsim/internal/domain/model"
)

// TrendPoint is one day of a campaign trend. Volume metrics are summed;
// engagement and roi are averaged over the entries that measured them.
type TrendPoint struct {
	Date        string  `json:"date"`
	Count       int     `json:"count"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Engagement  float64 `json:"engagement"`
	ROI         float64 `json:"roi"`
}

// TrendReport is a campaign's daily performance over a range.
type TrendReport struct {
	CampaignID   string       `json:"campaignId"`
	CampaignName string       `json:"campaignName"`
	Range        Range        `json:"range"`
	Points       []TrendPoint `json:"performance"`
	// Excluded counts entries without a date.
	Excluded int `json:"excluded"`
}

// CampaignTrend groups a campaign's entries within r by day, ascending.
func CampaignTrend(c model.Campaign, r Range) TrendReport {
	out := TrendReport{CampaignID: c.ID, CampaignName: c.Name, Range: r}

	samples := c.Samples()
	inRange := make([]model.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Date.IsZero() {
			out.Excluded++
			continue
		}
		if r.Contains(s.Date) {
			inRange = append(inRange, s)
		}
	}

	g := aggregate.Aggregate(inRange, aggregate.ByDate)
	out.Points = make([]TrendPoint, 0, len(g.Buckets))
	for _, b := range g.Buckets {
		out.Points = append(out.Points, TrendPoint{
			Date:        b.Key,
			Count:       b.Count,
			Impressions: b.Total(aggregate.Impressions),
			Clicks:      b.Total(aggregate.Clicks),
			Conversions: b.Total(aggregate.Conversions),
			Engagement:  b.Average(aggregate.Engagement),
			ROI:         b.Average(aggregate.ROI),
		})
	}
	slices.SortFunc(out.Points, func(a, b TrendPoint) int { return strings.Compare(a.Date, b.Date) })
	return out
}
