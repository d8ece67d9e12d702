package aggregate

// Summary is the reduced, presentation-ready view of a bucket.
// Rates are percentages.
type Summary struct {
	Count int `json:"count"`

	TotalImpressions float64 `json:"totalImpressions"`
	TotalClicks      float64 `json:"totalClicks"`
	TotalConversions float64 `json:"totalConversions"`
	TotalEngagement  float64 `json:"totalEngagement"`
	TotalROI         float64 `json:"totalRoi"`

	AvgImpressions float64 `json:"avgImpressions"`
	AvgClicks      float64 `json:"avgClicks"`
	AvgConversions float64 `json:"avgConversions"`
	AvgEngagement  float64 `json:"avgEngagement"`
	AvgROI         float64 `json:"avgRoi"`

	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversionRate"`
	EngagementRate float64 `json:"engagementRate"`
}

// Summary computes totals, averages and rates once all samples are folded.
// A nil bucket summarizes to zeros.
func (b *Bucket) Summary() Summary {
	if b == nil {
		return Summary{}
	}
	s := Summary{
		Count:            b.Count,
		TotalImpressions: b.totals[Impressions],
		TotalClicks:      b.totals[Clicks],
		TotalConversions: b.totals[Conversions],
		TotalEngagement:  b.totals[Engagement],
		TotalROI:         b.totals[ROI],
		AvgImpressions:   b.Average(Impressions),
		AvgClicks:        b.Average(Clicks),
		AvgConversions:   b.Average(Conversions),
		AvgEngagement:    b.Average(Engagement),
		AvgROI:           b.Average(ROI),
	}
	s.CTR = Rate(s.TotalClicks, s.TotalImpressions)
	s.ConversionRate = Rate(s.TotalConversions, s.TotalClicks)
	s.EngagementRate = Rate(s.TotalEngagement, s.TotalImpressions)
	return s
}

// Rate returns num/den as a percentage, or 0 when den is 0.
func Rate(num, den float64) float64 {
	return ratio(num, den) * 100
}
