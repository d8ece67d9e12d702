// Package compare computes percentage differentials between aggregates.
package compare

import "github.com/okian/mawsim/internal/domain/aggregate"

// PercentDiff returns (candidate-baseline)/baseline*100.
//
// A zero baseline yields 0, so growth from nothing reads as no change.
// Existing dashboards depend on this.
func PercentDiff(candidate, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (candidate - baseline) / baseline * 100
}

// Differential holds the percentage change of every metric of a candidate
// aggregate relative to a baseline. Volume metrics compare averages.
type Differential struct {
	ImpressionsDiff    float64 `json:"impressionsDiff"`
	ClicksDiff         float64 `json:"clicksDiff"`
	ConversionsDiff    float64 `json:"conversionsDiff"`
	EngagementDiff     float64 `json:"engagementDiff"`
	ROIDiff            float64 `json:"roiDiff"`
	CTRDiff            float64 `json:"ctrDiff"`
	ConversionRateDiff float64 `json:"conversionRateDiff"`
	EngagementRateDiff float64 `json:"engagementRateDiff"`
}

// Compare diffs candidate against baseline for all fields at once.
func Compare(candidate, baseline aggregate.Summary) Differential {
	return Differential{
		ImpressionsDiff:    PercentDiff(candidate.AvgImpressions, baseline.AvgImpressions),
		ClicksDiff:         PercentDiff(candidate.AvgClicks, baseline.AvgClicks),
		ConversionsDiff:    PercentDiff(candidate.AvgConversions, baseline.AvgConversions),
		EngagementDiff:     PercentDiff(candidate.AvgEngagement, baseline.AvgEngagement),
		ROIDiff:            PercentDiff(candidate.AvgROI, baseline.AvgROI),
		CTRDiff:            PercentDiff(candidate.CTR, baseline.CTR),
		ConversionRateDiff: PercentDiff(candidate.ConversionRate, baseline.ConversionRate),
		EngagementRateDiff: PercentDiff(candidate.EngagementRate, baseline.EngagementRate),
	}
}
