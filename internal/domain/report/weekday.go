package report

import (
	"time"

	"github.com/okian/mawsim/internal/domain/aggregate"
	"github.com/okian/mawsim/internal/domain/compare"
	"github.com/okian/mawsim/internal/domain/model"
)

// DefaultFocusDay is the weekly rest day in the target markets.
const DefaultFocusDay = time.Friday

// WeekdayBucket is the summary of one day of the week.
type WeekdayBucket struct {
	Day  int    `json:"day"`
	Name string `json:"name"`
	aggregate.Summary
}

// DayOfWeekReport compares one day of the week against the rest.
type DayOfWeekReport struct {
	Range       Range                `json:"range"`
	FocusDay    string               `json:"focusDay"`
	ByDayOfWeek []WeekdayBucket      `json:"byDayOfWeek"`
	Focus       aggregate.Summary    `json:"focusData"`
	Others      aggregate.Summary    `json:"otherDaysData"`
	Comparison  compare.Differential `json:"focusVsOtherDays"`
	// Excluded counts published items in scope that have no publishedDate.
	Excluded int `json:"excluded"`
}

// DayOfWeek buckets published content in r by weekday, Sunday first, and
// compares focus against all other days merged.
func DayOfWeek(contents []model.Content, r Range, focus time.Weekday) DayOfWeekReport {
	if focus < time.Sunday || focus > time.Saturday {
		focus = DefaultFocusDay
	}
	out := DayOfWeekReport{Range: r, FocusDay: focus.String()}

	samples := make([]model.Sample, 0, len(contents))
	for _, c := range contents {
		if c.Status != model.ContentPublished {
			continue
		}
		if c.PublishedDate.IsZero() {
			out.Excluded++
			continue
		}
		if r.Contains(c.PublishedDate) {
			samples = append(samples, c.Sample())
		}
	}

	g := aggregate.AggregateFixed(samples, aggregate.WeekdayDomain, aggregate.ByWeekday)
	out.ByDayOfWeek = make([]WeekdayBucket, len(g.Buckets))
	others := make([]*aggregate.Bucket, 0, len(g.Buckets)-1)
	for i, b := range g.Buckets {
		out.ByDayOfWeek[i] = WeekdayBucket{Day: i, Name: b.Key, Summary: b.Summary()}
		if time.Weekday(i) == focus {
			out.Focus = b.Summary()
			continue
		}
		others = append(others, b)
	}
	out.Others = aggregate.Merge("others", others...).Summary()
	out.Comparison = compare.Compare(out.Focus, out.Others)
	return out
}
