package report

import (
	"fmt"

	"github.com/okian/mawsim/internal/domain/aggregate"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/compare"
	"github.com/okian/mawsim/internal/domain/model"
)

const (
	keyIn  = "in"
	keyOut = "out"
)

// HolidayQuery selects the family, year and optionally the labels of the
// periods to compare against the rest of the year.
type HolidayQuery struct {
	Family calendar.Family
	Year   int
	// Labels restricts the family; empty means all of its labels.
	Labels []calendar.Label
}

// HolidayReport compares content published inside a family's periods with
// content published in the rest of the same year.
type HolidayReport struct {
	Family calendar.Family  `json:"family"`
	Year   int              `json:"year"`
	Labels []calendar.Label `json:"labels"`
	// PeriodName is the label of the first in-period item, if any.
	PeriodName string `json:"periodName"`
	// Configured is false when the table has no period of the family that year.
	Configured  bool                 `json:"configured"`
	InPeriod    aggregate.Summary    `json:"inPeriod"`
	OutOfPeriod aggregate.Summary    `json:"outOfPeriod"`
	Comparison  compare.Differential `json:"comparison"`
	// Excluded counts published items without a publishedDate.
	Excluded int `json:"excluded"`
}

// HolidayPeriod partitions the year's published content with the calendar
// table and diffs the in-period summary against the out-of-period one.
func HolidayPeriod(contents []model.Content, table *calendar.Table, q HolidayQuery) (HolidayReport, error) {
	if table == nil {
		return HolidayReport{}, ErrNoCalendar
	}
	if q.Year < 1 || q.Year > 9999 {
		return HolidayReport{}, fmt.Errorf("%w: %d", ErrInvalidYear, q.Year)
	}
	labels := q.Labels
	if len(labels) == 0 {
		var err error
		if labels, err = table.Resolve(q.Family, ""); err != nil {
			return HolidayReport{}, err
		}
	}
	out := HolidayReport{
		Family:     q.Family,
		Year:       q.Year,
		Labels:     labels,
		Configured: table.Configured(q.Family, q.Year),
	}

	samples := make([]model.Sample, 0, len(contents))
	for _, c := range contents {
		if c.Status != model.ContentPublished {
			continue
		}
		if c.PublishedDate.IsZero() {
			out.Excluded++
			continue
		}
		if c.PublishedDate.Year() == q.Year {
			samples = append(samples, c.Sample())
		}
	}

	g := aggregate.AggregateFixed(samples, []string{keyIn, keyOut}, func(s model.Sample) (string, bool) {
		label, ok := table.Classify(s.Date, labels...)
		if !ok {
			return keyOut, true
		}
		if out.PeriodName == "" {
			out.PeriodName = string(label)
		}
		return keyIn, true
	})
	in, _ := g.Get(keyIn)
	rest, _ := g.Get(keyOut)
	out.InPeriod = in.Summary()
	out.OutOfPeriod = rest.Summary()
	out.Comparison = compare.Compare(out.InPeriod, out.OutOfPeriod)
	return out, nil
}
