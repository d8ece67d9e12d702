// Package calendar classifies dates into named marketing periods such as
// Ramadan or Eid windows.
//
// A Table is built once from configuration, validated, and then shared
// read-only between any number of concurrent computations.
package calendar

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/mawsim/internal/domain/types"
)

// Label names a single period, e.g. "Eid al-Fitr".
type Label string

// Family groups related labels, e.g. "eid" for both Eid windows.
type Family string

// Period is an inclusive, year-scoped date interval.
type Period struct {
	Label  Label      `json:"label"`
	Family Family     `json:"family"`
	Start  types.Date `json:"start"`
	End    types.Date `json:"end"`
}

// Contains reports whether d lies in [Start, End].
func (p Period) Contains(d types.Date) bool { return d.Within(p.Start, p.End) }

func (p Period) String() string {
	return fmt.Sprintf("%s[%s..%s]", p.Label, p.Start, p.End)
}

// Table is a validated, year-indexed set of periods.
type Table struct {
	version  string
	byYear   map[int][]Period
	families map[Family][]Label
	// famYears records which years configure at least one period of a family.
	famYears map[Family]map[int]struct{}
}

// NewTable validates periods and indexes them by year. Periods must not
// span a year boundary and must not overlap any other period of the same
// year; touching intervals are allowed.
func NewTable(version string, periods []Period) (*Table, error) {
	t := &Table{
		version:  version,
		byYear:   make(map[int][]Period),
		families: make(map[Family][]Label),
		famYears: make(map[Family]map[int]struct{}),
	}
	for _, p := range periods {
		if err := validatePeriod(p); err != nil {
			return nil, err
		}
		y := p.Start.Year()
		t.byYear[y] = append(t.byYear[y], p)
		if !slices.Contains(t.families[p.Family], p.Label) {
			t.families[p.Family] = append(t.families[p.Family], p.Label)
		}
		if t.famYears[p.Family] == nil {
			t.famYears[p.Family] = make(map[int]struct{})
		}
		t.famYears[p.Family][y] = struct{}{}
	}
	for y, ps := range t.byYear {
		slices.SortStableFunc(ps, func(a, b Period) int { return a.Start.Compare(b.Start) })
		for i := 1; i < len(ps); i++ {
			if !ps[i].Start.After(ps[i-1].End) {
				prev := ps[i-1]
				return nil, &ConfigurationError{Reason: "overlapping periods", Period: ps[i], Other: &prev}
			}
		}
		t.byYear[y] = ps
	}
	return t, nil
}

func validatePeriod(p Period) error {
	switch {
	case strings.TrimSpace(string(p.Label)) == "":
		return &ConfigurationError{Reason: "empty label", Period: p}
	case strings.TrimSpace(string(p.Family)) == "":
		return &ConfigurationError{Reason: "empty family", Period: p}
	case p.Start.IsZero() || p.End.IsZero():
		return &ConfigurationError{Reason: "missing start or end date", Period: p}
	case p.Start.After(p.End):
		return &ConfigurationError{Reason: "start after end", Period: p}
	case p.Start.Year() != p.End.Year():
		return &ConfigurationError{Reason: "period crosses a year boundary", Period: p}
	}
	return nil
}

// Version returns the table version string.
func (t *Table) Version() string { return t.version }

// Classify returns the label of the period containing d. Only periods of
// d's own year are considered. When labels are given, a date inside a
// period with any other label classifies as none.
func (t *Table) Classify(d types.Date, labels ...Label) (Label, bool) {
	if d.IsZero() {
		return "", false
	}
	ps := t.byYear[d.Year()]
	i, _ := slices.BinarySearchFunc(ps, d, func(p Period, d types.Date) int {
		if p.End.Before(d) {
			return -1
		}
		if p.Start.After(d) {
			return 1
		}
		return 0
	})
	if i >= len(ps) || !ps[i].Contains(d) {
		return "", false
	}
	if len(labels) > 0 && !slices.Contains(labels, ps[i].Label) {
		return "", false
	}
	return ps[i].Label, true
}

// Periods returns the periods configured for year, ordered by start date.
func (t *Table) Periods(year int) []Period {
	return slices.Clone(t.byYear[year])
}

// PeriodCount returns the number of configured periods.
func (t *Table) PeriodCount() int {
	n := 0
	for _, ps := range t.byYear {
		n += len(ps)
	}
	return n
}

// Years returns the configured years in ascending order.
func (t *Table) Years() []int {
	years := make([]int, 0, len(t.byYear))
	for y := range t.byYear {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// Families returns the configured families sorted by name.
func (t *Table) Families() []Family {
	out := make([]Family, 0, len(t.families))
	for f := range t.families {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Labels returns the labels of family in configuration order.
func (t *Table) Labels(family Family) []Label {
	return slices.Clone(t.families[family])
}

// Configured reports whether family has at least one period in year.
func (t *Table) Configured(family Family, year int) bool {
	_, ok := t.famYears[family][year]
	return ok
}

// Resolve returns the labels of family whose name contains filter,
// ignoring case. An empty filter selects the whole family.
func (t *Table) Resolve(family Family, filter string) ([]Label, error) {
	labels, ok := t.families[family]
	if !ok {
		return nil, fmt.Errorf("%w: family %q", ErrUnknownPeriod, family)
	}
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return slices.Clone(labels), nil
	}
	var out []Label
	for _, l := range labels {
		if strings.Contains(strings.ToLower(string(l)), filter) {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q in family %q", ErrUnknownPeriod, filter, family)
	}
	return out, nil
}
