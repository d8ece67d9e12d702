package calendar_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func period(label, family, start, end string) calendar.Period {
	return calendar.Period{
		Label:  calendar.Label(label),
		Family: calendar.Family(family),
		Start:  types.MustParseDate(start),
		End:    types.MustParseDate(end),
	}
}

func TestClassify(t *testing.T) {
	Convey("Given the 2024 Ramadan and Eid windows", t, func() {
		table, err := calendar.NewTable("test", []calendar.Period{
			period("Eid al-Adha", "eid", "2024-06-16", "2024-06-20"),
			period("Ramadan", "ramadan", "2024-03-10", "2024-04-09"),
			period("Eid al-Fitr", "eid", "2024-04-10", "2024-04-12"),
		})
		So(err, ShouldBeNil)

		Convey("When classifying the interval bounds", func() {
			Convey("Then start and end are inside the period", func() {
				l, ok := table.Classify(types.MustParseDate("2024-03-10"))
				So(ok, ShouldBeTrue)
				So(l, ShouldEqual, calendar.Label("Ramadan"))

				l, ok = table.Classify(types.MustParseDate("2024-04-09"))
				So(ok, ShouldBeTrue)
				So(l, ShouldEqual, calendar.Label("Ramadan"))
			})

			Convey("Then the days just outside are not", func() {
				_, ok := table.Classify(types.MustParseDate("2024-03-09"))
				So(ok, ShouldBeFalse)

				l, ok := table.Classify(types.MustParseDate("2024-04-10"))
				So(ok, ShouldBeTrue)
				So(l, ShouldEqual, calendar.Label("Eid al-Fitr"))

				_, ok = table.Classify(types.MustParseDate("2024-06-21"))
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the year is not configured", func() {
			_, ok := table.Classify(types.MustParseDate("2030-03-15"))

			Convey("Then the date classifies as none", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the date is missing", func() {
			_, ok := table.Classify(types.Date{})
			So(ok, ShouldBeFalse)
		})

		Convey("When a label filter excludes the matching period", func() {
			_, ok := table.Classify(types.MustParseDate("2024-06-17"), "Eid al-Fitr")

			Convey("Then the date classifies as none rather than a generic Eid", func() {
				So(ok, ShouldBeFalse)
			})

			l, ok := table.Classify(types.MustParseDate("2024-04-11"), "Eid al-Fitr")
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, calendar.Label("Eid al-Fitr"))
		})

		Convey("When listing the table", func() {
			So(table.Years(), ShouldResemble, []int{2024})
			So(table.Families(), ShouldResemble, []calendar.Family{"eid", "ramadan"})
			So(table.Labels("eid"), ShouldResemble, []calendar.Label{"Eid al-Adha", "Eid al-Fitr"})
			ps := table.Periods(2024)
			So(ps, ShouldHaveLength, 3)
			So(ps[0].Label, ShouldEqual, calendar.Label("Ramadan"))
			So(table.Configured("eid", 2024), ShouldBeTrue)
			So(table.Configured("eid", 2023), ShouldBeFalse)
		})
	})
}

func TestNewTableValidation(t *testing.T) {
	Convey("Given malformed period tables", t, func() {
		cases := []struct {
			name    string
			periods []calendar.Period
		}{
			{"overlap across labels", []calendar.Period{
				period("Ramadan", "ramadan", "2023-03-22", "2023-04-21"),
				period("Eid al-Fitr", "eid", "2023-04-21", "2023-04-23"),
			}},
			{"overlap within a label", []calendar.Period{
				period("Ramadan", "ramadan", "2024-03-10", "2024-04-09"),
				period("Ramadan", "ramadan", "2024-04-01", "2024-04-20"),
			}},
			{"inverted interval", []calendar.Period{period("Ramadan", "ramadan", "2024-04-09", "2024-03-10")}},
			{"year crossing", []calendar.Period{period("Winter", "sale", "2024-12-20", "2025-01-05")}},
			{"empty label", []calendar.Period{period("", "sale", "2024-12-01", "2024-12-02")}},
			{"empty family", []calendar.Period{period("Winter", "", "2024-12-01", "2024-12-02")}},
			{"missing date", []calendar.Period{{Label: "Winter", Family: "sale", Start: types.MustParseDate("2024-12-01")}}},
		}

		for _, tc := range cases {
			Convey("When building a table with "+tc.name, func() {
				_, err := calendar.NewTable("bad", tc.periods)

				Convey("Then it fails fast with a configuration error", func() {
					So(errors.Is(err, calendar.ErrConfiguration), ShouldBeTrue)
					var cerr *calendar.ConfigurationError
					So(errors.As(err, &cerr), ShouldBeTrue)
				})
			})
		}

		Convey("When periods only touch", func() {
			_, err := calendar.NewTable("ok", []calendar.Period{
				period("Ramadan", "ramadan", "2024-03-10", "2024-04-09"),
				period("Eid al-Fitr", "eid", "2024-04-10", "2024-04-12"),
			})

			Convey("Then the table is accepted", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given the default table", t, func() {
		table := calendar.MustDefault()

		Convey("When filtering eid labels by substring", func() {
			labels, err := table.Resolve("eid", "FITR")

			So(err, ShouldBeNil)
			So(labels, ShouldResemble, []calendar.Label{"Eid al-Fitr"})
		})

		Convey("When no filter is given", func() {
			labels, err := table.Resolve("eid", "")

			So(err, ShouldBeNil)
			So(labels, ShouldHaveLength, 2)
		})

		Convey("When the filter matches nothing", func() {
			_, err := table.Resolve("eid", "christmas")
			So(err, ShouldWrap, calendar.ErrUnknownPeriod)
		})

		Convey("When the family is unknown", func() {
			_, err := table.Resolve("diwali", "")
			So(err, ShouldWrap, calendar.ErrUnknownPeriod)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the embedded default table", t, func() {
		table, err := calendar.Default()

		Convey("Then it validates and carries the original windows", func() {
			So(err, ShouldBeNil)
			So(table.Version(), ShouldEqual, "2026.1")
			So(table.Years(), ShouldResemble, []int{2023, 2024, 2025, 2026})
			l, ok := table.Classify(types.MustParseDate("2024-03-15"))
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, calendar.Label("Ramadan"))
			l, _ = table.Classify(types.MustParseDate("2023-04-21"))
			So(l, ShouldEqual, calendar.Label("Eid al-Fitr"))
		})
	})

	Convey("Given a table file on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "calendar.yaml")

		Convey("When the file is valid", func() {
			body := "version: v9\nperiods:\n" +
				"  - {label: Singles Day, family: sale, start: \"2025-11-11\", end: \"2025-11-11\"}\n"
			So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)

			table, err := calendar.Load(context.Background(), path)

			Convey("Then the table is loaded", func() {
				So(err, ShouldBeNil)
				So(table.Version(), ShouldEqual, "v9")
				l, ok := table.Classify(types.MustParseDate("2025-11-11"))
				So(ok, ShouldBeTrue)
				So(l, ShouldEqual, calendar.Label("Singles Day"))
			})
		})

		Convey("When the file overlaps periods", func() {
			body := "version: v9\nperiods:\n" +
				"  - {label: A, family: sale, start: \"2025-11-01\", end: \"2025-11-10\"}\n" +
				"  - {label: B, family: sale, start: \"2025-11-10\", end: \"2025-11-12\"}\n"
			So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)

			_, err := calendar.Load(context.Background(), path)

			Convey("Then loading fails", func() {
				So(errors.Is(err, calendar.ErrConfiguration), ShouldBeTrue)
			})
		})

		Convey("When a date is malformed", func() {
			body := "version: v9\nperiods:\n" +
				"  - {label: A, family: sale, start: \"11/01/2025\", end: \"2025-11-10\"}\n"
			So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)

			_, err := calendar.Load(context.Background(), path)
			So(errors.Is(err, calendar.ErrConfiguration), ShouldBeTrue)
		})

		Convey("When the file does not exist", func() {
			_, err := calendar.Load(context.Background(), filepath.Join(dir, "missing.yaml"))
			So(errors.Is(err, calendar.ErrConfiguration), ShouldBeTrue)
		})
	})
}
