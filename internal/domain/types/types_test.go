package types_test

import (
	"encoding/json"
	"testing"
	"time"

	types "github.com/okian/mawsim/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDate(t *testing.T) {
	Convey("Given calendar dates", t, func() {
		Convey("When parsing a YYYY-MM-DD string", func() {
			d, err := types.ParseDate("2024-03-15")

			Convey("Then the parts should match", func() {
				So(err, ShouldBeNil)
				So(d.Year(), ShouldEqual, 2024)
				So(d.Month(), ShouldEqual, time.March)
				So(d.Day(), ShouldEqual, 15)
				So(d.String(), ShouldEqual, "2024-03-15")
				So(d.Weekday(), ShouldEqual, time.Friday)
			})
		})

		Convey("When parsing an RFC3339 timestamp", func() {
			d, err := types.ParseDate("2024-03-15T23:30:00+03:00")

			Convey("Then the date in the carried offset is kept", func() {
				So(err, ShouldBeNil)
				So(d.String(), ShouldEqual, "2024-03-15")
			})
		})

		Convey("When parsing garbage", func() {
			_, err := types.ParseDate("15/03/2024")

			Convey("Then it should fail with ErrInvalidDate", func() {
				So(err, ShouldWrap, types.ErrInvalidDate)
			})
		})

		Convey("When comparing dates", func() {
			a := types.MustParseDate("2024-03-10")
			b := types.MustParseDate("2024-04-09")

			Convey("Then ordering and closed-interval membership hold", func() {
				So(a.Before(b), ShouldBeTrue)
				So(b.After(a), ShouldBeTrue)
				So(a.Compare(a), ShouldEqual, 0)
				So(a.Within(a, b), ShouldBeTrue)
				So(b.Within(a, b), ShouldBeTrue)
				So(a.AddDays(-1).Within(a, b), ShouldBeFalse)
				So(b.AddDays(1).Within(a, b), ShouldBeFalse)
			})
		})

		Convey("When adding days across a month end", func() {
			d := types.NewDate(2024, time.February, 28).AddDays(2)

			Convey("Then the leap day is respected", func() {
				So(d.String(), ShouldEqual, "2024-03-01")
			})
		})

		Convey("When the date is missing", func() {
			var d types.Date

			Convey("Then it reports zero and encodes as null", func() {
				So(d.IsZero(), ShouldBeTrue)
				b, err := json.Marshal(d)
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, "null")
			})
		})

		Convey("When round-tripping through JSON", func() {
			var payload struct {
				Date types.Date `json:"date"`
			}
			err := json.Unmarshal([]byte(`{"date":"2023-06-28"}`), &payload)

			Convey("Then the YYYY-MM-DD form is used", func() {
				So(err, ShouldBeNil)
				b, err := json.Marshal(payload)
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"date":"2023-06-28"}`)
			})
		})
	})
}

func TestNullFloat(t *testing.T) {
	Convey("Given optional numbers", t, func() {
		Convey("When a value is absent", func() {
			var n types.NullFloat

			Convey("Then OrZero is 0 and it encodes as null", func() {
				So(n.Valid, ShouldBeFalse)
				So(n.OrZero(), ShouldEqual, 0)
				b, _ := json.Marshal(n)
				So(string(b), ShouldEqual, "null")
			})
		})

		Convey("When a zero value is present", func() {
			n := types.Float(0)

			Convey("Then it stays distinguishable from absent", func() {
				So(n.Valid, ShouldBeTrue)
				b, _ := json.Marshal(n)
				So(string(b), ShouldEqual, "0")
			})
		})

		Convey("When decoding a document with missing and null fields", func() {
			var m struct {
				Clicks      types.NullFloat `json:"clicks"`
				Engagement  types.NullFloat `json:"engagement"`
				Impressions types.NullFloat `json:"impressions"`
			}
			err := json.Unmarshal([]byte(`{"clicks":12.5,"engagement":null}`), &m)

			Convey("Then only the present field is valid", func() {
				So(err, ShouldBeNil)
				So(m.Clicks, ShouldResemble, types.Float(12.5))
				So(m.Engagement.Valid, ShouldBeFalse)
				So(m.Impressions.Valid, ShouldBeFalse)
			})
		})

		Convey("When converting from a pointer", func() {
			v := -3.0

			Convey("Then nil is absent and a value is kept", func() {
				So(types.FloatPtr(nil).Valid, ShouldBeFalse)
				So(types.FloatPtr(&v), ShouldResemble, types.Float(-3))
			})
		})
	})
}
