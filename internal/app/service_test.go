package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/mawsim/internal/app"
	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/adapters/worker"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/report"
	"github.com/okian/mawsim/internal/domain/types"
	"github.com/okian/mawsim/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// Sunday 2025-06-15.
var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func d(s string) types.Date { return types.MustParseDate(s) }

func m(impressions, clicks, engagement float64) model.Metrics {
	var out model.Metrics
	if impressions > 0 {
		out.Impressions = types.Float(impressions)
	}
	if clicks > 0 {
		out.Clicks = types.Float(clicks)
	}
	if engagement > 0 {
		out.Engagement = types.Float(engagement)
	}
	return out
}

func published(id, campaign, date string, metrics model.Metrics) model.Content {
	c := model.Content{
		ID:          id,
		CampaignID:  campaign,
		Title:       id,
		Type:        model.TypeSocialPost,
		Channel:     model.ChannelInstagram,
		Status:      model.ContentPublished,
		Performance: metrics,
	}
	if date != "" {
		c.PublishedDate = d(date)
	}
	return c
}

func fixture() repository.Dataset {
	return repository.Dataset{
		Campaigns: []model.Campaign{
			{
				ID: "c1", Name: "Ramadan Launch", Status: model.CampaignActive,
				CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				Performance: []model.PerformanceEntry{
					{Date: d("2025-04-01"), Metrics: m(999, 0, 0)},
					{Date: d("2025-06-01"), Metrics: m(100, 10, 5)},
					{Date: d("2025-06-01"), Metrics: m(50, 0, 15)},
					{Date: d("2025-06-10"), Metrics: m(200, 0, 0)},
					{Metrics: m(10, 0, 0)},
				},
			},
			{
				ID: "c2", Name: "Summer", Status: model.CampaignDraft,
				CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Contents: []model.Content{
			// Ramadan 2025: 1500 impressions, 60 clicks.
			published("r1", "c1", "2025-03-05", m(500, 20, 0)),
			published("r2", "c1", "2025-03-12", m(500, 20, 0)),
			published("r3", "c1", "2025-03-20", m(500, 20, 0)),
			// Eid al-Fitr, no metrics.
			published("e1", "c1", "2025-03-31", model.Metrics{}),
			// Rest of the year: 3000 impressions, 30 clicks.
			published("o1", "c2", "2025-05-10", m(1500, 15, 10)),
			published("o2", "c2", "2025-05-20", m(1500, 15, 10)),
			// A Friday.
			published("f1", "c2", "2025-06-13", m(0, 0, 100)),
			published("u1", "c2", "", m(10, 1, 0)),
			{ID: "d1", CampaignID: "c1", Title: "draft", Type: model.TypeEmail, Channel: model.ChannelEmail, Status: model.ContentDraft},
		},
		SocialAccounts: []model.SocialAccount{
			{ID: "s1", CampaignID: "c1", Platform: model.PlatformInstagram, Followers: 1000},
			{ID: "s2", CampaignID: "c1", Platform: model.PlatformTikTokArabia, Followers: 500},
		},
	}
}

func newService(opts ...service.Option) *service.Service {
	store, err := repository.NewMemoryStore(context.Background(), repository.WithDataset(fixture()))
	So(err, ShouldBeNil)
	base := []service.Option{
		service.WithStore(store),
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithLogger(logger.Nop()),
	}
	svc, err := service.New(append(base, opts...)...)
	So(err, ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given no store", t, func() {
		_, err := service.New()

		Convey("Then construction fails", func() {
			So(errors.Is(err, service.ErrNoStore), ShouldBeTrue)
		})
	})

	Convey("Given a store and defaults", t, func() {
		svc := newService()

		Convey("Then the built-in calendar and Friday focus are used", func() {
			So(svc.Calendar(), ShouldNotBeNil)
			So(svc.Calendar().Families(), ShouldResemble, []calendar.Family{"eid", "ramadan", "sale"})
			So(svc.FocusDay(), ShouldEqual, time.Friday)
			So(svc.Today(), ShouldResemble, d("2025-06-15"))
		})
	})

	Convey("Given a market time zone ahead of UTC", t, func() {
		late := time.Date(2025, 6, 15, 22, 30, 0, 0, time.UTC)
		svc := newService(
			service.WithClock(func() time.Time { return late }),
			service.WithLocation(time.FixedZone("AST", 3*60*60)),
		)

		Convey("Then today is already the next day", func() {
			So(svc.Today(), ShouldResemble, d("2025-06-16"))
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service with a pool", t, func() {
		pool := worker.NewPool(2, worker.WithLogger(logger.Nop()))
		svc := newService(service.WithPool(pool))
		ctx := context.Background()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["breakerState"], ShouldEqual, "closed")
		})

		Convey("When starting and stopping", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)

			So(svc.Stop(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.Stop(ctx), ShouldBeNil)
		})
	})
}

func TestService_Dashboard(t *testing.T) {
	Convey("Given a started service with a pool", t, func() {
		svc := newService(service.WithPool(worker.NewPool(3, worker.WithLogger(logger.Nop()))))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When computing the dashboard", func() {
			r, err := svc.Dashboard(ctx)

			Convey("Then every collection is summarized", func() {
				So(err, ShouldBeNil)
				So(r.Campaigns.Total, ShouldEqual, 2)
				So(r.Campaigns.Active, ShouldEqual, 1)
				So(r.Campaigns.Recent[0].ID, ShouldEqual, "c2")
				So(r.Content.Total, ShouldEqual, 9)
				So(r.Content.Published, ShouldEqual, 8)
				So(r.SocialMedia.TotalAccounts, ShouldEqual, 2)
				So(r.SocialMedia.TotalFollowers, ShouldEqual, 1500.0)
			})
		})
	})
}

func TestService_CampaignPerformance(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("When no range is given", func() {
			r, err := svc.CampaignPerformance(ctx, "c1", types.Date{}, types.Date{})

			Convey("Then the last 30 days are reported", func() {
				So(err, ShouldBeNil)
				So(r.CampaignName, ShouldEqual, "Ramadan Launch")
				So(r.Range.Start, ShouldResemble, d("2025-05-16"))
				So(r.Range.End, ShouldResemble, d("2025-06-15"))
				So(r.Points, ShouldHaveLength, 2)
				So(r.Points[0].Date, ShouldEqual, "2025-06-01")
				So(r.Points[0].Impressions, ShouldEqual, 150.0)
				So(r.Points[0].Engagement, ShouldEqual, 10.0)
				So(r.Excluded, ShouldEqual, 1)
			})
		})

		Convey("When the range is reversed", func() {
			_, err := svc.CampaignPerformance(ctx, "c1", d("2025-06-10"), d("2025-06-01"))

			Convey("Then an invalid range error is returned", func() {
				var rangeErr *report.InvalidRangeError
				So(errors.As(err, &rangeErr), ShouldBeTrue)
				So(errors.Is(err, report.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When the campaign does not exist", func() {
			_, err := svc.CampaignPerformance(ctx, "nope", types.Date{}, types.Date{})

			Convey("Then not found is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_ContentPerformance(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("When filtering by campaign", func() {
			r, err := svc.ContentPerformance(ctx, report.ContentQuery{CampaignID: "c1"})

			Convey("Then only its published content is reported, newest first", func() {
				So(err, ShouldBeNil)
				So(r.Summary.TotalContent, ShouldEqual, 4)
				So(r.Summary.TotalImpressions, ShouldEqual, 1500.0)
				So(r.Content[0].ID, ShouldEqual, "e1")
				So(r.Content[0].Campaign, ShouldEqual, "Ramadan Launch")
			})
		})

		Convey("When filtering by date", func() {
			r, err := svc.ContentPerformance(ctx, report.ContentQuery{Start: d("2025-05-01"), End: d("2025-05-31")})

			Convey("Then undated items are excluded and counted", func() {
				So(err, ShouldBeNil)
				So(r.Summary.TotalContent, ShouldEqual, 2)
				So(r.Excluded, ShouldEqual, 1)
			})
		})

		Convey("When the range is reversed", func() {
			_, err := svc.ContentPerformance(ctx, report.ContentQuery{Start: d("2025-05-31"), End: d("2025-05-01")})
			So(errors.Is(err, report.ErrInvalidRange), ShouldBeTrue)
		})
	})
}

func TestService_DayOfWeek(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("When comparing Friday with the last twelve weeks", func() {
			r, err := svc.DayOfWeek(ctx, types.Date{}, types.Date{})

			Convey("Then Friday engagement is ten times the rest", func() {
				So(err, ShouldBeNil)
				So(r.Range.Start, ShouldResemble, d("2025-03-23"))
				So(r.ByDayOfWeek, ShouldHaveLength, 7)
				So(r.FocusDay, ShouldEqual, "Friday")
				So(r.Focus.Count, ShouldEqual, 1)
				So(r.Others.Count, ShouldEqual, 3)
				So(r.Comparison.EngagementDiff, ShouldAlmostEqual, 900)
				So(r.Excluded, ShouldEqual, 1)
			})
		})

		Convey("When focusing on another day", func() {
			r, err := svc.DayOfWeekFocus(ctx, types.Date{}, types.Date{}, time.Saturday)

			So(err, ShouldBeNil)
			So(r.FocusDay, ShouldEqual, "Saturday")
			So(r.Focus.Count, ShouldEqual, 1)
		})
	})
}

func TestService_HolidayPerformance(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("When comparing Ramadan 2025 with the rest of the year", func() {
			r, err := svc.HolidayPerformance(ctx, "ramadan", 0, "")

			Convey("Then in-period CTR is four times the rest", func() {
				So(err, ShouldBeNil)
				So(r.Year, ShouldEqual, 2025)
				So(r.Configured, ShouldBeTrue)
				So(r.PeriodName, ShouldEqual, "Ramadan")
				So(r.InPeriod.TotalImpressions, ShouldEqual, 1500.0)
				So(r.InPeriod.TotalClicks, ShouldEqual, 60.0)
				So(r.InPeriod.CTR, ShouldAlmostEqual, 4.0)
				So(r.OutOfPeriod.CTR, ShouldAlmostEqual, 1.0)
				So(r.Comparison.CTRDiff, ShouldAlmostEqual, 300)
				So(r.Excluded, ShouldEqual, 1)
			})
		})

		Convey("When narrowing Eid to al-Fitr", func() {
			r, err := svc.HolidayPerformance(ctx, "eid", 2025, "fitr")

			Convey("Then only that window counts as in-period", func() {
				So(err, ShouldBeNil)
				So(r.Labels, ShouldResemble, []calendar.Label{"Eid al-Fitr"})
				So(r.PeriodName, ShouldEqual, "Eid al-Fitr")
				So(r.InPeriod.Count, ShouldEqual, 1)
			})
		})

		Convey("When the year has no configured period", func() {
			r, err := svc.HolidayPerformance(ctx, "ramadan", 2019, "")

			Convey("Then the report says so instead of failing", func() {
				So(err, ShouldBeNil)
				So(r.Configured, ShouldBeFalse)
				So(r.InPeriod.Count, ShouldEqual, 0)
			})
		})

		Convey("When the family or label is unknown", func() {
			_, err := svc.HolidayPerformance(ctx, "diwali", 2025, "")
			So(errors.Is(err, calendar.ErrUnknownPeriod), ShouldBeTrue)

			_, err = svc.HolidayPerformance(ctx, "eid", 2025, "christmas")
			So(errors.Is(err, calendar.ErrUnknownPeriod), ShouldBeTrue)
		})

		Convey("When the year is out of range", func() {
			_, err := svc.HolidayPerformance(ctx, "eid", -4, "")
			So(errors.Is(err, report.ErrInvalidYear), ShouldBeTrue)
		})
	})
}

func TestService_HolidayOverview(t *testing.T) {
	Convey("Given a started service with a pool", t, func() {
		svc := newService(service.WithPool(worker.NewPool(2, worker.WithLogger(logger.Nop()))))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When computing the overview for the current year", func() {
			o, err := svc.HolidayOverview(ctx, 0)

			Convey("Then every family is reported in name order", func() {
				So(err, ShouldBeNil)
				So(o.Year, ShouldEqual, 2025)
				So(o.Families, ShouldHaveLength, 3)
				So(o.Families[0].Family, ShouldEqual, calendar.Family("eid"))
				So(o.Families[1].Family, ShouldEqual, calendar.Family("ramadan"))
				So(o.Families[1].Comparison.CTRDiff, ShouldAlmostEqual, 300)
				So(o.Families[2].Family, ShouldEqual, calendar.Family("sale"))
			})
		})

		Convey("When the year is invalid", func() {
			_, err := svc.HolidayOverview(ctx, 10000)
			So(errors.Is(err, report.ErrInvalidYear), ShouldBeTrue)
		})
	})
}

func TestService_Periods(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()

		Convey("When listing one year", func() {
			p := svc.Periods(2025)
			So(p.Periods, ShouldHaveLength, 4)
			So(p.Periods[0].Label, ShouldEqual, calendar.Label("Ramadan"))
			So(p.Version, ShouldEqual, svc.Calendar().Version())
		})

		Convey("When listing a year without periods", func() {
			So(svc.Periods(1999).Periods, ShouldBeEmpty)
		})

		Convey("When listing every year", func() {
			So(len(svc.Periods(0).Periods), ShouldEqual, svc.Calendar().PeriodCount())
		})
	})
}
