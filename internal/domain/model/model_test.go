package model_test

import (
	"testing"

	model "github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestContent(t *testing.T) {
	convey.Convey("Given a content item", t, func() {
		c := model.Content{
			ID:            "c-1",
			CampaignID:    "camp-1",
			Type:          model.TypeSocialPost,
			Channel:       model.ChannelInstagram,
			Status:        model.ContentPublished,
			PublishedDate: types.MustParseDate("2024-03-15"),
			Performance: model.Metrics{
				Impressions: types.Float(1000),
				Clicks:      types.Float(40),
			},
		}

		convey.Convey("When projecting it to a sample", func() {
			s := c.Sample()

			convey.Convey("Then the publication date and dimensions carry over", func() {
				convey.So(s.ID, convey.ShouldEqual, "c-1")
				convey.So(s.Date, convey.ShouldResemble, c.PublishedDate)
				convey.So(s.ContentType, convey.ShouldEqual, model.TypeSocialPost)
				convey.So(s.Channel, convey.ShouldEqual, model.ChannelInstagram)
				convey.So(s.Metrics.Impressions.OrZero(), convey.ShouldEqual, 1000)
				convey.So(s.Metrics.ROI.Valid, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When checking whether it takes part in time-based reports", func() {
			convey.So(c.Published(), convey.ShouldBeTrue)

			undated := c
			undated.PublishedDate = types.Date{}
			convey.So(undated.Published(), convey.ShouldBeFalse)

			draft := c
			draft.Status = model.ContentDraft
			convey.So(draft.Published(), convey.ShouldBeFalse)
		})
	})
}

func TestCampaignSamples(t *testing.T) {
	convey.Convey("Given a campaign with performance history", t, func() {
		c := model.Campaign{
			ID: "camp-1",
			Performance: []model.PerformanceEntry{
				{Date: types.MustParseDate("2024-01-02"), Metrics: model.Metrics{Clicks: types.Float(3)}},
				{Metrics: model.Metrics{Clicks: types.Float(5)}},
			},
		}

		convey.Convey("When converting the history", func() {
			samples := c.Samples()

			convey.Convey("Then order is preserved and missing dates stay missing", func() {
				convey.So(samples, convey.ShouldHaveLength, 2)
				convey.So(samples[0].ID, convey.ShouldEqual, "camp-1")
				convey.So(samples[0].Date.String(), convey.ShouldEqual, "2024-01-02")
				convey.So(samples[1].Date.IsZero(), convey.ShouldBeTrue)
				convey.So(samples[1].Metrics.Clicks.OrZero(), convey.ShouldEqual, 5)
			})
		})
	})
}

func TestEnums(t *testing.T) {
	convey.Convey("Given the enumerations", t, func() {
		convey.Convey("Then known values are valid", func() {
			convey.So(model.TypeVideoScript.Valid(), convey.ShouldBeTrue)
			convey.So(model.ChannelTikTokArabia.Valid(), convey.ShouldBeTrue)
			convey.So(model.ContentScheduled.Valid(), convey.ShouldBeTrue)
			convey.So(model.CampaignPaused.Valid(), convey.ShouldBeTrue)
			convey.So(model.PlatformPinterest.Valid(), convey.ShouldBeTrue)
		})

		convey.Convey("Then unknown values are not", func() {
			convey.So(model.ContentType("podcast").Valid(), convey.ShouldBeFalse)
			convey.So(model.Channel("").Valid(), convey.ShouldBeFalse)
			convey.So(model.Platform("email").Valid(), convey.ShouldBeFalse)
			convey.So(model.CampaignStatus("archived").Valid(), convey.ShouldBeFalse)
		})
	})
}
