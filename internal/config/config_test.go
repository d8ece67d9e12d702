package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/mawsim/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 256)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Store.Driver, convey.ShouldEqual, config.DriverMemory)
			convey.So(cfg.Breaker.FailureThreshold, convey.ShouldEqual, uint32(5))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the focus day is Friday", func() {
			day, err := cfg.Weekday()
			convey.So(err, convey.ShouldBeNil)
			convey.So(day, convey.ShouldEqual, time.Friday)
		})

		convey.Convey("Then the store location loads", func() {
			loc, err := cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc.String(), convey.ShouldEqual, "Asia/Riyadh")
		})
	})
}

func TestParseWeekday(t *testing.T) {
	convey.Convey("Given weekday names", t, func() {
		cases := []struct {
			in   string
			want time.Weekday
		}{
			{"friday", time.Friday},
			{"Sunday", time.Sunday},
			{" SAT ", time.Saturday},
			{"thu", time.Thursday},
		}
		for _, c := range cases {
			got, err := config.ParseWeekday(c.in)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, c.want)
		}

		_, err := config.ParseWeekday("someday")
		convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := config.New()

		cases := []struct {
			name   string
			mutate func(*config.Config)
			want   string
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }, "addr must not be empty"},
			{"no workers", func(c *config.Config) { c.WorkerCount = 0 }, "worker_count"},
			{"no queue", func(c *config.Config) { c.QueueSize = 0 }, "queue_size"},
			{"no timeout", func(c *config.Config) { c.FetchTimeoutMS = 0 }, "fetch_timeout_ms"},
			{"bad format", func(c *config.Config) { c.LogFormat = "xml" }, "log_format"},
			{"bad focus day", func(c *config.Config) { c.FocusDay = "caturday" }, "focus_day"},
			{"bad driver", func(c *config.Config) { c.Store.Driver = "redis" }, "store.driver"},
			{"mongo without uri", func(c *config.Config) { c.Store.Driver = config.DriverMongo }, "store.mongo_uri"},
			{"memory without fixture", func(c *config.Config) { c.Store.FixturePath = "" }, "store.fixture_path"},
			{"bad timezone", func(c *config.Config) { c.Store.Timezone = "Mars/Olympus" }, "store.timezone"},
			{"breaker without threshold", func(c *config.Config) { c.Breaker.FailureThreshold = 0 }, "breaker.failure_threshold"},
			{"negative rate", func(c *config.Config) { c.HTTP.RateLimit = -1 }, "http.rate_limit"},
		}

		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
				})
			})
		}
	})
}
