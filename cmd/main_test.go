package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/config"
	"github.com/okian/mawsim/internal/seed"
	"github.com/okian/mawsim/pkg/logger"
	"github.com/okian/mawsim/pkg/metrics"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	cfg := seed.DefaultConfig()
	cfg.Campaigns = 3
	cfg.ContentPerCampaign = 5
	ds, err := seed.Generate(cfg, nil)
	if err != nil {
		t.Fatalf("generate fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "fixture.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()
	if err := repository.WriteDataset(f, ds); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		ctx := context.Background()

		convey.Convey("When testing configuration loading", func() {
			t.Setenv("MAWSIM_ADDR", ":8080")
			t.Setenv("MAWSIM_QUEUE_SIZE", "1000")
			t.Setenv("MAWSIM_WORKER_COUNT", "4")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When assembling the service from a fixture", func() {
			cfg := config.New()
			cfg.WorkerCount = 2
			cfg.Store.FixturePath = writeFixture(t)

			svc, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop(ctx)

			convey.Convey("Then the configured options are applied", func() {
				stats := svc.GetStats()
				convey.So(stats["workerCount"], convey.ShouldEqual, 2)
				convey.So(stats["timezone"], convey.ShouldEqual, "Asia/Riyadh")
				convey.So(stats["focusDay"], convey.ShouldEqual, "Friday")
				convey.So(stats["breakerState"], convey.ShouldEqual, "closed")
			})

			convey.Convey("And the router serves the API and its docs", func() {
				h := newRouter(ctx, cfg, svc, logger.Nop())
				for _, path := range []string{
					"/healthz",
					"/stats",
					"/metrics",
					"/api-docs",
					"/openapi.yaml",
					"/api/analytics/dashboard",
					"/api/calendar/periods",
					"/api/cultural-analytics/overview?year=2025",
				} {
					w := httptest.NewRecorder()
					h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})

		convey.Convey("When the breaker is disabled", func() {
			cfg := config.New()
			cfg.Store.FixturePath = ""
			cfg.Breaker.Enabled = false

			svc, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.GetStats(), convey.ShouldNotContainKey, "breakerState")
		})

		convey.Convey("When the fixture is missing", func() {
			cfg := config.New()
			cfg.Store.FixturePath = filepath.Join(t.TempDir(), "missing.json")

			_, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "cmd/seed")
		})

		convey.Convey("When the calendar file is missing", func() {
			_, err := loadCalendar(ctx, filepath.Join(t.TempDir(), "calendar.yaml"))
			convey.So(err, convey.ShouldNotBeNil)

			table, err := loadCalendar(ctx, "")
			convey.So(err, convey.ShouldBeNil)
			convey.So(table.Families(), convey.ShouldNotBeEmpty)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager()
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}
