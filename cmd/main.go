package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/mawsim/internal/adapters/http/api"
	"github.com/okian/mawsim/internal/adapters/http/swagger"
	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/adapters/worker"
	service "github.com/okian/mawsim/internal/app"
	"github.com/okian/mawsim/internal/config"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/pkg/logger"
	"github.com/okian/mawsim/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(context.Background(), "service stop failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
	return nil
}

// newService assembles the calendar, store, worker pool and breaker from cfg.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	table, err := loadCalendar(ctx, cfg.CalendarPath)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	focus, err := cfg.Weekday()
	if err != nil {
		return nil, err
	}
	store, err := newStore(ctx, cfg, loc)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool(cfg.WorkerCount,
		worker.WithQueueCapacity(cfg.QueueSize),
		worker.WithLogger(log.Named("worker")),
	)
	opts := []service.Option{
		service.WithStore(store),
		service.WithCalendar(table),
		service.WithPool(pool),
		service.WithLogger(log.Named("service")),
		service.WithLocation(loc),
		service.WithFocusDay(focus),
		service.WithFetchTimeout(cfg.FetchTimeout()),
	}
	if cfg.Breaker.Enabled {
		opts = append(opts, service.WithBreaker(service.BreakerSettings{
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
		}))
	} else {
		opts = append(opts, service.WithoutBreaker())
	}

	svc, err := service.New(opts...)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	log.Info(ctx, "service configured",
		logger.String("store", cfg.Store.Driver),
		logger.String("calendar", table.Version()),
		logger.String("timezone", loc.String()),
		logger.String("focusDay", focus.String()),
		logger.Int("workers", pool.Size()),
	)
	return svc, nil
}

func loadCalendar(ctx context.Context, path string) (*calendar.Table, error) {
	if path == "" {
		return calendar.Default()
	}
	table, err := calendar.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	return table, nil
}

func newStore(ctx context.Context, cfg *config.Config, loc *time.Location) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		store, err := repository.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.Database,
			repository.WithLocation(loc),
			repository.WithConnectTimeout(cfg.ConnectTimeout()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		return store, nil
	default:
		var opts []repository.Option
		if cfg.Store.FixturePath != "" {
			opts = append(opts,
				repository.WithFixtureFile(cfg.Store.FixturePath),
				repository.WithReloadInterval(cfg.Store.ReloadInterval),
			)
		}
		store, err := repository.NewMemoryStore(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixture (generate one with cmd/seed): %w", err)
		}
		return store, nil
	}
}

// newRouter mounts the API and its documentation on one router.
func newRouter(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	apiServer := api.NewServer(svc, svc,
		api.WithCORSOrigins(cfg.HTTP.CORSOrigins...),
		api.WithRateLimit(cfg.HTTP.RateLimit),
		api.WithLogger(log.Named("http")),
	)
	apiServer.Register(ctx, r)
	swagger.Register(ctx, r)
	return r
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
