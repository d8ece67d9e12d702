package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/mawsim/internal/config"
	"github.com/okian/mawsim/internal/seed"
	"github.com/okian/mawsim/pkg/logger"
)

const defaultRunTimeout = 5 * time.Minute

func main() {
	defaults := seed.DefaultConfig()
	var (
		seedValue = flag.Int64("seed", defaults.Seed, "RNG seed")
		year      = flag.Int("year", defaults.Year, "Year the records are spread over")
		campaigns = flag.Int("campaigns", defaults.Campaigns, "Number of campaigns")
		content   = flag.Int("content", defaults.ContentPerCampaign, "Content items per campaign")
		accounts  = flag.Int("accounts", defaults.AccountsPerCampaign, "Social accounts per campaign")
		days      = flag.Int("days", defaults.PerformanceDays, "Daily performance entries per campaign")
		undated   = flag.Float64("undated", defaults.UndatedRate, "Share of published items without a date")
		missing   = flag.Float64("missing", defaults.MissingMetricRate, "Share of metric values left unrecorded")
		focus     = flag.String("focus", "friday", "Weekday with boosted engagement")
		calPath   = flag.String("calendar", "", "Calendar table YAML (default: built-in table)")
		output    = flag.String("output", defaults.Output, "Output file")
		probeURL  = flag.String("probe", "", "Base URL of a running service to check afterwards")
		workers   = flag.Int("workers", defaults.Workers, "Concurrent probe requests")
		timeout   = flag.Duration("timeout", defaults.Timeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithLevel(level)); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	focusDay, err := config.ParseWeekday(*focus)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := defaults
	cfg.Seed = *seedValue
	cfg.Year = *year
	cfg.Campaigns = *campaigns
	cfg.ContentPerCampaign = *content
	cfg.AccountsPerCampaign = *accounts
	cfg.PerformanceDays = *days
	cfg.UndatedRate = *undated
	cfg.MissingMetricRate = *missing
	cfg.FocusDay = focusDay
	cfg.CalendarPath = *calPath
	cfg.Output = *output
	cfg.ProbeURL = *probeURL
	cfg.Workers = *workers
	cfg.Timeout = *timeout

	err = seed.Run(ctx, cfg)
	cancel()
	stop()
	if err != nil {
		logger.Get().Error(context.Background(), "seed failed", logger.Error(err))
		os.Exit(1)
	}
}
