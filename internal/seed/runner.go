package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Stats summarizes a generated dataset.
type Stats struct {
	Campaigns       int
	Contents        int
	Published       int
	Undated         int
	SocialAccounts  int
	PerformanceDays int
	Duration        time.Duration
}

// Summarize counts the records of ds.
func Summarize(ds repository.Dataset) Stats {
	s := Stats{
		Campaigns:      len(ds.Campaigns),
		Contents:       len(ds.Contents),
		SocialAccounts: len(ds.SocialAccounts),
	}
	for _, c := range ds.Campaigns {
		s.PerformanceDays += len(c.Performance)
	}
	for _, c := range ds.Contents {
		if c.Status != model.ContentPublished {
			continue
		}
		s.Published++
		if c.PublishedDate.IsZero() {
			s.Undated++
		}
	}
	return s
}

// Run generates the dataset, writes it to cfg.Output and, when cfg.ProbeURL
// is set, checks a running service that serves it.
func Run(ctx context.Context, cfg Config) error {
	start := time.Now()
	logger.Get().Info(ctx, "generating dataset",
		logger.Int("seed", int(cfg.Seed)),
		logger.Int("year", cfg.Year),
		logger.Int("campaigns", cfg.Campaigns),
		logger.Int("contentPerCampaign", cfg.ContentPerCampaign),
		logger.String("output", cfg.Output),
	)

	table, err := loadCalendar(ctx, cfg.CalendarPath)
	if err != nil {
		return err
	}
	ds, err := Generate(cfg, table)
	if err != nil {
		return fmt.Errorf("generate dataset: %w", err)
	}
	if err := writeFile(cfg.Output, ds); err != nil {
		return err
	}

	stats := Summarize(ds)
	stats.Duration = time.Since(start)
	logger.Get().Info(ctx, "dataset written",
		logger.String("output", cfg.Output),
		logger.Int("campaigns", stats.Campaigns),
		logger.Int("contents", stats.Contents),
		logger.Int("published", stats.Published),
		logger.Int("undated", stats.Undated),
		logger.Int("socialAccounts", stats.SocialAccounts),
		logger.Int("performanceDays", stats.PerformanceDays),
		logger.Duration("duration", stats.Duration),
	)

	if cfg.ProbeURL == "" {
		return nil
	}
	results, err := Probe(ctx, cfg.ProbeURL, cfg.Year, cfg.Workers, cfg.Timeout)
	if err != nil {
		return err
	}
	return logProbe(ctx, results)
}

func loadCalendar(ctx context.Context, path string) (*calendar.Table, error) {
	if path == "" {
		return calendar.Default()
	}
	table, err := calendar.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	return table, nil
}

func writeFile(path string, ds repository.Dataset) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := repository.WriteDataset(f, ds); err != nil {
		_ = f.Close()
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
