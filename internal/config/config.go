// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Every field carries a koanf tag; nested sections use their own struct.
//   - New returns the defaults, Load layers file and environment on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// WorkerCount sets the number of report workers.
	WorkerCount int `koanf:"worker_count"`
	// QueueSize bounds the worker job queue.
	QueueSize int `koanf:"queue_size"`
	// FetchTimeoutMS bounds every storage fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`
	// CalendarPath points to a period calendar YAML. Empty uses the built-in table.
	CalendarPath string `koanf:"calendar_path"`
	// FocusDay is the weekday compared against the rest of the week.
	FocusDay string `koanf:"focus_day"`

	Store   StoreConfig   `koanf:"store"`
	Breaker BreakerConfig `koanf:"breaker"`
	HTTP    HTTPConfig    `koanf:"http"`
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	// Driver is "memory" (JSON fixture) or "mongo".
	Driver         string        `koanf:"driver"`
	FixturePath    string        `koanf:"fixture_path"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
	MongoURI       string        `koanf:"mongo_uri"`
	Database       string        `koanf:"database"`
	// Timezone is the market time zone used to turn timestamps into dates.
	Timezone         string `koanf:"timezone"`
	ConnectTimeoutMS int    `koanf:"connect_timeout_ms"`
}

// BreakerConfig tunes the circuit breaker around storage fetches.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`
	// Interval clears the failure counts while closed. Zero never clears.
	Interval time.Duration `koanf:"interval"`
	// Timeout is how long the breaker stays open.
	Timeout time.Duration `koanf:"timeout"`
	// FailureThreshold is the number of consecutive failures that opens it.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// HTTPConfig configures the API server surface.
type HTTPConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`
	// RateLimit is the number of requests per minute per client IP. Zero disables it.
	RateLimit       int           `koanf:"rate_limit"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		WorkerCount:    runtime.NumCPU(),
		QueueSize:      256,
		FetchTimeoutMS: 5000,
		FocusDay:       "friday",
		Store: StoreConfig{
			Driver:           DriverMemory,
			FixturePath:      "data/fixture.json",
			Database:         "mawsim",
			Timezone:         "Asia/Riyadh",
			ConnectTimeoutMS: 10000,
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		HTTP: HTTPConfig{
			CORSOrigins:     []string{"*"},
			RateLimit:       600,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// ConnectTimeout returns the store connect timeout as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Store.ConnectTimeoutMS) * time.Millisecond
}

// Location loads the store time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Store.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: store.timezone %q: %v", ErrInvalidConfig, c.Store.Timezone, err)
	}
	return loc, nil
}

// Weekday parses FocusDay, e.g. "friday" or "Fri".
func (c *Config) Weekday() (time.Weekday, error) {
	return ParseWeekday(c.FocusDay)
}

// ParseWeekday accepts full or three-letter English weekday names, any case.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, s)
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Addr == "" {
		problems = append(problems, "addr must not be empty")
	}
	if c.WorkerCount < 1 {
		problems = append(problems, "worker_count must be positive")
	}
	if c.QueueSize < 1 {
		problems = append(problems, "queue_size must be positive")
	}
	if c.FetchTimeoutMS < 1 {
		problems = append(problems, "fetch_timeout_ms must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q must be text or json", c.LogFormat))
	}
	if _, err := c.Weekday(); err != nil {
		problems = append(problems, fmt.Sprintf("focus_day %q is not a weekday", c.FocusDay))
	}
	switch c.Store.Driver {
	case DriverMemory:
		if c.Store.FixturePath == "" {
			problems = append(problems, "store.fixture_path is required for the memory driver")
		}
	case DriverMongo:
		if c.Store.MongoURI == "" || c.Store.Database == "" {
			problems = append(problems, "store.mongo_uri and store.database are required for the mongo driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q must be memory or mongo", c.Store.Driver))
	}
	if _, err := time.LoadLocation(c.Store.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("store.timezone %q is unknown", c.Store.Timezone))
	}
	if c.Breaker.Enabled && c.Breaker.FailureThreshold == 0 {
		problems = append(problems, "breaker.failure_threshold must be positive")
	}
	if c.HTTP.RateLimit < 0 {
		problems = append(problems, "http.rate_limit must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
