package seed

import "os"

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`mawsim seed
===========

Generates a reproducible synthetic dataset of campaigns, content and social
accounts for the memory store, and optionally probes a running service.

Usage:
  go run ./cmd/seed [options]

Options:
  -seed int           RNG seed; the same seed writes the same file (default 1)
  -year int           Year the records are spread over (default 2025)
  -campaigns int      Number of campaigns (default 12)
  -content int        Content items per campaign (default 40)
  -accounts int       Social accounts per campaign (default 2)
  -days int           Daily performance entries per campaign (default 90)
  -undated float      Share of published items without a date (default 0.02)
  -missing float      Share of metric values left unrecorded (default 0.05)
  -focus string       Weekday with boosted engagement (default friday)
  -calendar string    Calendar table YAML (default: built-in table)
  -output string      Output file (default "data/fixture.json")
  -probe string       Base URL of a running service to check afterwards
  -workers int        Concurrent probe requests (default 4)
  -timeout duration   HTTP request timeout (default 10s)
  -help               Show this help message

Examples:
  # Write the default fixture
  go run ./cmd/seed

  # A larger dataset for 2024, then check the service serving it
  go run ./cmd/seed -year 2024 -campaigns 50 -probe http://localhost:9080
`)
}
