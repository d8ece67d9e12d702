package seed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/mawsim/internal/adapters/worker"
	"github.com/okian/mawsim/pkg/logger"
)

// ProbeResult is the outcome of one GET against a running service.
type ProbeResult struct {
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

// OK reports whether the endpoint answered 200 with a JSON body.
func (r ProbeResult) OK() bool { return r.Err == nil && r.Status == http.StatusOK }

// probePaths lists the report endpoints checked after seeding.
func probePaths(year int) []string {
	return []string{
		"/healthz",
		"/api/analytics/dashboard",
		"/api/analytics/content/performance",
		"/api/cultural-analytics/weekday-engagement",
		fmt.Sprintf("/api/cultural-analytics/ramadan-performance?year=%d", year),
		fmt.Sprintf("/api/cultural-analytics/eid-performance?year=%d", year),
		fmt.Sprintf("/api/cultural-analytics/overview?year=%d", year),
		fmt.Sprintf("/api/calendar/periods?year=%d", year),
	}
}

// Probe requests every report endpoint of the service at baseURL
// concurrently and returns one result per path, in path order.
func Probe(ctx context.Context, baseURL string, year int, workers int, timeout time.Duration) ([]ProbeResult, error) {
	client := &http.Client{Timeout: timeout}
	base := strings.TrimRight(baseURL, "/")
	paths := probePaths(year)

	pool := worker.NewPool(workers, worker.WithQueueCapacity(len(paths)))
	pool.Start()
	defer pool.Shutdown(context.Background())

	results := make([]ProbeResult, len(paths))
	jobs := make([]worker.Job, len(paths))
	for i, p := range paths {
		jobs[i] = func(ctx context.Context) error {
			results[i] = probeOne(ctx, client, base, p)
			return nil
		}
	}
	if err := pool.Do(ctx, jobs...); err != nil {
		return nil, fmt.Errorf("probe %s: %w", base, err)
	}
	return results, nil
}

func probeOne(ctx context.Context, client *http.Client, base, path string) (res ProbeResult) {
	res.Path = path
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, http.NoBody)
	if err != nil {
		res.Err = err
		return res
	}
	resp, err := client.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	switch {
	case err != nil:
		res.Err = fmt.Errorf("read body: %w", err)
	case !json.Valid(body):
		res.Err = fmt.Errorf("response is not JSON")
	}
	return res
}

// logProbe reports the results and fails if any endpoint did.
func logProbe(ctx context.Context, results []ProbeResult) error {
	failed := 0
	for _, r := range results {
		fields := []logger.Field{
			logger.String("path", r.Path),
			logger.Int("status", r.Status),
			logger.Duration("duration", r.Duration),
		}
		if r.OK() {
			logger.Get().Info(ctx, "probe ok", fields...)
			continue
		}
		failed++
		if r.Err != nil {
			fields = append(fields, logger.Error(r.Err))
		}
		logger.Get().Error(ctx, "probe failed", fields...)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d endpoints", ErrProbeFailed, failed, len(results))
	}
	return nil
}
