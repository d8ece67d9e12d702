// Package worker runs independent jobs on a fixed pool of goroutines fed by
// a bounded queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/mawsim/pkg/logger"
	"github.com/okian/mawsim/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// worker pulls tasks off the queue until it is closed.
type worker struct {
	name   string
	pool   *Pool
	done   chan struct{}
	logger logger.Logger
}

func (w *worker) run() {
	defer close(w.done)

	for t := range w.pool.queue.dequeue() {
		metrics.UpdateWorkerQueue(w.pool.queue.len(), w.pool.queue.capacity)
		t.done <- w.process(t)
	}
}

// process runs one task. A task whose caller already gave up is skipped.
func (w *worker) process(t task) (err error) {
	if err := t.ctx.Err(); err != nil {
		return err
	}

	metrics.UpdateWorkerActiveCount(int(w.pool.active.Add(1)))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
			w.logger.Error(t.ctx, "job panicked", logger.Any("panic", r))
		}
		metrics.UpdateWorkerActiveCount(int(w.pool.active.Add(-1)))
		metrics.RecordWorkerJob(float64(time.Since(start).Microseconds()) / 1000)
		if err != nil {
			metrics.RecordWorkerError()
		}
	}()

	return t.job(t.ctx)
}

// Pool manages a fixed set of workers.
type Pool struct {
	workers  []*worker
	queue    *queue
	capacity int
	active   atomic.Int64
	started  atomic.Bool

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. Non-positive counts use
// the number of CPUs.
func NewPool(workerCount int, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers:  make([]*worker, workerCount),
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}
	p.queue = newQueue(p.capacity)

	for i := range p.workers {
		name := "worker-" + strconv.Itoa(i)
		p.workers[i] = &worker{
			name:   name,
			pool:   p,
			done:   make(chan struct{}),
			logger: p.logger.Named(name),
		}
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches the workers. Calling it twice is a no-op.
func (p *Pool) Start() {
	if p.started.Swap(true) {
		return
	}
	for _, w := range p.workers {
		go w.run()
	}
}

// Submit queues job and returns a channel that receives its result.
func (p *Pool) Submit(ctx context.Context, job Job) (<-chan error, error) {
	if !p.started.Load() {
		return nil, ErrStopped
	}
	t := task{ctx: ctx, job: job, done: make(chan error, 1)}
	if err := p.queue.enqueue(t); err != nil {
		return nil, err
	}
	return t.done, nil
}

// Do runs jobs concurrently and waits for all of them. The returned error
// joins the job errors in job order. If ctx ends first Do returns ctx.Err()
// and any job still running is abandoned.
func (p *Pool) Do(ctx context.Context, jobs ...Job) error {
	results := make([]<-chan error, 0, len(jobs))
	var submitErr error
	for i, job := range jobs {
		done, err := p.Submit(ctx, job)
		if err != nil {
			submitErr = fmt.Errorf("submit job %d: %w", i, err)
			break
		}
		results = append(results, done)
	}

	errs := make([]error, 0, len(results)+1)
	for _, done := range results {
		select {
		case err := <-done:
			errs = append(errs, err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	errs = append(errs, submitErr)
	return errors.Join(errs...)
}

// Shutdown closes the queue, lets the workers drain it and waits for them
// or for ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.queue.close()
	if !p.started.Load() {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
		}
	}
	return nil
}
