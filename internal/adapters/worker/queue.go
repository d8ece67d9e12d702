package worker

import (
	"context"
	"sync"

	"github.com/okian/mawsim/pkg/metrics"
)

const defaultQueueCapacity = 256

// Job is a unit of work run by a pool worker.
type Job func(ctx context.Context) error

// task is a job bound to its caller's context and result channel.
type task struct {
	ctx  context.Context
	job  Job
	done chan error // buffered, receives exactly one value
}

// queue is a bounded FIFO of tasks with non-blocking enqueue.
type queue struct {
	tasks    chan task
	capacity int

	mu     sync.RWMutex
	closed bool
}

func newQueue(capacity int) *queue {
	q := &queue{
		tasks:    make(chan task, capacity),
		capacity: capacity,
	}
	metrics.UpdateWorkerQueue(0, capacity)
	return q
}

// enqueue adds t to the queue. Returns ErrStopped after close and
// ErrQueueFull when no slot is free.
func (q *queue) enqueue(t task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("worker", "closed")
		return ErrStopped
	}

	select {
	case q.tasks <- t:
		metrics.UpdateWorkerQueue(len(q.tasks), q.capacity)
		return nil
	default:
		metrics.RecordErrorByComponent("worker", "queue_full")
		return ErrQueueFull
	}
}

// dequeue returns the channel workers read from. It is closed by close.
func (q *queue) dequeue() <-chan task {
	return q.tasks
}

func (q *queue) len() int {
	return len(q.tasks)
}

// close stops new enqueues; queued tasks are still delivered.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	close(q.tasks)
	q.closed = true
}
