package worker

import "github.com/okian/mawsim/pkg/logger"

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithQueueCapacity sets how many jobs may wait for a free worker.
func WithQueueCapacity(capacity int) Option {
	return func(p *Pool) {
		if capacity > 0 {
			p.capacity = capacity
		}
	}
}

// WithLogger sets a custom logger for the pool and its workers.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
