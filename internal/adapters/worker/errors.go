package worker

import (
	"errors"
	"fmt"
)

// Sentinel kinds for pool errors.
var (
	ErrStopped   = errors.New("worker pool stopped")
	ErrQueueFull = errors.New("worker queue full")
)

// PanicError is returned for a job that panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}
