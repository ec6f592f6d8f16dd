// Package service contains stuff related to the background processing
// of the application
package service

import (
	"bitwise74/files-api/internal/model"
	"context"
	"errors"
	"fmt"
)

var (
	// ErrJobFatal marks a job that will never succeed. Brokers don't retry
	// errors wrapping it
	ErrJobFatal  = errors.New("fatal job error")
	ErrQueueFull = errors.New("job queue full")
)

// Fatal wraps err so that brokers give up on the job
func Fatal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrJobFatal, fmt.Sprintf(format, args...))
}

type Handler func(ctx context.Context, job model.Job) error

type Enqueuer interface {
	Enqueue(ctx context.Context, job model.Job) error
}

// Broker moves jobs from the API to the workers. Every job kind has its
// own queue and consumers
type Broker interface {
	Enqueuer

	// Handle registers the consumer of kind. Call before Start
	Handle(kind model.JobKind, h Handler)
	Start() error
	Shutdown()
}
