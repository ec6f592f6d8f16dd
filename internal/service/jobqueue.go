package service

import (
	"bitwise74/files-api/internal/model"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DeadJob is a job the MemoryBroker gave up on
type DeadJob struct {
	Job      model.Job
	Attempts int
	Err      error
	FailedAt time.Time
}

type queuedJob struct {
	job     model.Job
	attempt int
}

type memQueue struct {
	jobs    chan queuedJob
	handler Handler
	running atomic.Int32
}

// MemoryBroker runs every job kind on its own bounded channel drained by a
// fixed worker pool. Jobs live only as long as the process does
type MemoryBroker struct {
	// RetryDelay is the wait before the first retry. It doubles on every
	// following attempt
	RetryDelay time.Duration

	queues   map[model.JobKind]*memQueue
	workers  int
	maxRetry int

	mu   sync.Mutex
	dead []DeadJob

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Broker = (*MemoryBroker)(nil)

// NewMemoryBroker initializes a broker whose queues hold at most size jobs
// each. workers goroutines consume every queue and a job is retried up to
// maxRetry times
func NewMemoryBroker(workers, size, maxRetry int) *MemoryBroker {
	if workers <= 0 {
		workers = 1
	}

	zap.L().Debug("Initializing job queue", zap.Int("workers", workers), zap.Int("max_jobs", size))

	ctx, cancel := context.WithCancel(context.Background())

	b := &MemoryBroker{
		RetryDelay: time.Second,
		queues:     make(map[model.JobKind]*memQueue),
		workers:    workers,
		maxRetry:   maxRetry,
		ctx:        ctx,
		cancel:     cancel,
	}

	for _, k := range []model.JobKind{model.JobThumbnail, model.JobWelcome} {
		b.queues[k] = &memQueue{jobs: make(chan queuedJob, size)}
	}

	return b
}

func (b *MemoryBroker) Handle(kind model.JobKind, h Handler) {
	if q, ok := b.queues[kind]; ok {
		q.handler = h
	}
}

func (b *MemoryBroker) Start() error {
	for kind, q := range b.queues {
		if q.handler == nil {
			continue
		}

		for range b.workers {
			b.wg.Add(1)
			go b.worker(kind, q)
		}
	}

	return nil
}

// Shutdown stops the workers once their current job is done. Queued jobs
// are dropped
func (b *MemoryBroker) Shutdown() {
	b.cancel()
	b.wg.Wait()
}

func (b *MemoryBroker) Enqueue(_ context.Context, job model.Job) error {
	return b.push(queuedJob{job: job})
}

func (b *MemoryBroker) push(j queuedJob) error {
	q, ok := b.queues[j.job.Kind]
	if !ok {
		return fmt.Errorf("unknown job kind %q", j.job.Kind)
	}

	select {
	case q.jobs <- j:
		q.running.Add(1)
		zap.L().Debug("New job enqueued",
			zap.String("kind", string(j.job.Kind)),
			zap.Int32("enqueued", q.running.Load()),
			zap.String("user_id", j.job.UserID))
		return nil
	default:
		return ErrQueueFull
	}
}

// DeadLetters returns the jobs that failed for good
func (b *MemoryBroker) DeadLetters() []DeadJob {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]DeadJob(nil), b.dead...)
}

func (b *MemoryBroker) worker(kind model.JobKind, q *memQueue) {
	defer b.wg.Done()

	for {
		select {
		case <-b.ctx.Done():
			return
		case j := <-q.jobs:
			q.running.Add(-1)
			b.run(kind, q, j)
		}
	}
}

func (b *MemoryBroker) run(kind model.JobKind, q *memQueue, j queuedJob) {
	err := q.handler(b.ctx, j.job)
	if err == nil {
		zap.L().Debug("Job finished successfully", zap.String("kind", string(kind)))
		return
	}

	fatal := errors.Is(err, ErrJobFatal)

	zap.L().Error("Job finished with an error",
		zap.String("kind", string(kind)),
		zap.String("user_id", j.job.UserID),
		zap.Int("attempt", j.attempt+1),
		zap.Bool("fatal", fatal),
		zap.Error(err))

	if !fatal && j.attempt < b.maxRetry {
		b.retryLater(j, err)
		return
	}

	b.bury(j, err)
}

// retryLater puts j back on its queue after RetryDelay<<attempt. Jobs still
// waiting at shutdown are dropped like queued ones
func (b *MemoryBroker) retryLater(j queuedJob, cause error) {
	delay := b.RetryDelay << j.attempt

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		t := time.NewTimer(delay)
		defer t.Stop()

		select {
		case <-b.ctx.Done():
			return
		case <-t.C:
		}

		if err := b.push(queuedJob{job: j.job, attempt: j.attempt + 1}); err != nil {
			b.bury(j, fmt.Errorf("%w, requeue failed: %w", cause, err))
		}
	}()
}

func (b *MemoryBroker) bury(j queuedJob, err error) {
	b.mu.Lock()
	b.dead = append(b.dead, DeadJob{Job: j.job, Attempts: j.attempt + 1, Err: err, FailedAt: time.Now()})
	b.mu.Unlock()
}
