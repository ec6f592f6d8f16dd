package service

import (
	"bitwise74/files-api/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Queue names as seen in Redis
var queueNames = map[model.JobKind]string{
	model.JobThumbnail: "thumbnails",
	model.JobWelcome:   "users",
}

// AsynqBroker keeps jobs in Redis. Every job kind gets its own queue and
// its own server, so a stuck mailer never holds up thumbnails
type AsynqBroker struct {
	opt      asynq.RedisClientOpt
	client   *asynq.Client
	workers  int
	maxRetry int

	handlers map[model.JobKind]Handler
	servers  []*asynq.Server
}

var _ Broker = (*AsynqBroker)(nil)

func NewAsynqBroker(opt asynq.RedisClientOpt, workers, maxRetry int) *AsynqBroker {
	return &AsynqBroker{
		opt:      opt,
		client:   asynq.NewClient(opt),
		workers:  workers,
		maxRetry: maxRetry,
		handlers: make(map[model.JobKind]Handler),
	}
}

func (b *AsynqBroker) Enqueue(ctx context.Context, job model.Job) error {
	q, ok := queueNames[job.Kind]
	if !ok {
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job, %w", err)
	}

	info, err := b.client.EnqueueContext(ctx, asynq.NewTask(string(job.Kind), payload),
		asynq.Queue(q),
		asynq.MaxRetry(b.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s job, %w", job.Kind, err)
	}

	zap.L().Debug("New job enqueued", zap.String("queue", info.Queue), zap.String("task_id", info.ID))
	return nil
}

func (b *AsynqBroker) Handle(kind model.JobKind, h Handler) {
	b.handlers[kind] = h
}

func (b *AsynqBroker) Start() error {
	for kind, h := range b.handlers {
		srv := asynq.NewServer(b.opt, asynq.Config{
			Concurrency: b.workers,
			Queues:      map[string]int{queueNames[kind]: 1},
			Logger:      zap.S(),
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(string(kind), taskHandler(h))

		if err := srv.Start(mux); err != nil {
			b.Shutdown()
			return fmt.Errorf("failed to start %s workers, %w", kind, err)
		}

		b.servers = append(b.servers, srv)
	}

	return nil
}

func (b *AsynqBroker) Shutdown() {
	for _, srv := range b.servers {
		srv.Shutdown()
	}
	b.servers = nil

	if err := b.client.Close(); err != nil {
		zap.L().Error("Failed to close asynq client", zap.Error(err))
	}
}

// taskHandler decodes the payload and tells asynq to archive jobs that
// failed fatally instead of retrying them
func taskHandler(h Handler) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var job model.Job
		if err := json.Unmarshal(t.Payload(), &job); err != nil {
			return fmt.Errorf("malformed job payload, %w: %w", err, asynq.SkipRetry)
		}

		err := h(ctx, job)
		if err != nil && errors.Is(err, ErrJobFatal) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}

		return err
	}
}
