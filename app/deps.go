package app

import (
	"bitwise74/files-api/aws"
	"bitwise74/files-api/cloudflare"
	"bitwise74/files-api/db"
	"bitwise74/files-api/internal"
	"bitwise74/files-api/internal/auth"
	"bitwise74/files-api/internal/content"
	"bitwise74/files-api/internal/files"
	"bitwise74/files-api/internal/service"
	"bitwise74/files-api/internal/session"
	"bitwise74/files-api/pkg/security"
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewDeps builds every store and service from the loaded config. The
// caller owns the result and must Close it
func NewDeps(ctx context.Context) (_ *internal.Deps, err error) {
	d := &internal.Deps{}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	d.Store, err = db.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	d.Sessions = newSessions()

	d.Content, err = newContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize content store, %w", err)
	}

	d.Broker = newBroker()
	d.Auth = auth.NewManager(d.Store, d.Sessions, security.New(), d.Broker, viper.GetDuration("session.ttl"))
	d.Files = files.NewRepository(d.Store, d.Content)
	d.Uploader = service.NewUploader(d.Files, d.Broker)

	return d, nil
}

// NewProcessor wires the job handlers to the stores in d
func NewProcessor(d *internal.Deps) *service.Processor {
	return &service.Processor{
		Store:   d.Store,
		Content: d.Content,
		Resizer: newResizer(),
		Mailer:  newMailer(),
	}
}

func newSessions() session.Store {
	if viper.GetString("session.backend") == "memory" {
		zap.L().Warn("Sessions are kept in memory and won't survive a restart")
		return session.NewMemory()
	}

	return session.NewRedis(redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
	}))
}

func newContent(ctx context.Context) (content.Store, error) {
	switch viper.GetString("storage.type") {
	case "s3":
		c, err := aws.NewS3(ctx, aws.Options{
			AccessKey: viper.GetString("aws.access_key"),
			SecretKey: viper.GetString("aws.secret_access_key"),
			Bucket:    viper.GetString("aws.bucket"),
			Region:    viper.GetString("aws.region"),
		})
		if err != nil {
			return nil, err
		}

		return content.NewS3(c), nil
	case "r2":
		c, err := cloudflare.NewR2(ctx, cloudflare.R2Options{
			AccountID:       viper.GetString("cloudflare.account_id"),
			AccessKeyID:     viper.GetString("cloudflare.access_key_id"),
			SecretAccessKey: viper.GetString("cloudflare.secret_access_key"),
			Bucket:          viper.GetString("cloudflare.bucket"),
		})
		if err != nil {
			return nil, err
		}

		return content.NewS3(c), nil
	default:
		return content.NewLocal(afero.NewOsFs(), viper.GetString("storage.base_dir"))
	}
}

func newBroker() service.Broker {
	workers := viper.GetInt("queue.workers")
	maxRetry := viper.GetInt("queue.max_retry")

	if viper.GetString("queue.backend") == "memory" {
		return service.NewMemoryBroker(workers, viper.GetInt("queue.size"), maxRetry)
	}

	return service.NewAsynqBroker(asynq.RedisClientOpt{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
	}, workers, maxRetry)
}

func newResizer() service.Resizer {
	if viper.GetString("thumbnail.engine") == "ffmpeg" {
		return service.FFmpegResizer{Path: viper.GetString("ffmpeg.path")}
	}

	return service.ImagingResizer{}
}

func newMailer() service.Mailer {
	host := viper.GetString("mail.host")
	if host == "" {
		zap.L().Warn("No mail.host configured, mails will only be logged")
		return service.LogMailer{}
	}

	return service.NewSMTPMailer(host, viper.GetInt("mail.port"), viper.GetString("mail.sender_address"), viper.GetString("mail.password"))
}
