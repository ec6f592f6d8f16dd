package service

import (
	"bitwise74/files-api/internal/files"
	"bitwise74/files-api/internal/model"
	"context"
	"time"

	"go.uber.org/zap"
)

type Uploader struct {
	Files *files.Repository
	Queue Enqueuer
}

func NewUploader(r *files.Repository, q Enqueuer) *Uploader {
	return &Uploader{Files: r, Queue: q}
}

// Upload creates the record and schedules thumbnails for images. The
// record is durable once Create returns, so a failed enqueue is only logged
func (u *Uploader) Upload(ctx context.Context, userID string, p files.CreateParams) (*model.File, error) {
	f, err := u.Files.Create(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	if f.Type == model.TypeImage {
		// The record outlives the request, so must the job
		err := u.Queue.Enqueue(context.WithoutCancel(ctx), model.Job{
			Kind:       model.JobThumbnail,
			FileID:     f.ID,
			UserID:     userID,
			EnqueuedAt: time.Now(),
		})
		if err != nil {
			zap.L().Error("Failed to enqueue thumbnail job", zap.String("file_id", f.ID), zap.Error(err))
		}
	}

	return f, nil
}
