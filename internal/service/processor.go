package service

import (
	"bitwise74/files-api/internal/content"
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/store"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

var ThumbnailWidths = []int{500, 250, 100}

// Processor holds the job handlers
type Processor struct {
	Store   store.Store
	Content content.Store
	Resizer Resizer
	Mailer  Mailer
}

// Register attaches the handlers to b
func (p *Processor) Register(b Broker) {
	b.Handle(model.JobThumbnail, p.Thumbnail)
	b.Handle(model.JobWelcome, p.Welcome)
}

// Thumbnail writes every thumbnail width next to the original. A width
// that fails is logged and skipped
func (p *Processor) Thumbnail(ctx context.Context, job model.Job) error {
	if job.FileID == "" {
		return Fatal("missing fileId")
	}

	if job.UserID == "" {
		return Fatal("missing userId")
	}

	if !store.ValidID(job.FileID) || !store.ValidID(job.UserID) {
		return Fatal("malformed ids %q %q", job.FileID, job.UserID)
	}

	f, err := p.Store.OwnedFile(ctx, job.FileID, job.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Fatal("file not found")
		}

		return fmt.Errorf("failed to look up file, %w", err)
	}

	if f.Type != model.TypeImage {
		return Fatal("file %s is not an image", f.ID)
	}

	src, err := p.Content.Read(ctx, f.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to read original, %w", err)
	}

	wp := pool.New().WithMaxGoroutines(len(ThumbnailWidths))
	for _, w := range ThumbnailWidths {
		wp.Go(func() {
			if err := p.thumbnail(ctx, f, src, w); err != nil {
				zap.L().Error("Failed to create thumbnail",
					zap.String("file_id", f.ID),
					zap.Int("width", w),
					zap.Error(err))
			}
		})
	}
	wp.Wait()

	return nil
}

func (p *Processor) thumbnail(ctx context.Context, f *model.File, src []byte, width int) error {
	out, err := p.Resizer.Resize(ctx, src, f.Name, width)
	if err != nil {
		return err
	}

	return p.Content.Write(ctx, content.VariantHandle(f.LocalPath, strconv.Itoa(width)), out)
}

func (p *Processor) Welcome(ctx context.Context, job model.Job) error {
	if job.UserID == "" {
		return Fatal("missing userId")
	}

	if !store.ValidID(job.UserID) {
		return Fatal("malformed userId %q", job.UserID)
	}

	u, err := p.Store.UserByID(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Fatal("user not found")
		}

		return fmt.Errorf("failed to look up user, %w", err)
	}

	zap.L().Info("Sending welcome mail", zap.String("user_id", u.ID))

	if err := p.Mailer.Send(ctx, u.Email, "Welcome to files-api", fmt.Sprintf("Welcome %s!", u.Email)); err != nil {
		return fmt.Errorf("failed to send welcome mail, %w", err)
	}

	return nil
}
