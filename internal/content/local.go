package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Local keeps blobs as files under a base directory. Handles are absolute
// paths inside it
type Local struct {
	fs      afero.Fs
	baseDir string
}

var _ Store = (*Local)(nil)

func NewLocal(fsys afero.Fs, baseDir string) (*Local, error) {
	if err := fsys.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory, %w", err)
	}

	return &Local{fs: fsys, baseDir: baseDir}, nil
}

func (l *Local) Create(ctx context.Context, data []byte) (string, error) {
	handle := filepath.Join(l.baseDir, uuid.NewString())

	if err := l.Write(ctx, handle, data); err != nil {
		return "", err
	}

	return handle, nil
}

func (l *Local) Write(_ context.Context, handle string, data []byte) error {
	if err := l.fs.MkdirAll(l.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory, %w", err)
	}

	if err := afero.WriteFile(l.fs, handle, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s, %w", handle, err)
	}

	return nil
}

func (l *Local) Read(_ context.Context, handle string) ([]byte, error) {
	b, err := afero.ReadFile(l.fs, handle)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to read %s, %w", handle, err)
	}

	return b, nil
}

func (l *Local) Remove(_ context.Context, handle string) error {
	err := l.fs.Remove(handle)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s, %w", handle, err)
	}

	return nil
}
