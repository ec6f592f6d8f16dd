package service

import (
	"bitwise74/files-api/internal/content"
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/store"
	"bitwise74/files-api/internal/store/gormstore"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStore(t *testing.T) store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "jobs.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s, err := gormstore.New(db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func newContent(t *testing.T) (*content.Local, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	cs, err := content.NewLocal(fsys, "/files_manager")
	require.NoError(t, err)

	return cs, fsys
}

// fakeResizer returns "<width>" as the thumbnail and fails on the widths
// listed in fail
type fakeResizer struct {
	mu    sync.Mutex
	fail  map[int]bool
	calls []int
}

func (r *fakeResizer) Resize(_ context.Context, _ []byte, _ string, width int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, width)
	if r.fail[width] {
		return nil, errors.New("resize failed")
	}

	return []byte{byte(width)}, nil
}

type sentMail struct {
	to, subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

type recordingQueue struct {
	mu   sync.Mutex
	err  error
	jobs []model.Job
	ctxs []context.Context
}

func (q *recordingQueue) Enqueue(ctx context.Context, job model.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.ctxs = append(q.ctxs, ctx)

	if q.err != nil {
		return q.err
	}

	q.jobs = append(q.jobs, job)
	return nil
}
