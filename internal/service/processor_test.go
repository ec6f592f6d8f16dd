package service

import (
	"bitwise74/files-api/internal/content"
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/store"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processorFixture struct {
	p       *Processor
	s       store.Store
	cs      *content.Local
	fs      afero.Fs
	resizer *fakeResizer
	mailer  *fakeMailer
}

func newProcessor(t *testing.T) *processorFixture {
	t.Helper()

	s := newStore(t)
	cs, fsys := newContent(t)
	r := &fakeResizer{fail: map[int]bool{}}
	m := &fakeMailer{}

	return &processorFixture{
		p:       &Processor{Store: s, Content: cs, Resizer: r, Mailer: m},
		s:       s,
		cs:      cs,
		fs:      fsys,
		resizer: r,
		mailer:  m,
	}
}

func (fx *processorFixture) image(t *testing.T, owner string) *model.File {
	t.Helper()
	ctx := context.Background()

	h, err := fx.cs.Create(ctx, []byte("original"))
	require.NoError(t, err)

	f := &model.File{
		ID:        store.NewID(),
		UserID:    owner,
		Name:      "cat.png",
		Type:      model.TypeImage,
		ParentID:  model.RootID,
		LocalPath: h,
		CreatedAt: time.Now(),
	}
	require.NoError(t, fx.s.InsertFile(ctx, f))

	return f
}

func (fx *processorFixture) hasVariant(t *testing.T, f *model.File, w string) bool {
	t.Helper()

	ok, err := afero.Exists(fx.fs, content.VariantHandle(f.LocalPath, w))
	require.NoError(t, err)

	return ok
}

func TestThumbnailWritesEveryWidth(t *testing.T) {
	fx := newProcessor(t)
	owner := store.NewID()
	f := fx.image(t, owner)

	err := fx.p.Thumbnail(context.Background(), model.Job{Kind: model.JobThumbnail, FileID: f.ID, UserID: owner})
	require.NoError(t, err)

	for _, w := range []string{"500", "250", "100"} {
		assert.True(t, fx.hasVariant(t, f, w), w)
	}

	assert.ElementsMatch(t, []int{500, 250, 100}, fx.resizer.calls)
}

func TestThumbnailContinuesAfterWidthFailure(t *testing.T) {
	fx := newProcessor(t)
	owner := store.NewID()
	f := fx.image(t, owner)
	fx.resizer.fail[250] = true

	err := fx.p.Thumbnail(context.Background(), model.Job{FileID: f.ID, UserID: owner})
	require.NoError(t, err)

	assert.True(t, fx.hasVariant(t, f, "500"))
	assert.False(t, fx.hasVariant(t, f, "250"))
	assert.True(t, fx.hasVariant(t, f, "100"))
}

func TestThumbnailFatalCases(t *testing.T) {
	fx := newProcessor(t)
	owner := store.NewID()
	f := fx.image(t, owner)

	jobs := map[string]model.Job{
		"missing file id": {UserID: owner},
		"missing user id": {FileID: f.ID},
		"malformed id":    {FileID: "zzz", UserID: owner},
		"owner mismatch":  {FileID: f.ID, UserID: store.NewID()},
		"unknown file":    {FileID: store.NewID(), UserID: owner},
	}

	for name, job := range jobs {
		t.Run(name, func(t *testing.T) {
			err := fx.p.Thumbnail(context.Background(), job)
			assert.ErrorIs(t, err, ErrJobFatal)
		})
	}

	assert.Empty(t, fx.resizer.calls)
	assert.False(t, fx.hasVariant(t, f, "500"))
}

func TestThumbnailMissingOriginalIsRetryable(t *testing.T) {
	fx := newProcessor(t)
	owner := store.NewID()
	f := fx.image(t, owner)
	require.NoError(t, fx.cs.Remove(context.Background(), f.LocalPath))

	err := fx.p.Thumbnail(context.Background(), model.Job{FileID: f.ID, UserID: owner})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrJobFatal))
}

func TestWelcome(t *testing.T) {
	fx := newProcessor(t)
	ctx := context.Background()

	u := &model.User{ID: store.NewID(), Email: "bob@me.com", PasswordHash: "h"}
	require.NoError(t, fx.s.CreateUser(ctx, u))

	require.NoError(t, fx.p.Welcome(ctx, model.Job{Kind: model.JobWelcome, UserID: u.ID}))
	require.Len(t, fx.mailer.sent, 1)
	assert.Equal(t, "bob@me.com", fx.mailer.sent[0].to)

	assert.ErrorIs(t, fx.p.Welcome(ctx, model.Job{}), ErrJobFatal)
	assert.ErrorIs(t, fx.p.Welcome(ctx, model.Job{UserID: "bad"}), ErrJobFatal)
	assert.ErrorIs(t, fx.p.Welcome(ctx, model.Job{UserID: store.NewID()}), ErrJobFatal)

	fx.mailer.err = errors.New("smtp down")
	err := fx.p.Welcome(ctx, model.Job{UserID: u.ID})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrJobFatal))
}
