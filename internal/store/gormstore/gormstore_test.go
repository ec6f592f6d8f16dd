package gormstore

import (
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/store"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s, err := New(db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &model.User{ID: store.NewID(), Email: "a@me.com", PasswordHash: "h"}))

	err := s.CreateUser(ctx, &model.User{ID: store.NewID(), Email: "a@me.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUserLookups(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &model.User{ID: store.NewID(), Email: "b@me.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.UserByEmail(ctx, "b@me.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@me.com", got.Email)

	_, err = s.UserByEmail(ctx, "nobody@me.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListFilesOrderAndPaging(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	owner := store.NewID()

	var ids []string
	for range 5 {
		f := &model.File{ID: store.NewID(), UserID: owner, Name: "f", Type: model.TypeFolder, ParentID: model.RootID}
		require.NoError(t, s.InsertFile(ctx, f))
		ids = append(ids, f.ID)
	}

	// Someone else's record in the same parent
	require.NoError(t, s.InsertFile(ctx, &model.File{ID: store.NewID(), UserID: store.NewID(), Name: "x", Type: model.TypeFolder, ParentID: model.RootID}))

	page, err := s.ListFiles(ctx, owner, model.RootID, 0, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[2], page[2].ID)

	page, err = s.ListFiles(ctx, owner, model.RootID, 3, 3)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = s.ListFiles(ctx, owner, model.RootID, 6, 3)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSetVisibilityRequiresOwner(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	owner := store.NewID()

	f := &model.File{ID: store.NewID(), UserID: owner, Name: "f.txt", Type: model.TypeFile, ParentID: model.RootID, LocalPath: "/tmp/x"}
	require.NoError(t, s.InsertFile(ctx, f))

	_, err := s.SetVisibility(ctx, f.ID, store.NewID(), true)
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.SetVisibility(ctx, f.ID, owner, true)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)

	got, err = s.SetVisibility(ctx, f.ID, owner, true)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)

	_, err = s.OwnedFile(ctx, f.ID, store.NewID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
