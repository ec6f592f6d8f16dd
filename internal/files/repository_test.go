package files

import (
	"bitwise74/files-api/internal/content"
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/store"
	"bitwise74/files-api/internal/store/gormstore"
	"bitwise74/files-api/pkg/validators"
	"context"
	"encoding/base64"
	"math"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const baseDir = "/files_manager"

type fixture struct {
	repo *Repository
	fs   afero.Fs
	cs   *content.Local
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "files.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s, err := gormstore.New(db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fsys := afero.NewMemMapFs()
	cs, err := content.NewLocal(fsys, baseDir)
	require.NoError(t, err)

	return &fixture{repo: NewRepository(s, cs), fs: fsys, cs: cs}
}

func (f *fixture) blobCount(t *testing.T) int {
	t.Helper()

	entries, err := afero.ReadDir(f.fs, baseDir)
	require.NoError(t, err)

	return len(entries)
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestCreateValidationOrder(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	owner := store.NewID()

	file, err := fx.repo.Create(ctx, owner, CreateParams{Name: "notes.txt", Type: model.TypeFile, Data: b64("hi")})
	require.NoError(t, err)

	tests := []struct {
		name string
		p    CreateParams
		want error
	}{
		{"missing name", CreateParams{Type: model.TypeFile, Data: b64("x")}, validators.ErrMissingName},
		{"missing type", CreateParams{Name: "a"}, validators.ErrMissingType},
		{"missing data", CreateParams{Name: "a", Type: model.TypeImage}, validators.ErrMissingData},
		{"bad base64", CreateParams{Name: "a", Type: model.TypeFile, Data: "%%%"}, validators.ErrMissingData},
		{"unknown parent", CreateParams{Name: "a", Type: model.TypeFolder, ParentID: store.NewID()}, validators.ErrParentNotFound},
		{"malformed parent", CreateParams{Name: "a", Type: model.TypeFolder, ParentID: "nope"}, validators.ErrParentNotFound},
		{"parent is a file", CreateParams{Name: "a", Type: model.TypeFolder, ParentID: file.ID}, validators.ErrParentNotFolder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.repo.Create(ctx, owner, tt.p)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Only the first upload reached the content store
	assert.Equal(t, 1, fx.blobCount(t))
}

func TestCreateWritesContentOnlyForContentTypes(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	owner := store.NewID()

	folder, err := fx.repo.Create(ctx, owner, CreateParams{Name: "docs", Type: model.TypeFolder})
	require.NoError(t, err)
	assert.Empty(t, folder.LocalPath)
	assert.Equal(t, model.RootID, folder.ParentID)
	assert.Equal(t, 0, fx.blobCount(t))

	file, err := fx.repo.Create(ctx, owner, CreateParams{Name: "a.txt", Type: model.TypeFile, ParentID: folder.ID, Data: b64("hello")})
	require.NoError(t, err)
	assert.Equal(t, folder.ID, file.ParentID)

	b, err := afero.ReadFile(fx.fs, file.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestGetHidesForeignRecords(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	owner := store.NewID()

	f, err := fx.repo.Create(ctx, owner, CreateParams{Name: "docs", Type: model.TypeFolder})
	require.NoError(t, err)

	got, err := fx.repo.Get(ctx, owner, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "docs", got.Name)

	_, err = fx.repo.Get(ctx, store.NewID(), f.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = fx.repo.Get(ctx, owner, "not-an-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	owner := store.NewID()

	var last string
	for range 25 {
		f, err := fx.repo.Create(ctx, owner, CreateParams{Name: "f", Type: model.TypeFolder})
		require.NoError(t, err)
		last = f.ID
	}

	page, err := fx.repo.List(ctx, owner, model.RootID, 0)
	require.NoError(t, err)
	require.Len(t, page, 20)
	assert.Equal(t, last, page[0].ID)

	page, err = fx.repo.List(ctx, owner, "", 1)
	require.NoError(t, err)
	assert.Len(t, page, 5)

	page, err = fx.repo.List(ctx, owner, model.RootID, 2)
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	page, err = fx.repo.List(ctx, owner, model.RootID, -1)
	require.NoError(t, err)
	assert.Empty(t, page)

	// page*PageSize would wrap around for these
	for _, p := range []int{922337203685477581, 461168601842738791, math.MaxInt} {
		page, err = fx.repo.List(ctx, owner, model.RootID, p)
		require.NoError(t, err)
		assert.Empty(t, page, "page %d", p)
	}

	page, err = fx.repo.List(ctx, store.NewID(), model.RootID, 0)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSetVisibility(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	owner := store.NewID()

	f, err := fx.repo.Create(ctx, owner, CreateParams{Name: "a.txt", Type: model.TypeFile, Data: b64("x")})
	require.NoError(t, err)
	require.False(t, f.IsPublic)

	got, err := fx.repo.SetVisibility(ctx, owner, f.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)
	assert.Equal(t, f.ID, got.ID)

	got, err = fx.repo.SetVisibility(ctx, owner, f.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)

	_, err = fx.repo.SetVisibility(ctx, store.NewID(), f.ID, true)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = fx.repo.SetVisibility(ctx, owner, "bad", true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestContentAccess(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	owner := store.NewID()
	other := store.NewID()

	f, err := fx.repo.Create(ctx, owner, CreateParams{Name: "a.txt", Type: model.TypeFile, Data: b64("secret")})
	require.NoError(t, err)

	_, b, err := fx.repo.Content(ctx, owner, f.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "secret", string(b))

	_, _, err = fx.repo.Content(ctx, other, f.ID, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = fx.repo.Content(ctx, "", f.ID, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = fx.repo.SetVisibility(ctx, owner, f.ID, true)
	require.NoError(t, err)

	_, b, err = fx.repo.Content(ctx, "", f.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "secret", string(b))
}

func TestContentOfFolder(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	owner := store.NewID()

	f, err := fx.repo.Create(ctx, owner, CreateParams{Name: "docs", Type: model.TypeFolder, IsPublic: true})
	require.NoError(t, err)

	_, _, err = fx.repo.Content(ctx, owner, f.ID, "")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestContentVariants(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	owner := store.NewID()

	f, err := fx.repo.Create(ctx, owner, CreateParams{Name: "a.png", Type: model.TypeImage, Data: b64("png")})
	require.NoError(t, err)

	_, _, err = fx.repo.Content(ctx, owner, f.ID, "250")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, fx.cs.Write(ctx, content.VariantHandle(f.LocalPath, "250"), []byte("small")))

	_, b, err := fx.repo.Content(ctx, owner, f.ID, "250")
	require.NoError(t, err)
	assert.Equal(t, "small", string(b))

	for _, v := range []string{"abc", "-1", "0", "../x", "0250"} {
		_, _, err = fx.repo.Content(ctx, owner, f.ID, v)
		assert.ErrorIs(t, err, store.ErrNotFound, v)
	}
}

func TestStats(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.repo.Create(ctx, store.NewID(), CreateParams{Name: "docs", Type: model.TypeFolder})
	require.NoError(t, err)

	s, err := fx.repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, s.Users)
	assert.EqualValues(t, 1, s.Files)
}
