// Package files owns the rules around file records: who may see them,
// where they can live, and how their content is reached
package files

import (
	"bitwise74/files-api/internal/content"
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/store"
	"bitwise74/files-api/pkg/validators"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const PageSize = 20

var ErrNoContent = errors.New("A folder doesn't have content")

type CreateParams struct {
	Name     string
	Type     model.FileType
	ParentID string
	IsPublic bool
	// Base64 encoded content, required for everything but folders
	Data string
}

type Repository struct {
	store   store.Store
	content content.Store
}

func NewRepository(s store.Store, c content.Store) *Repository {
	return &Repository{store: s, content: c}
}

// Create validates p, writes the content and inserts the record. Nothing
// is written before validation passes
func (r *Repository) Create(ctx context.Context, userID string, p CreateParams) (*model.File, error) {
	data, err := validators.FileValidator(p.Name, p.Type, p.Data)
	if err != nil {
		return nil, err
	}

	parentID := p.ParentID
	if parentID == "" {
		parentID = model.RootID
	}

	if parentID != model.RootID {
		if err := r.checkParent(ctx, userID, parentID); err != nil {
			return nil, err
		}
	}

	f := &model.File{
		ID:        store.NewID(),
		UserID:    userID,
		Name:      p.Name,
		Type:      p.Type,
		IsPublic:  p.IsPublic,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}

	if p.Type.HasContent() {
		f.LocalPath, err = r.content.Create(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("failed to store file content, %w", err)
		}
	}

	if err := r.store.InsertFile(ctx, f); err != nil {
		if f.LocalPath != "" {
			if rmErr := r.content.Remove(context.WithoutCancel(ctx), f.LocalPath); rmErr != nil {
				zap.L().Error("Failed to remove orphaned content", zap.String("path", f.LocalPath), zap.Error(rmErr))
			}
		}

		return nil, fmt.Errorf("failed to insert file record, %w", err)
	}

	return f, nil
}

func (r *Repository) checkParent(ctx context.Context, userID, parentID string) error {
	if !store.ValidID(parentID) {
		return validators.ErrParentNotFound
	}

	parent, err := r.store.OwnedFile(ctx, parentID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return validators.ErrParentNotFound
		}

		return fmt.Errorf("failed to look up parent, %w", err)
	}

	if parent.Type != model.TypeFolder {
		return validators.ErrParentNotFolder
	}

	return nil
}

// Get returns a record owned by userID. Foreign, missing and malformed ids
// all look the same to the caller
func (r *Repository) Get(ctx context.Context, userID, fileID string) (*model.File, error) {
	if !store.ValidID(fileID) {
		return nil, store.ErrNotFound
	}

	return r.store.OwnedFile(ctx, fileID, userID)
}

// List returns one page of the records userID keeps under parentID,
// newest first. Pages outside the range are empty
func (r *Repository) List(ctx context.Context, userID, parentID string, page int) ([]model.File, error) {
	if parentID == "" {
		parentID = model.RootID
	}

	if page < 0 || page > math.MaxInt/PageSize || (parentID != model.RootID && !store.ValidID(parentID)) {
		return []model.File{}, nil
	}

	entries, err := r.store.ListFiles(ctx, userID, parentID, page*PageSize, PageSize)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []model.File{}
	}

	return entries, nil
}

func (r *Repository) SetVisibility(ctx context.Context, userID, fileID string, public bool) (*model.File, error) {
	if !store.ValidID(fileID) {
		return nil, store.ErrNotFound
	}

	return r.store.SetVisibility(ctx, fileID, userID, public)
}

// Content returns the bytes behind a record. Public records are readable
// by anyone, private ones only by their owner. requesterID is empty for
// anonymous requests. A non-empty variant selects a thumbnail width
func (r *Repository) Content(ctx context.Context, requesterID, fileID, variant string) (*model.File, []byte, error) {
	if !store.ValidID(fileID) {
		return nil, nil, store.ErrNotFound
	}

	f, err := r.store.FileByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	if !f.IsPublic && (requesterID == "" || requesterID != f.UserID) {
		return nil, nil, store.ErrNotFound
	}

	if !f.Type.HasContent() {
		return nil, nil, ErrNoContent
	}

	handle := f.LocalPath
	if variant != "" {
		w, err := strconv.Atoi(variant)
		if err != nil || w <= 0 || strconv.Itoa(w) != variant {
			return nil, nil, store.ErrNotFound
		}

		handle = content.VariantHandle(handle, variant)
	}

	b, err := r.content.Read(ctx, handle)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, nil, store.ErrNotFound
		}

		return nil, nil, err
	}

	return f, b, nil
}

func (r *Repository) Stats(ctx context.Context) (*model.Stats, error) {
	u, err := r.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users, %w", err)
	}

	f, err := r.store.CountFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count files, %w", err)
	}

	return &model.Stats{Users: u, Files: f}, nil
}
