// Package gormstore implements store.Store on top of gorm, so the service
// can run against SQLite or PostgreSQL
package gormstore

import (
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/store"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New migrates the users and files tables and wraps db
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(model.User{}, model.File{}); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if isDuplicate(err) {
			return store.ErrAlreadyExists
		}

		return fmt.Errorf("failed to insert user, %w", err)
	}

	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).
		Error
	if err != nil {
		return nil, notFound(err)
	}

	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&u).
		Error
	if err != nil {
		return nil, notFound(err)
	}

	return &u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(model.User{}).Count(&n).Error
	return n, err
}

func (s *Store) InsertFile(ctx context.Context, f *model.File) error {
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("failed to insert file, %w", err)
	}

	return nil
}

func (s *Store) FileByID(ctx context.Context, id string) (*model.File, error) {
	var f model.File

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&f).
		Error
	if err != nil {
		return nil, notFound(err)
	}

	return &f, nil
}

func (s *Store) OwnedFile(ctx context.Context, id, userID string) (*model.File, error) {
	var f model.File

	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&f).
		Error
	if err != nil {
		return nil, notFound(err)
	}

	return &f, nil
}

func (s *Store) ListFiles(ctx context.Context, userID, parentID string, skip, limit int) ([]model.File, error) {
	entries := []model.File{}

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND parent_id = ?", userID, parentID).
		Order("id desc").
		Offset(skip).
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list files, %w", err)
	}

	return entries, nil
}

func (s *Store) SetVisibility(ctx context.Context, id, userID string, public bool) (*model.File, error) {
	var f model.File

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := tx.Model(model.File{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_public", public)
		if r.Error != nil {
			return r.Error
		}

		if r.RowsAffected == 0 {
			return store.ErrNotFound
		}

		return tx.Where("id = ?", id).First(&f).Error
	})
	if err != nil {
		return nil, notFound(err)
	}

	return &f, nil
}

func (s *Store) CountFiles(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(model.File{}).Count(&n).Error
	return n, err
}

func (s *Store) Ping(ctx context.Context) error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.PingContext(ctx)
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, store.ErrNotFound) {
		return store.ErrNotFound
	}

	return err
}

// Drivers only translate constraint errors when gorm.Config.TranslateError
// is set, so fall back to the message
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
