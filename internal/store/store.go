// Package store defines the document store used for users and file
// records. Implementations live in the gormstore and mongostore packages
package store

import (
	"bitwise74/files-api/internal/model"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Users interface {
	// CreateUser inserts u. A taken email yields ErrAlreadyExists
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type Files interface {
	InsertFile(ctx context.Context, f *model.File) error
	// FileByID looks a record up without any ownership check
	FileByID(ctx context.Context, id string) (*model.File, error)
	// OwnedFile returns the record only if it belongs to userID
	OwnedFile(ctx context.Context, id, userID string) (*model.File, error)
	// ListFiles returns the records of userID under parentID ordered by id
	// descending
	ListFiles(ctx context.Context, userID, parentID string, skip, limit int) ([]model.File, error)
	// SetVisibility atomically updates isPublic on a record owned by userID
	// and returns the updated record
	SetVisibility(ctx context.Context, id, userID string, public bool) (*model.File, error)
	CountFiles(ctx context.Context) (int64, error)
}

type Store interface {
	Users
	Files

	Ping(ctx context.Context) error
	Close() error
}

// NewID returns a fresh ObjectID in hex form. Hex ObjectIDs sort in
// creation order, which is what list ordering relies on
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a canonical hex ObjectID
func ValidID(id string) bool {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false
	}

	return oid.Hex() == id
}
