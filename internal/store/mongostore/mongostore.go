// Package mongostore implements store.Store on MongoDB using the users and
// files collections
package mongostore

import (
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/store"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	files  *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect dials uri, checks the server is reachable and makes sure the
// indexes the queries rely on exist
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb, %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb is unreachable, %w", err)
	}

	return newStore(ctx, client, database)
}

// newStore takes ownership of client. It is disconnected when the indexes
// can't be created
func newStore(ctx context.Context, client *mongo.Client, database string) (*Store, error) {
	db := client.Database(database)
	s := &Store{
		client: client,
		users:  db.Collection("users"),
		files:  db.Collection("files"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users.email index, %w", err)
	}

	_, err = s.files.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "parentId", Value: 1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create files listing index, %w", err)
	}

	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.users.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}

		return fmt.Errorf("failed to insert user, %w", err)
	}

	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.users, bson.M{"_id": id})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.users, bson.M{"email": email})
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.users.EstimatedDocumentCount(ctx)
}

func (s *Store) InsertFile(ctx context.Context, f *model.File) error {
	if _, err := s.files.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("failed to insert file, %w", err)
	}

	return nil
}

func (s *Store) FileByID(ctx context.Context, id string) (*model.File, error) {
	return findOne[model.File](ctx, s.files, bson.M{"_id": id})
}

func (s *Store) OwnedFile(ctx context.Context, id, userID string) (*model.File, error) {
	return findOne[model.File](ctx, s.files, bson.M{"_id": id, "userId": userID})
}

func (s *Store) ListFiles(ctx context.Context, userID, parentID string, skip, limit int) ([]model.File, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := s.files.Find(ctx, bson.M{"userId": userID, "parentId": parentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files, %w", err)
	}

	entries := []model.File{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode files, %w", err)
	}

	return entries, nil
}

func (s *Store) SetVisibility(ctx context.Context, id, userID string, public bool) (*model.File, error) {
	var f model.File

	err := s.files.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isPublic": public}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("failed to update visibility, %w", err)
	}

	return &f, nil
}

func (s *Store) CountFiles(ctx context.Context) (int64, error) {
	return s.files.EstimatedDocumentCount(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter bson.M) (*T, error) {
	var v T

	err := c.FindOne(ctx, filter).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query %s, %w", c.Name(), err)
	}

	return &v, nil
}
