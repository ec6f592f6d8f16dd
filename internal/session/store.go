// Package session wraps the ephemeral key-value store that backs auth
// tokens. Keys expire on their own; nothing here caches values, so a Get
// issued after a Delete never sees the deleted value
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session key not found")

type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ErrNotFound for absent or expired keys
	Get(ctx context.Context, key string) (string, error)
	// Delete is a no-op for absent keys
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
