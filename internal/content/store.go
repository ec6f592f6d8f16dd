// Package content stores uploaded bytes and their derived variants. A
// blob is addressed by the opaque handle returned from Create
package content

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("content not found")

type Store interface {
	// Create writes data under a freshly generated name and returns its handle
	Create(ctx context.Context, data []byte) (string, error)
	// Write stores data under an explicit handle, overwriting it
	Write(ctx context.Context, handle string, data []byte) error
	Read(ctx context.Context, handle string) ([]byte, error)
	Remove(ctx context.Context, handle string) error
}

// VariantHandle is where the variant v of a blob lives
func VariantHandle(handle, v string) string {
	return handle + "_" + v
}
