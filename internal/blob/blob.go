// Package blob stores uploaded files in a public object store and maps their
// public URLs back to object keys.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when deleting an object that does not exist.
var ErrNotFound = errors.New("object not found")

// ErrForeignURL is returned when a URL does not point into the store.
var ErrForeignURL = errors.New("url does not belong to this store")

// Store is a public-read object store.
type Store interface {
	// Put writes the object and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object behind a public URL returned by Put.
	Delete(ctx context.Context, url string) error
}
