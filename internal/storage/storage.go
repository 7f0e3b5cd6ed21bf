// Package storage keeps uploaded images on local disk or in an
// S3-compatible object store.
//
// Both drivers hand back a slash-separated path such as
// "uploads/images/<uuid>.png". That path is what gets stored on users and
// places, and what Remove accepts later.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidPath is returned for a path outside the store's prefix
var ErrInvalidPath = errors.New("storage: invalid path")

// Store saves and removes image files
type Store interface {
	// Save writes r under name and returns the stored path
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	// Remove deletes a stored path. Removing a missing file is not an error.
	Remove(ctx context.Context, path string) error
}
