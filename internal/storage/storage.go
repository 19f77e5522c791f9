package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage abstracts where uploaded PDF bytes live. Implementations
// derive their own collision-resistant stored names; callers keep only the
// returned name and never address files by the uploaded filename.

var (
	// ErrEmptyFile is returned by Save when the payload has no bytes.
	ErrEmptyFile = errors.New("cannot store empty file")
	// ErrNotFound is returned by Open when no file exists under the stored name,
	// including names that would resolve outside the storage root.
	ErrNotFound = errors.New("stored file not found")
)

// Storage persists uploaded binaries under opaque stored names.
type Storage interface {
	// Save writes the payload and returns the generated stored name. The
	// original filename contributes only its ".pdf" extension, nothing else.
	Save(ctx context.Context, r io.Reader, size int64, originalName string) (string, error)
	// Open returns the content stored under the given name.
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	// Delete removes a stored file. Deleting an absent name is not an error.
	Delete(ctx context.Context, storedName string) error
}
