package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// fsStorage keeps every stored file in one flat directory. It is the default
// backend and is safe for concurrent use: stored names never collide, so two
// requests never touch the same path.
type fsStorage struct {
	root string
}

// NewFS creates a filesystem-backed Storage rooted at the given directory,
// creating the directory if it does not exist. The root is resolved to an
// absolute path once so later containment checks have a stable anchor.
func NewFS(root string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &fsStorage{root: abs}, nil
}

// Save streams the payload into a temporary file and renames it into place,
// so a partially written upload is never visible under its final name.
func (s *fsStorage) Save(ctx context.Context, r io.Reader, size int64, originalName string) (string, error) {
	if r == nil || size == 0 {
		return "", ErrEmptyFile
	}

	name := newStoredName(originalName)

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write file: %w", err)
	}
	if n == 0 {
		_ = os.Remove(tmpName)
		return "", ErrEmptyFile
	}

	if err := os.Rename(tmpName, filepath.Join(s.root, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("commit file: %w", err)
	}
	return name, nil
}

// Open serves a stored file only after the requested name canonicalizes to a
// path inside the root. Names produced by Save always pass; anything else
// that would escape the root is reported as missing, never served.
func (s *fsStorage) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	path, err := s.containedPath(storedName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return f, nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *fsStorage) Delete(ctx context.Context, storedName string) error {
	path, err := s.containedPath(storedName)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

// containedPath resolves a stored name against the root and refuses any
// result outside it (parent segments, absolute paths, the root itself).
func (s *fsStorage) containedPath(storedName string) (string, error) {
	if storedName == "" {
		return "", ErrNotFound
	}
	path := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(storedName)))
	if !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", ErrNotFound
	}
	return path, nil
}
