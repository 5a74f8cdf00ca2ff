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

	"github.com/desertthunder/ecoleta/internal/shared"
)

// DiskStore writes images into a local directory.
type DiskStore struct {
	dir       string
	publicURL string
}

// NewDiskStore creates dir if needed and returns a store whose URLs are rooted at publicURL/uploads.
func NewDiskStore(dir, publicURL string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: storage directory is empty", shared.ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", shared.ErrStorage, dir, err)
	}
	return &DiskStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir returns the directory images are written to.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Store(ctx context.Context, contentType string, r io.Reader) (string, error) {
	key := NewKey(contentType)
	if err := s.write(ctx, key, os.O_CREATE|os.O_EXCL|os.O_WRONLY, r); err != nil {
		return "", err
	}
	return key, nil
}

// Put writes r to key inside the store's directory, truncating an existing file.
func (s *DiskStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("%w: invalid key %q", shared.ErrInvalidArgument, key)
	}
	return s.write(ctx, key, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, r)
}

func (s *DiskStore) write(ctx context.Context, key string, flag int, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.dir, key)
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", shared.ErrStorage, key, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, key, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: failed to close %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if key != filepath.Base(key) {
		return fmt.Errorf("%w: invalid key %q", shared.ErrInvalidArgument, key)
	}

	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

func (s *DiskStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicURL + "/uploads/" + key
}
