package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/desertthunder/ecoleta/internal/shared"
)

const sniffLen = 512

// imageExts maps the accepted upload media types to the extension stored keys carry.
var imageExts = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore stores point images and resolves their public URLs.
type ImageStore interface {
	// Store persists r under a generated key and returns it.
	Store(ctx context.Context, contentType string, r io.Reader) (key string, err error)
	// Put writes r under key, replacing any existing object.
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	// Delete removes a stored image. Deleting an unknown key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for key, or "" when key is empty.
	URL(key string) string
}

// New builds the [ImageStore] selected by cfg.Driver.
func New(cfg shared.StorageConfig, publicURL string) (ImageStore, error) {
	switch cfg.Driver {
	case "disk":
		return NewDiskStore(cfg.Dir, publicURL)
	case "s3":
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}

// NewKey returns a collision-free object name whose extension follows contentType.
//
// Types outside the accepted image set get no extension.
func NewKey(contentType string) string {
	return shared.GenerateID() + imageExts[mediaType(contentType)]
}

// IsImage reports whether contentType is one of the accepted image media types.
func IsImage(contentType string) bool {
	_, ok := imageExts[mediaType(contentType)]
	return ok
}

// Sniff detects the content type of r from its leading bytes.
//
// The returned reader yields the full stream, sniffed bytes included.
func Sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("%w: failed to read upload: %v", shared.ErrStorage, err)
	}
	return http.DetectContentType(head), br, nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}
