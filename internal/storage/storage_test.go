package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/desertthunder/ecoleta/internal/shared"
	tu "github.com/desertthunder/ecoleta/internal/testing"
)

// fakeS3 records uploads and deletions; unimplemented methods panic through the nil embedded interface.
type fakeS3 struct {
	s3iface.S3API
	puts    []*s3.PutObjectInput
	bodies  []string
	deletes []string
	err     error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()

	t.Run("NewDiskStore creates nested dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "public", "uploads")
		store, err := NewDiskStore(dir, "http://localhost:3333")
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		tu.AssertDirExists(t, dir)
		if store.Dir() != dir {
			t.Errorf("expected dir %s, got %s", dir, store.Dir())
		}
	})

	t.Run("Store writes file with unique key", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewDiskStore(dir, "http://localhost:3333/")
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		first, err := store.Store(ctx, "image/jpeg", strings.NewReader("one"))
		if err != nil {
			t.Fatalf("failed to store image: %v", err)
		}
		second, err := store.Store(ctx, "image/jpeg", strings.NewReader("two"))
		if err != nil {
			t.Fatalf("failed to store image: %v", err)
		}

		if first == second {
			t.Errorf("expected distinct keys, got %s twice", first)
		}
		if !strings.HasSuffix(first, ".jpg") {
			t.Errorf("expected .jpg extension, got %s", first)
		}

		data, err := os.ReadFile(filepath.Join(dir, first))
		if err != nil {
			t.Fatalf("failed to read stored file: %v", err)
		}
		if string(data) != "one" {
			t.Errorf("expected contents 'one', got %q", data)
		}
	})

	t.Run("Put writes fixed key and overwrites", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewDiskStore(dir, "http://localhost:3333")
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		for _, body := range []string{"<svg>old</svg>", "<svg/>"} {
			if err := store.Put(ctx, "lampadas.svg", "image/svg+xml", strings.NewReader(body)); err != nil {
				t.Fatalf("failed to put icon: %v", err)
			}
		}
		data, err := os.ReadFile(filepath.Join(dir, "lampadas.svg"))
		if err != nil {
			t.Fatalf("failed to read icon: %v", err)
		}
		if string(data) != "<svg/>" {
			t.Errorf("expected overwritten contents, got %q", data)
		}

		for _, key := range []string{"", "../escape.svg", "icons/a.svg"} {
			if err := store.Put(ctx, key, "image/svg+xml", strings.NewReader("x")); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("key %q: expected ErrInvalidArgument, got %v", key, err)
			}
		}
	})

	t.Run("URL", func(t *testing.T) {
		store, err := NewDiskStore(t.TempDir(), "http://localhost:3333/")
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if got := store.URL("abc.png"); got != "http://localhost:3333/uploads/abc.png" {
			t.Errorf("unexpected URL %s", got)
		}
		if got := store.URL(""); got != "" {
			t.Errorf("expected empty URL for empty key, got %s", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewDiskStore(dir, "http://localhost:3333")
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		key, err := store.Store(ctx, "image/png", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("failed to store image: %v", err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Fatalf("failed to delete image: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, key)); !os.IsNotExist(err) {
			t.Errorf("expected file to be removed, got %v", err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Errorf("deleting a missing key should succeed, got %v", err)
		}
		if err := store.Delete(ctx, "../escape.png"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		if _, err := NewDiskStore("", "http://localhost"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		store, err := NewDiskStore(t.TempDir(), "http://localhost")
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := store.Store(cctx, "image/png", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	cfg := shared.S3Config{Bucket: "ecoleta", Region: "sa-east-1", Prefix: "/points/"}

	t.Run("Store uploads public object", func(t *testing.T) {
		client := &fakeS3{}
		store := NewS3StoreWithClient(client, cfg)

		key, err := store.Store(ctx, "image/png", strings.NewReader("pixels"))
		if err != nil {
			t.Fatalf("failed to store image: %v", err)
		}

		if !strings.HasPrefix(key, "points/") || !strings.HasSuffix(key, ".png") {
			t.Errorf("unexpected key %s", key)
		}
		if len(client.puts) != 1 {
			t.Fatalf("expected 1 upload, got %d", len(client.puts))
		}

		in := client.puts[0]
		if aws.StringValue(in.Bucket) != "ecoleta" {
			t.Errorf("expected bucket ecoleta, got %s", aws.StringValue(in.Bucket))
		}
		if aws.StringValue(in.ACL) != s3.ObjectCannedACLPublicRead {
			t.Errorf("expected public-read ACL, got %s", aws.StringValue(in.ACL))
		}
		if aws.StringValue(in.ContentType) != "image/png" {
			t.Errorf("expected image/png, got %s", aws.StringValue(in.ContentType))
		}
		if client.bodies[0] != "pixels" {
			t.Errorf("expected body 'pixels', got %q", client.bodies[0])
		}
	})

	t.Run("Put keeps key without prefix", func(t *testing.T) {
		client := &fakeS3{}
		store := NewS3StoreWithClient(client, cfg)

		if err := store.Put(ctx, "oleo.svg", "image/svg+xml", strings.NewReader("<svg/>")); err != nil {
			t.Fatalf("failed to put icon: %v", err)
		}
		if len(client.puts) != 1 || aws.StringValue(client.puts[0].Key) != "oleo.svg" {
			t.Fatalf("unexpected uploads %v", client.puts)
		}
		if aws.StringValue(client.puts[0].ContentType) != "image/svg+xml" {
			t.Errorf("expected image/svg+xml, got %s", aws.StringValue(client.puts[0].ContentType))
		}
		if err := store.Put(ctx, "", "image/png", strings.NewReader("x")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Store wraps upload failure", func(t *testing.T) {
		store := NewS3StoreWithClient(&fakeS3{err: errors.New("boom")}, cfg)
		if _, err := store.Store(ctx, "image/png", strings.NewReader("x")); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		client := &fakeS3{}
		store := NewS3StoreWithClient(client, cfg)

		if err := store.Delete(ctx, ""); err != nil {
			t.Fatalf("empty key should be a no-op, got %v", err)
		}
		if err := store.Delete(ctx, "points/a.png"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if len(client.deletes) != 1 || client.deletes[0] != "points/a.png" {
			t.Errorf("unexpected deletes %v", client.deletes)
		}
	})

	t.Run("URL", func(t *testing.T) {
		tests := []struct {
			name     string
			cfg      shared.S3Config
			expected string
		}{
			{"aws default", shared.S3Config{Bucket: "b", Region: "sa-east-1"}, "https://s3.sa-east-1.amazonaws.com/b/k.png"},
			{"custom endpoint", shared.S3Config{Bucket: "b", Endpoint: "object.pscloud.io"}, "https://object.pscloud.io/b/k.png"},
			{"endpoint with scheme", shared.S3Config{Bucket: "b", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/b/k.png"},
			{"public base", shared.S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com/k.png"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := NewS3StoreWithClient(&fakeS3{}, tt.cfg)
				if got := store.URL("k.png"); got != tt.expected {
					t.Errorf("expected %s, got %s", tt.expected, got)
				}
				if got := store.URL(""); got != "" {
					t.Errorf("expected empty URL, got %s", got)
				}
			})
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("disk", func(t *testing.T) {
		store, err := New(shared.StorageConfig{Driver: "disk", Dir: t.TempDir()}, "http://localhost")
		if err != nil {
			t.Fatalf("failed to build store: %v", err)
		}
		if _, ok := store.(*DiskStore); !ok {
			t.Errorf("expected *DiskStore, got %T", store)
		}
	})

	t.Run("s3", func(t *testing.T) {
		store, err := New(shared.StorageConfig{Driver: "s3", S3: shared.S3Config{Bucket: "b", Region: "us-east-1"}}, "")
		if err != nil {
			t.Fatalf("failed to build store: %v", err)
		}
		if _, ok := store.(*S3Store); !ok {
			t.Errorf("expected *S3Store, got %T", store)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		if _, err := New(shared.StorageConfig{Driver: "ftp"}, ""); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestIsImage(t *testing.T) {
	tests := map[string]bool{
		"image/png":                 true,
		"image/jpeg; charset=utf-8": true,
		"image/gif":                 true,
		"image/webp":                true,
		"image/svg+xml":             false,
		"text/html":                 false,
		"text/plain":                false,
		"":                          false,
		"application/octet-stream":  false,
	}
	for contentType, expected := range tests {
		if got := IsImage(contentType); got != expected {
			t.Errorf("IsImage(%q) = %v, expected %v", contentType, got, expected)
		}
	}
}

func TestNewKey(t *testing.T) {
	tests := []struct {
		contentType string
		ext         string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"text/html; charset=utf-8", ""},
		{"", ""},
	}

	for _, tt := range tests {
		key := NewKey(tt.contentType)
		if filepath.Ext(key) != tt.ext {
			t.Errorf("NewKey(%q) = %s, expected extension %q", tt.contentType, key, tt.ext)
		}
		if strings.HasSuffix(key, ".") || strings.Contains(key, "/") {
			t.Errorf("NewKey(%q) = %s, expected a bare key", tt.contentType, key)
		}
	}
}

func TestSniff(t *testing.T) {
	png := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 600)

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"png", png, "image/png"},
		{"gif", "GIF89a" + strings.Repeat("\x00", 10), "image/gif"},
		{"html", "<script>alert(document.domain)</script>", "text/html; charset=utf-8"},
		{"empty", "", "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, r, err := Sniff(strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("failed to sniff: %v", err)
			}
			if contentType != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, contentType)
			}

			data, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("failed to read: %v", err)
			}
			if string(data) != tt.body {
				t.Errorf("expected the full body back, got %d of %d bytes", len(data), len(tt.body))
			}
		})
	}

	t.Run("read failure", func(t *testing.T) {
		if _, _, err := Sniff(iotest.ErrReader(errors.New("boom"))); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})
}
