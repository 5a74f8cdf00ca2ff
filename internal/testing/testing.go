// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/ecoleta/internal/models"
)

// MockGeoService is a test double for [services.GeoService]
type MockGeoService struct {
	StatesResult []models.Option
	CitiesResult map[string][]models.Option
	Err          error
	Calls        []string
}

func (m *MockGeoService) States(ctx context.Context) ([]models.Option, error) {
	m.Calls = append(m.Calls, "states")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.StatesResult, nil
}

func (m *MockGeoService) Cities(ctx context.Context, uf string) ([]models.Option, error) {
	m.Calls = append(m.Calls, "cities:"+uf)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.CitiesResult[uf], nil
}

// MemoryImageStore is an in-memory [storage.ImageStore]
type MemoryImageStore struct {
	mu           sync.Mutex
	Files        map[string][]byte
	ContentTypes map[string]string
	Deleted      []string
	StoreErr     error
	next         int
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{Files: map[string][]byte{}, ContentTypes: map[string]string{}}
}

func (m *MemoryImageStore) Store(ctx context.Context, contentType string, r io.Reader) (string, error) {
	if m.StoreErr != nil {
		return "", m.StoreErr
	}

	m.mu.Lock()
	m.next++
	key := fmt.Sprintf("upload-%d", m.next)
	m.mu.Unlock()

	if err := m.Put(ctx, key, contentType, r); err != nil {
		return "", err
	}
	return key, nil
}

func (m *MemoryImageStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if m.StoreErr != nil {
		return m.StoreErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[key] = data
	m.ContentTypes[key] = contentType
	return nil
}

func (m *MemoryImageStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Files, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

func (m *MemoryImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return "http://images.test/" + key
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

// MustChdir changes into dir and restores the previous working directory when the test ends
func MustChdir(t *testing.T, dir string) {
	t.Helper()
	prev := MustGetwd(t)
	t.Cleanup(func() { os.Chdir(prev) })
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
