package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

// MemoryClient is an in-memory Client for tests and local development.
type MemoryClient struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailSign forces SignedDownloadURL to error, for backend-failure tests.
	FailSign error
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{objects: make(map[string][]byte)}
}

func (m *MemoryClient) Upload(_ context.Context, r io.Reader, objectPath string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectPath] = buf.Bytes()
	return nil
}

func (m *MemoryClient) Exists(_ context.Context, objectPath string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[objectPath]
	return ok, nil
}

func (m *MemoryClient) SignedDownloadURL(_ context.Context, objectPath string, expiresIn time.Duration, forceDownload bool) (string, error) {
	if m.FailSign != nil {
		return "", m.FailSign
	}
	v := url.Values{}
	v.Set("expires", fmt.Sprintf("%d", time.Now().Add(expiresIn).Unix()))
	if forceDownload {
		v.Set("download", "true")
	}
	return fmt.Sprintf("https://storage.invalid/%s?%s", objectPath, v.Encode()), nil
}
