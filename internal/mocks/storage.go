package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/xenzys-api/internal/storage"
)

// MockObjectStorage is an in-memory mock implementation of ObjectStorage
type MockObjectStorage struct {
	mu           sync.Mutex
	Objects      map[string][]byte
	ContentTypes map[string]string
	Uploaded     []string
	Deleted      []string
	UploadErr    error
	DeleteErr    error
}

// Verify interface compliance
var _ storage.ObjectStorage = (*MockObjectStorage)(nil)

func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{
		Objects:      make(map[string][]byte),
		ContentTypes: make(map[string]string),
		Uploaded:     make([]string, 0),
		Deleted:      make([]string, 0),
	}
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.ContentTypes[key] = contentType
	m.Uploaded = append(m.Uploaded, key)
	return nil
}

func (m *MockObjectStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[key]
	if !ok {
		return nil, "", storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), m.ContentTypes[key], nil
}

func (m *MockObjectStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "http://storage.test/media/" + key, nil
}

func (m *MockObjectStorage) List(ctx context.Context, max int) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	objects := make([]storage.ObjectInfo, 0, len(m.Objects))
	for key, data := range m.Objects {
		objects = append(objects, storage.ObjectInfo{
			Key:  key,
			Size: int64(len(data)),
			URL:  "http://storage.test/media/" + key,
		})
		if max > 0 && len(objects) == max {
			break
		}
	}
	return objects, nil
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}
