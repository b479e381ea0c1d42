package services

import (
	"context"
	"sync"
)

// MockS3Service is an in-memory S3Interface for tests
type MockS3Service struct {
	objects map[string][]byte
	mu      sync.RWMutex

	// PutErr, when set, is returned by every PutObject call
	PutErr error
	// GetErr, when set, is returned by every GetObject call
	GetErr error
	// DeleteErr, when set, is returned by every DeleteObject call
	DeleteErr error
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
	}
}

// PutObject stores a copy of body under key
func (m *MockS3Service) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}

	content := make([]byte, len(body))
	copy(content, body)

	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()
	return nil
}

// GetObject returns the stored object or ErrObjectNotFound
func (m *MockS3Service) GetObject(ctx context.Context, key string) ([]byte, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// DeleteObject removes key
func (m *MockS3Service) DeleteObject(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// HasObject reports whether key exists (for test assertions)
func (m *MockS3Service) HasObject(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Object returns the raw stored bytes (for test assertions)
func (m *MockS3Service) Object(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key]
}
