package storage

import (
	"context"
	"sync"

	"github.com/landmarket/backend/internal/domain/media"
)

var _ media.FileStorage = (*MemoryStorage)(nil)

// MemoryStorage keeps files in a map. It backs service and handler tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	files   map[string][]byte
	baseURL string

	// FailPut makes Put fail for the listed keys
	FailPut map[string]error
}

// NewMemoryStorage creates an empty store that serves URLs under baseURL
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{files: make(map[string][]byte), baseURL: baseURL, FailPut: map[string]error{}}
}

// Put stores a copy of data
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.FailPut[key]; ok {
		return err
	}
	s.files[key] = append([]byte(nil), data...)
	return nil
}

// Exists reports whether key is stored
func (s *MemoryStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[key]
	return ok, nil
}

// Delete removes key
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

// URL returns the public path of key
func (s *MemoryStorage) URL(key string) string {
	return joinURL(s.baseURL, key)
}

// Get returns the stored bytes of key
func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.files[key]
	return b, ok
}

// Len returns the number of stored files
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
