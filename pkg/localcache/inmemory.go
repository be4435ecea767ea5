package localcache

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryStore is a thread-safe in-process KVStore. It loses its contents on
// restart, so it suits tests and single-session tooling rather than the
// offline-survival path.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[string]string),
	}
}

// Get retrieves the value for key.
func (s *InMemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("in-memory get for %s: %w", key, ErrNotFound)
	}
	return value, nil
}

// Set stores value under key.
func (s *InMemoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Close is a no-op.
func (s *InMemoryStore) Close() error {
	return nil
}
