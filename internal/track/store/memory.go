package store

import (
	"context"
	"sync"

	"github.com/D-Elbel/gpxshare/internal/pkg/pkgerror"
)

// InMemoryStore keeps objects in process memory. It backs tests and local
// development without a running object storage service.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		objects: make(map[string][]byte),
	}
}

// Put stores a copy of value under key, overwriting any existing object.
func (s *InMemoryStore) Put(ctx context.Context, key string, value []byte) error {
	data := make([]byte, len(value))
	copy(data, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = data

	return nil
}

// Get returns a copy of the bytes stored under key, or
// pkgerror.ErrNotFound when nothing is stored there.
func (s *InMemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.objects[key]
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	data := make([]byte, len(value))
	copy(data, value)

	return data, nil
}

// Len reports how many objects are stored.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}
