package kvstore

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	values map[string]string
	mutex  sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if val, ok := s.values[key]; ok {
		return val, nil
	}
	return "", ErrNotFound
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[key] = value
	return nil
}

// Len returns the number of stored keys
func (s *MemoryStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.values)
}

func (s *MemoryStore) Close() error {
	return nil
}
