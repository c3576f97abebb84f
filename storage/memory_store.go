package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. Used by tests and by the
// "memory" backend for throwaway runs.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	if err := checkNames(namespace, key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[namespace+"/"+key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, namespace, key string, value []byte) error {
	if err := checkNames(namespace, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[namespace+"/"+key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
