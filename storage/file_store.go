package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore writes each value to <root>/<namespace>/<key>.json, replacing it
// atomically through a temp file and rename.
type FileStore struct {
	root string
	mu   sync.Mutex
}

func NewFileStore(root string) (*FileStore, error) {
	// Tighten directory permissions: 0750 by default.
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(namespace, key string) string {
	return filepath.Join(s.root, namespace, key+".json")
}

func (s *FileStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	if err := checkNames(namespace, key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.path(namespace, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read value: %w", err)
	}
	return data, true, nil
}

func (s *FileStore) Set(_ context.Context, namespace, key string, value []byte) error {
	if err := checkNames(namespace, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(namespace, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	if _, err := f.Write(value); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
