package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps JSON values by key in a single file. Every Set
// rewrites the file through a temp file and rename so a crash never leaves
// it half written.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]json.RawMessage
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", path, err)
	}
	return s, nil
}

// Get decodes the value under key into dest and reports whether it existed
func (s *FileStore) Get(key string, dest any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

func (s *FileStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLocked()
	next[key] = raw
	if err := s.write(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) copyLocked() map[string]json.RawMessage {
	next := make(map[string]json.RawMessage, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	return next
}

func (s *FileStore) write(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
