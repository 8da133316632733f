// Package store holds the client's persisted state: the session and
// the theme flag. Both live behind a small key-value Storage
// abstraction so the stores are testable without touching the
// filesystem.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// StateDirName is the per-user directory holding client state.
	StateDirName  = ".infographic-studio"
	stateFileName = "state.json"
)

// Storage is a durable string key-value store.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// FileStorage persists keys as a JSON object in a single file under
// the user's state directory. Writes rewrite the whole file; the
// state is a handful of small entries.
type FileStorage struct {
	path   string
	values map[string]string
}

// DefaultStateDir returns ~/.infographic-studio.
func DefaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, StateDirName)
}

// NewFileStorage loads (or initializes) the state file in dir.
func NewFileStorage(dir string) (*FileStorage, error) {
	s := &FileStorage{
		path:   filepath.Join(dir, stateFileName),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStorage) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.values[key] = value
	return s.flush()
}

func (s *FileStorage) Delete(key string) error {
	delete(s.values, key)
	return s.flush()
}

func (s *FileStorage) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// MemStorage is an in-memory Storage for tests.
type MemStorage struct {
	values map[string]string
}

func NewMemStorage() *MemStorage {
	return &MemStorage{values: make(map[string]string)}
}

func (s *MemStorage) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *MemStorage) Set(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *MemStorage) Delete(key string) error {
	delete(s.values, key)
	return nil
}
