// Package prefs persists small one-shot flags outside the entity store,
// such as the "legacy history already migrated" marker.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FlagStore is the persisted boolean flag contract. Abstracted so tests
// can inject a fresh in-memory store.
type FlagStore interface {
	Get(key string) (bool, error)
	Set(key string, value bool) error
}

// FileStore implements FlagStore as a JSON file on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore persisting to dir/flags.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "flags.json")}
}

// Get reads a flag. A missing file or missing key reads as false.
func (fs *FileStore) Get(key string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	flags, err := fs.load()
	if err != nil {
		return false, err
	}
	return flags[key], nil
}

// Set writes a flag, creating the file if needed. The write goes through
// a temp file and rename so a crash never leaves a half-written file.
func (fs *FileStore) Set(key string, value bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	flags, err := fs.load()
	if err != nil {
		return err
	}
	flags[key] = value

	data, err := json.MarshalIndent(flags, "", "  ")
	if err != nil {
		return fmt.Errorf("prefs: marshal flags: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return fmt.Errorf("prefs: create dir: %w", err)
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("prefs: write flags: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("prefs: rename flags: %w", err)
	}
	return nil
}

func (fs *FileStore) load() (map[string]bool, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefs: read flags: %w", err)
	}

	flags := map[string]bool{}
	if err := json.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("prefs: parse flags: %w", err)
	}
	return flags, nil
}

// MemStore is an in-memory FlagStore for tests.
type MemStore struct {
	mu    sync.Mutex
	flags map[string]bool
}

// NewMemStore creates an empty in-memory flag store.
func NewMemStore() *MemStore {
	return &MemStore{flags: map[string]bool{}}
}

// Get reads a flag.
func (m *MemStore) Get(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[key], nil
}

// Set writes a flag.
func (m *MemStore) Set(key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = value
	return nil
}
