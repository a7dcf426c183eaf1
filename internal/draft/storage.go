package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrQuotaExceeded is returned by Set when the write would push the store
// past its byte quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage is a flat string key/value store. Get reports ok=false for a
// missing key; only real I/O problems are returned as errors.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// FileStorage keeps one file per key inside a directory.
type FileStorage struct {
	dir   string
	quota int64
}

// NewFileStorage creates a FileStorage rooted at dir. A quota of zero
// disables the size check.
func NewFileStorage(dir string, quota int64) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create draft dir %s: %w", dir, err)
	}
	return &FileStorage{dir: dir, quota: quota}, nil
}

// Dir returns the directory backing the store.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Get reads the value stored under key.
func (s *FileStorage) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes value atomically by writing to a temp file then renaming.
func (s *FileStorage) Set(key, value string) error {
	if s.quota > 0 {
		used, err := s.usedExcept(key)
		if err != nil {
			return err
		}
		if used+int64(len(value)) > s.quota {
			return fmt.Errorf("set %s (%d bytes): %w", key, len(value), ErrQuotaExceeded)
		}
	}

	tmpFile, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(value); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename to %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *FileStorage) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Used returns the number of bytes currently stored.
func (s *FileStorage) Used() (int64, error) {
	return s.usedExcept("")
}

// Quota returns the configured byte quota, zero meaning unlimited.
func (s *FileStorage) Quota() int64 {
	return s.quota
}

func (s *FileStorage) usedExcept(key string) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read draft dir %s: %w", s.dir, err)
	}
	var total int64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == key || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key)
}

// MemoryStorage is an in-process Storage, used by tests and by
// `apply --ephemeral`.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
	quota  int64
}

// NewMemoryStorage returns an empty MemoryStorage. A quota of zero disables
// the size check.
func NewMemoryStorage(quota int64) *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string), quota: quota}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		var used int64
		for k, v := range m.values {
			if k != key {
				used += int64(len(v))
			}
		}
		if used+int64(len(value)) > m.quota {
			return fmt.Errorf("set %s (%d bytes): %w", key, len(value), ErrQuotaExceeded)
		}
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

