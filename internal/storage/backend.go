package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is the synchronous key-value backend behind the primary store. It is
// deliberately tiny so tests can swap the file implementation for an
// in-memory one.
type KV interface {
	// Get returns the value for key, or ok=false if the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set writes the value for key, overwriting any previous value.
	Set(key string, value []byte) error
}

// FileKV stores each key as a file inside a directory.
type FileKV struct {
	dir string
}

// NewFileKV creates the directory if needed and returns a file-backed KV.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Get implements KV.
func (f *FileKV) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements KV. The value is written to a temp file and renamed so a
// crash mid-write never leaves a truncated record behind.
func (f *FileKV) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(f.dir, key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s into place: %w", key, err)
	}
	return nil
}

// MemKV is an in-memory KV for tests.
type MemKV struct {
	mu sync.Mutex
	m  map[string][]byte

	// FailWrites makes Set return an error, to exercise storage failure paths.
	FailWrites bool
}

// NewMemKV returns an empty in-memory KV.
func NewMemKV() *MemKV {
	return &MemKV{m: make(map[string][]byte)}
}

// Get implements KV.
func (m *MemKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.m[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

// Set implements KV.
func (m *MemKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("write rejected: %w", ErrStorage)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.m[key] = cp
	return nil
}
