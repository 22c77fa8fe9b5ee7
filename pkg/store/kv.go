package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// Record keys used by the Store.
const (
	KeyProfile = "profile"
	KeyGoals   = "goals"
)

// KV is the persistence port: a string store addressed by key.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// FileKV keeps each key in its own JSON file under Root.
type FileKV struct {
	Root string
}

// NewFileKV creates a FileKV rooted at dir, creating the directory if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileKV{Root: dir}, nil
}

// PathFor returns the file that holds key.
func (f *FileKV) PathFor(key string) string {
	return filepath.Join(f.Root, key+".json")
}

// Get implements KV.
func (f *FileKV) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.PathFor(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements KV. The file is replaced atomically so a crash never leaves a
// half-written record behind.
func (f *FileKV) Set(key, value string) error {
	if err := atomic.WriteFile(f.PathFor(key), strings.NewReader(value)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-memory KV for tests and ephemeral sessions. The zero
// value is ready to use.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}
