package world

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// LocalStorage persists client scoped settings in a JSON file.
type LocalStorage struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// NewLocalStorage loads the file at path. An empty path keeps values in memory.
func NewLocalStorage(path string) (*LocalStorage, error) {
	l := &LocalStorage{path: path, values: make(map[string]string)}
	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read client settings: %w", err)
	}
	if len(data) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(data, &l.values); err != nil {
		return nil, fmt.Errorf("failed to decode client settings %s: %w", path, err)
	}
	return l, nil
}

// Get returns the stored value of key.
func (l *LocalStorage) Get(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

// Set stores value under key and flushes the file.
func (l *LocalStorage) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.values[key] = value
	if l.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(l.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode client settings: %w", err)
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create client settings directory: %w", err)
		}
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write client settings: %w", err)
	}
	return os.Rename(tmp, l.path)
}

// All returns a copy of every stored value.
func (l *LocalStorage) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.values)
}
