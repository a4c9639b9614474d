package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// FileBackend keeps every value of one profile in a single TOML document:
//
//	[values]
//	gs_cart = '[{"id":"p1",...}]'
//
// A missing or unreadable document reads as empty.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

type fileDocument struct {
	Values map[string]string `toml:"values"`
}

// NewFileBackend resolves path (a leading ~ expands to the home directory).
func NewFileBackend(path string) (*FileBackend, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	return &FileBackend{path: resolved}, nil
}

// Path is the resolved location of the document.
func (f *FileBackend) Path() string {
	return f.path
}

func (f *FileBackend) Load(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.read()
	value, ok := doc.Values[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (f *FileBackend) Store(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.read()
	doc.Values[key] = string(value)

	bytes, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal local store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create local store dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o600); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace local store: %w", err)
	}
	return nil
}

func (f *FileBackend) read() fileDocument {
	doc := fileDocument{Values: map[string]string{}}
	bytes, err := os.ReadFile(f.path)
	if err != nil {
		return doc
	}
	if err := toml.Unmarshal(bytes, &doc); err != nil {
		return fileDocument{Values: map[string]string{}}
	}
	if doc.Values == nil {
		doc.Values = map[string]string{}
	}
	return doc
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("local store path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
