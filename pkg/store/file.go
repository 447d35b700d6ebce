package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/gridwire/pkg/config"
	"github.com/matzehuels/gridwire/pkg/hdl"
)

// FileExt is the suffix of module files written by FileStore.
const FileExt = ".json.zst"

// FileStore keeps one compressed JSON file per module.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based module store.
// If baseDir is empty, defaults to $XDG_DATA_HOME/gridwire/modules/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, fmt.Errorf("get data dir: %w", err)
		}
		baseDir = filepath.Join(dir, "modules")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create module dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) modulePath(name string) string {
	return filepath.Join(s.baseDir, name+FileExt)
}

func (s *FileStore) Put(ctx context.Context, m *hdl.Module) error {
	if err := validate(m); err != nil {
		return err
	}
	blob, err := Encode(m)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.modulePath(m.Name), blob, 0o644); err != nil {
		return fmt.Errorf("write module file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, name string) (*hdl.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, err := os.ReadFile(s.modulePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("read module file: %w", err)
	}
	return Decode(blob)
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read module dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), FileExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modulePath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove module file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for module files.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
