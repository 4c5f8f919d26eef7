package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/user/socialimages/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem.
// Paths are used verbatim; RealPath resolves entries registered with
// AddSymlink.
type FileSystem struct {
	mu       sync.RWMutex
	files    map[string][]byte
	dirs     map[string]bool
	symlinks map[string]string
	order    []string

	ReadFileFunc  func(path string) ([]byte, error)
	WriteFileFunc func(path string, data []byte) error
	MkdirFunc     func(path string) error
	ExistsFunc    func(path string) (bool, error)
	RealPathFunc  func(path string) (string, error)
	ReadDirFunc   func(path string) ([]string, error)
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:    make(map[string][]byte),
		dirs:     make(map[string]bool),
		symlinks: make(map[string]string),
	}
}

// AddFile registers a file (for test setup).
func (m *FileSystem) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

// AddDir registers a directory (for test setup).
func (m *FileSystem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
}

// AddSymlink makes RealPath resolve link to target (for test setup).
func (m *FileSystem) AddSymlink(link, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symlinks[link] = target
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if dir := filepath.Dir(path); dir != "." && !m.dirs[dir] {
		return fmt.Errorf("directory not found: %s", dir)
	}
	m.files[path] = data
	m.order = append(m.order, path)
	return nil
}

func (m *FileSystem) Mkdir(path string) error {
	if m.MkdirFunc != nil {
		return m.MkdirFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if parent := filepath.Dir(path); parent != "." && parent != "/" && !m.dirs[parent] {
		return fmt.Errorf("directory not found: %s", parent)
	}
	m.dirs[path] = true
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := path; p != "." && p != "/"; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; ok {
		return true, nil
	}
	if _, ok := m.dirs[path]; ok {
		return true, nil
	}
	return false, nil
}

func (m *FileSystem) RealPath(path string) (string, error) {
	if m.RealPathFunc != nil {
		return m.RealPathFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if target, ok := m.symlinks[path]; ok {
		path = target
	}
	if _, ok := m.files[path]; ok {
		return path, nil
	}
	if _, ok := m.dirs[path]; ok {
		return path, nil
	}
	return "", &os.PathError{Op: "realpath", Path: path, Err: os.ErrNotExist}
}

func (m *FileSystem) ReadDir(path string) ([]string, error) {
	if m.ReadDirFunc != nil {
		return m.ReadDirFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.dirs[path] {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: os.ErrNotExist}
	}
	var names []string
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], "/") {
			names = append(names, p[len(prefix):])
		}
	}
	sort.Strings(names)
	return names, nil
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// WriteOrder returns the paths passed to WriteFile, in call order.
func (m *FileSystem) WriteOrder() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

var _ ports.FileSystem = (*FileSystem)(nil)
