package mocks

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/user/picseq/pkg/ports"
)

// FileSystem is an in-memory ports.FileSystem. Streams opened with Create
// land in the file map when they are closed.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	// WriteFileFunc and CreateFunc replace the default behavior, typically
	// to inject write failures.
	WriteFileFunc func(path string, data []byte) error
	CreateFunc    func(path string) (io.WriteCloser, error)
}

// NewFileSystem creates an empty in-memory FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *FileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	return data, nil
}

func (m *FileSystem) WriteFile(name string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(name, data)
	}
	m.store(name, data)
	return nil
}

func (m *FileSystem) Open(name string) (io.ReadSeekCloser, error) {
	data, err := m.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return readSeekNopCloser{bytes.NewReader(data)}, nil
}

func (m *FileSystem) Create(name string) (io.WriteCloser, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(name)
	}
	return &memFile{fs: m, name: name}, nil
}

func (m *FileSystem) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for d := path.Clean(dir); d != "." && d != "/"; d = path.Dir(d) {
		m.dirs[d] = true
	}
	return nil
}

func (m *FileSystem) Exists(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, isFile := m.files[name]
	return isFile || m.dirs[path.Clean(name)], nil
}

func (m *FileSystem) store(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
}

// GetFile returns the contents of a file.
func (m *FileSystem) GetFile(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	return data, ok
}

// GetAllFiles returns a copy of the file map.
func (m *FileSystem) GetAllFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		result[k] = v
	}
	return result
}

var _ ports.FileSystem = (*FileSystem)(nil)

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

// memFile buffers a Create stream until Close.
type memFile struct {
	bytes.Buffer
	fs   *FileSystem
	name string
}

func (f *memFile) Close() error {
	f.fs.store(f.name, bytes.Clone(f.Bytes()))
	return nil
}
