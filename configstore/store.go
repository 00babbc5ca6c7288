// Package configstore reads and writes the form configuration document and
// keeps a cached copy of it.
package configstore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/pkg/errors"
)

var (
	// ErrNotExist is returned by a Store that holds no document yet.
	ErrNotExist = errors.New("configuration document does not exist")
	// ErrReadOnly is returned by Write when the backend cannot be written.
	ErrReadOnly = errors.New("configuration store is read-only")
)

// Version identifies a revision of the stored document. It only needs to
// change when the document does.
type Version int64

// Store is a backend holding one JSON document.
type Store interface {
	Stat(ctx context.Context) (Version, error)
	Read(ctx context.Context) ([]byte, Version, error)
	Write(ctx context.Context, data []byte) (Version, error)
}

// FileStore keeps the document in a file. Its version is the file's
// modification time.
type FileStore struct {
	Path     string
	ReadOnly bool
}

func NewFileStore(path string, readOnly bool) *FileStore {
	return &FileStore{Path: path, ReadOnly: readOnly}
}

func (s *FileStore) Stat(ctx context.Context) (Version, error) {
	info, err := os.Stat(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, ErrNotExist
	}
	if err != nil {
		return 0, errors.Wrap(err, "configstore.file.stat")
	}
	return Version(info.ModTime().UnixNano()), nil
}

func (s *FileStore) Read(ctx context.Context) ([]byte, Version, error) {
	version, err := s.Stat(ctx)
	if err != nil {
		return nil, 0, err
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, ErrNotExist
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "configstore.file.read")
	}
	return data, version, nil
}

// Write replaces the file through a temporary file in the same directory.
func (s *FileStore) Write(ctx context.Context, data []byte) (Version, error) {
	if s.ReadOnly {
		return 0, ErrReadOnly
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, writeError("configstore.file.mkdir", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return 0, writeError("configstore.file.create_temp", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return 0, writeError("configstore.file.write", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, writeError("configstore.file.close", err)
	}
	if err = os.Rename(tmp.Name(), s.Path); err != nil {
		return 0, writeError("configstore.file.rename", err)
	}
	return s.Stat(ctx)
}

func writeError(code string, err error) error {
	if errors.Is(err, syscall.EROFS) || errors.Is(err, fs.ErrPermission) {
		return errors.Wrap(ErrReadOnly, code+": "+err.Error())
	}
	return errors.Wrap(err, code)
}

// MemoryStore keeps the document in memory. Its version is a counter.
type MemoryStore struct {
	mu      sync.Mutex
	data    []byte
	version Version
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Stat(ctx context.Context) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return 0, ErrNotExist
	}
	return s.version, nil
}

func (s *MemoryStore) Read(ctx context.Context) ([]byte, Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, 0, ErrNotExist
	}
	return append([]byte{}, s.data...), s.version, nil
}

func (s *MemoryStore) Write(ctx context.Context, data []byte) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte{}, data...)
	s.version++
	return s.version, nil
}
