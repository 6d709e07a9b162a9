package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var ErrMiss = errors.New("kv: key not found")

// KV is a byte store addressed by key. Lock serializes read-modify-write
// cycles on a key; the returned func releases it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Lock(ctx context.Context, key string) (func(), error)
}

// FileKV keeps one file per key under dir.
type FileKV struct {
	dir string
	mu  sync.Mutex
}

func NewFileKV(dir string) *FileKV { return &FileKV{dir: dir} }

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return b, nil
}

// Set writes through a temp file and rename so readers never see a partial list.
func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create fallback dir: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, key+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *FileKV) Lock(_ context.Context, _ string) (func(), error) {
	f.mu.Lock()
	return f.mu.Unlock, nil
}

// MemoryKV is a process-local KV, used when nothing should touch disk.
type MemoryKV struct {
	mu     sync.RWMutex
	lockMu sync.Mutex
	data   map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Lock(_ context.Context, _ string) (func(), error) {
	m.lockMu.Lock()
	return m.lockMu.Unlock, nil
}
