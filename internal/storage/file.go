package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const filePrefix = "caltracker-"

// FileStore keeps one JSON file per key in a directory. It is the fallback
// when no database can be opened, so it does nothing beyond the filesystem.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// fileEntry is the on-disk envelope: the document plus its write time in ms.
type fileEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// OpenFileStore creates dir if needed and checks that it is writable.
func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("store dir %s not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return &FileStore{dir: dir}, nil
}

// FileOpener adapts OpenFileStore to an Opener.
func FileOpener(dir string) Opener {
	return func(context.Context) (Backend, error) {
		return OpenFileStore(dir)
	}
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, filePrefix+key+".json")
}

func (f *FileStore) Name() string { return "file" }

func (f *FileStore) Put(_ context.Context, key string, value []byte, at time.Time) error {
	data, err := json.Marshal(fileEntry{Data: value, Timestamp: at.UnixMilli()})
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(key))
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, time.Time, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path(key))
	f.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding %s: %w", f.path(key), err)
	}
	return e.Data, time.UnixMilli(e.Timestamp), nil
}

func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
