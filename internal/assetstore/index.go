package assetstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Index is the durable fingerprint -> Record mapping.
// Implemented by FileIndex (single-node) and RedisIndex (shared).
type Index interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Put(ctx context.Context, key string, rec Record) error
}

// FileIndex keeps the full index in memory, mirrored to a single JSON file.
// Every Put rewrites the file through a temp-file rename so a crash mid-write
// never leaves a truncated index behind.
type FileIndex struct {
	path string

	mu      sync.RWMutex
	entries map[string]Record
}

// NewFileIndex loads the index at path, creating an empty one if the file
// does not exist yet.
func NewFileIndex(path string) (*FileIndex, error) {
	idx := &FileIndex{
		path:    path,
		entries: make(map[string]Record),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("assetstore: create index dir: %w", err)
		}
		if err := idx.persistLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("assetstore: read index: %w", err)
	default:
		if err := json.Unmarshal(data, &idx.entries); err != nil {
			return nil, fmt.Errorf("assetstore: parse index %s: %w", path, err)
		}
	}

	return idx, nil
}

func (i *FileIndex) Get(ctx context.Context, key string) (Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}

	i.mu.RLock()
	rec, ok := i.entries[key]
	i.mu.RUnlock()
	return rec, ok, nil
}

func (i *FileIndex) Put(ctx context.Context, key string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.entries[key] = rec
	if err := i.persistLocked(); err != nil {
		delete(i.entries, key)
		return err
	}
	return nil
}

// Len reports the number of index entries. Used by tests and the health
// endpoint.
func (i *FileIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// persistLocked writes the index atomically. Caller must hold mu (or be the
// sole owner, as in NewFileIndex).
func (i *FileIndex) persistLocked() error {
	data, err := json.MarshalIndent(i.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("assetstore: marshal index: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(i.path), ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("assetstore: create temp index: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("assetstore: write temp index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("assetstore: sync temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("assetstore: close temp index: %w", err)
	}

	if err := os.Rename(tmpName, i.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("assetstore: replace index: %w", err)
	}
	return nil
}
