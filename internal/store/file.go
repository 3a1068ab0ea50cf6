package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// File persists sessions as a single JSON document on disk.  It is the
// default backend when neither Redis nor MySQL is configured: good enough for
// a single-process gateway, survives restarts, trivially inspectable.
type File struct {
	mu       sync.Mutex
	path     string
	sessions map[string]map[string]string
}

// NewFile loads (or creates) the store at path.
func NewFile(path string) (*File, error) {
	f := &File{path: path, sessions: make(map[string]map[string]string)}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.sessions); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// flush writes the whole document atomically via a temp-file rename.  Caller
// holds the mutex.
func (f *File) flush() error {
	raw, err := json.MarshalIndent(f.sessions, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *File) Get(_ context.Context, deviceID, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[deviceID][key], nil
}

func (f *File) Set(_ context.Context, deviceID, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[deviceID]
	if !ok {
		sess = make(map[string]string)
		f.sessions[deviceID] = sess
	}
	sess[key] = value
	return f.flush()
}

func (f *File) Clear(_ context.Context, deviceID string, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[deviceID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(sess, k)
	}
	if len(sess) == 0 {
		delete(f.sessions, deviceID)
	}
	return f.flush()
}
