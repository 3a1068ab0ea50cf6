package store

import (
	"context"
	"sync"
)

// Memory is the in-memory backend.  It backs tests and dev runs and is the
// reference behavior the other backends must match.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, deviceID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[deviceID][key], nil
}

func (m *Memory) Set(_ context.Context, deviceID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[deviceID]
	if !ok {
		sess = make(map[string]string)
		m.sessions[deviceID] = sess
	}
	sess[key] = value
	return nil
}

func (m *Memory) Clear(_ context.Context, deviceID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[deviceID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(sess, k)
	}
	return nil
}
