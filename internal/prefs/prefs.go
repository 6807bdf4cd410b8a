// Package prefs is the local key/value storage that survives process restarts.
package prefs

import (
	"context"
	"errors"
	"sync"
)

// KeyFirebaseCode is the key under which the last access code is remembered.
const KeyFirebaseCode = "firebaseCode"

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("preference not found")

// Store persists string preferences.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}
