// Package kv defines the key-value blob store the repository persists
// through, plus the in-memory and file-backed implementations. Values
// are opaque strings (JSON documents in practice); there are no
// transactions and no atomic multi-key writes.
package kv

import (
	"context"
	"sync"
)

// Store is the persistence substrate contract. Implementations must
// treat each call as an independent operation: a Set either fully
// replaces the value under key or fails without effect.
type Store interface {
	// Get returns the value under key. ok is false when the key has
	// never been written or has been removed.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Memory is an in-process Store used as the default backend and in
// tests.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

var _ Store = (*Memory)(nil)
