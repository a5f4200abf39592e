// Package kv implements the namespaced, schema-versioned key-value store
// that holds all durable client state (trust ledger, thread directory, link
// cards, geo pulses, session bookkeeping).
//
// Values are wrapped in a small envelope {v, t, data} so stored shapes can be
// migrated across schema versions. Reads never fail: corrupt or
// wrong-version data falls back to a caller-supplied default.
package kv

import "sync"

// Backend is the raw string-to-string layer underneath the envelope store.
// It mirrors a browser's synchronous origin-local storage: single writer,
// last write wins, no cross-process coordination.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// MemoryBackend keeps everything in process memory. Used by tests and as a
// throwaway store when no data directory is configured.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MemoryBackend) Close() error { return nil }
