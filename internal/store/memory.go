package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps everything in process memory. Records are stored
// JSON-encoded so callers never share state with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	sequences map[string][][]byte
	values    map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sequences: make(map[string][][]byte),
		values:    make(map[string][]byte),
	}
}

func (m *MemoryStore) Append(ctx context.Context, key string, record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequences[key] = append(m.sequences[key], payload)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	payloads := append([][]byte(nil), m.sequences[key]...)
	m.mu.RUnlock()

	return DecodeSequence(payloads, dest)
}

func (m *MemoryStore) Count(ctx context.Context, key string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sequences[key]), nil
}

func (m *MemoryStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	payload, ok := m.values[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = payload
	return nil
}
