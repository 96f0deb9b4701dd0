// Package storage holds ledger.Backend implementations and wrappers.
package storage

import (
	"bytes"
	"context"
	"sync"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// Memory keeps collections in process memory. Nothing survives a restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ledger.ErrKeyNotFound
	}

	return bytes.Clone(v), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = bytes.Clone(value)

	return nil
}
