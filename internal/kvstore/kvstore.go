package kvstore

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("no such key")

// Store is a flat key-value store partitioned by namespace.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Put(ctx context.Context, namespace, key, value string) error
}

type Memory struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, namespace, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[namespace][key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

func (m *Memory) Put(_ context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[namespace] == nil {
		m.values[namespace] = make(map[string]string)
	}

	m.values[namespace][key] = value

	return nil
}
