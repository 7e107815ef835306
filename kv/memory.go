package kv

import (
	"context"
	"sync"
)

type Memory struct {
	values map[string]string
	lock   *sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		lock:   &sync.RWMutex{},
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.lock.RLock()
	v, ok := m.values[key]
	m.lock.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.lock.Lock()
	m.values[key] = value
	m.lock.Unlock()
	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.lock.Lock()
	for _, k := range keys {
		delete(m.values, k)
	}
	m.lock.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.lock.Lock()
	m.values = make(map[string]string)
	m.lock.Unlock()
	return nil
}

func (m *Memory) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.values)
}
