package employee

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu  sync.RWMutex
	all map[string]Employee
}

// NewInMemoryStore backs the directory with a process-local map, for dev
// and tests.
func NewInMemoryStore() Store {
	return &memoryStore{all: map[string]Employee{}}
}

func (m *memoryStore) Get(_ context.Context, id string) (Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.all[id]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.all {
		if e.Email == email {
			return e, nil
		}
	}
	return Employee{}, ErrNotFound
}

func (m *memoryStore) ListActiveIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := []string{}
	for id, e := range m.all {
		if e.Status == StatusActive {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryStore) Put(_ context.Context, e Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all[e.ID] = e
	return nil
}
