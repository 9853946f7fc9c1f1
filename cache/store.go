package cache

import (
	"sort"
	"sync"
)

// Store is the durable layer behind the score cache. Implementations must
// not drop writes silently: a Put that did not persist returns an error.
type Store interface {
	Get(key string) (int, bool, error)
	Put(key string, score int) error
	// Range calls fn for every entry, in key order, until fn returns false.
	// fn must not call back into the store.
	Range(fn func(key string, score int) bool) error
	Close() error
}

// memoryStore persists nothing. It is used by tests and by the "memory"
// backend.
type memoryStore struct {
	mu     sync.RWMutex
	scores map[string]int
}

func NewMemoryStore() Store {
	return &memoryStore{scores: make(map[string]int)}
}

func (m *memoryStore) Get(key string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.scores[key]
	return v, ok, nil
}

func (m *memoryStore) Put(key string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[key] = score
	return nil
}

func (m *memoryStore) Range(fn func(string, int) bool) error {
	m.mu.RLock()
	snapshot := make(map[string]int, len(m.scores))
	for k, v := range m.scores {
		snapshot[k] = v
	}
	m.mu.RUnlock()
	return rangeSorted(snapshot, fn)
}

func (m *memoryStore) Close() error {
	return nil
}

func rangeSorted(scores map[string]int, fn func(string, int) bool) error {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !fn(k, scores[k]) {
			break
		}
	}
	return nil
}
