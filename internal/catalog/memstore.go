package catalog

import (
	"context"
	"slices"
	"sync"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store]. It is the
// default backing for single-process deployments and tests. The zero value
// is ready to use.
type MemStore struct {
	mu    sync.RWMutex
	names map[Category][]string
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		names: make(map[Category][]string),
	}
}

// Put implements [Store.Put].
func (s *MemStore) Put(ctx context.Context, category Category, names []string) error {
	if !category.IsValid() {
		return ErrUnknownCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.names == nil {
		s.names = make(map[Category][]string)
	}
	s.names[category] = slices.Clone(names)
	return nil
}

// Names implements [Store.Names]. The returned slice is a copy; callers may
// hold it across the call as an immutable snapshot.
func (s *MemStore) Names(ctx context.Context, category Category) ([]string, error) {
	if !category.IsValid() {
		return nil, ErrUnknownCategory
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.names[category]), nil
}

// Loaded implements [Store.Loaded].
func (s *MemStore) Loaded(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range AllCategories() {
		if len(s.names[c]) == 0 {
			return false, nil
		}
	}
	return true, nil
}
