// Package memstore provides a thread-safe, in-process store.Store.
// Entries live until they are overwritten or deleted; the provider decides
// when they are stale.
package memstore

import (
	"context"
	"sync"

	"github.com/optimode/disposable/store"
	"github.com/optimode/disposable/types"
)

// Store is a thread-safe in-memory cache store.
type Store struct {
	mu      sync.Mutex
	entries map[string]types.Entry
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{entries: make(map[string]types.Entry)}
}

func (s *Store) Get(_ context.Context, key string) (types.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return types.Entry{}, false, nil
	}
	return copyEntry(e), true, nil
}

func (s *Store) Put(_ context.Context, key string, entry types.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = copyEntry(entry)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len returns the number of entries in the store (for diagnostics).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// copyEntry returns a deep copy so callers cannot mutate cached data.
func copyEntry(e types.Entry) types.Entry {
	domains := make(types.DomainSet, len(e.Domains))
	for d := range e.Domains {
		domains[d] = struct{}{}
	}
	return types.Entry{Domains: domains, ExpiresAt: e.ExpiresAt}
}
