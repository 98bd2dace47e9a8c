package store

import (
	"context"
	"sort"
	"sync"

	"github.com/agvsim/putaway/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service. It keeps
// entities of type *T mapped by a comparable key K obtained from the key
// selector, and hands out clones when a clone function is supplied so
// callers can mutate results without racing other readers.
//
// List preserves insertion order; the engine breaks allocation ties by the
// order records arrive in, so stores must not shuffle them.
//
// Concrete stores embed it and override List when they need parameter
// filtering on top of the raw record set.
type MemoryStore[K comparable, T any] struct {
	mu       sync.RWMutex
	records  map[K]*T
	sequence map[K]uint64
	counter  uint64
	keyOf    func(*T) K
	cloneOf  func(*T) *T
}

// NewMemoryStore creates a MemoryStore. keyOf extracts the entity key
// (usually the ID field); cloneOf may be nil for entities that are treated
// as immutable once stored.
func NewMemoryStore[K comparable, T any](keyOf func(*T) K, cloneOf func(*T) *T) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:  make(map[K]*T),
		sequence: make(map[K]uint64),
		keyOf:    keyOf,
		cloneOf:  cloneOf,
	}
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	var zero K
	key := s.keyOf(v)
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		s.counter++
		s.sequence[key] = s.counter
	}
	s.records[key] = s.clone(v)
	return nil
}

// Load returns a record by key or dao.ErrNotFound.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	var zero K
	if key == zero {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.clone(v), nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	delete(s.sequence, key)
	return nil
}

// List returns all stored records in insertion order. Parameter filtering
// is left to embedding stores.
func (s *MemoryStore[K, T]) List(_ context.Context, _ ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return s.sequence[keys[i]] < s.sequence[keys[j]] })
	out := make([]*T, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.clone(s.records[key]))
	}
	return out, nil
}

func (s *MemoryStore[K, T]) clone(v *T) *T {
	if s.cloneOf == nil {
		return v
	}
	return s.cloneOf(v)
}
