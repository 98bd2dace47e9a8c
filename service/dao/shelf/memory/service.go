// Package memory provides the in-memory shelf directory. Reads return deep
// copies so the allocation engine can decrement level capacities on its
// run-local snapshot without touching the stored records; the engine writes
// the reduced capacities back through Save when a run commits.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/dao/criteria"
)

// Service implements an in-memory, thread-safe shelf store. List preserves
// registration order so allocation tie-breaks stay deterministic.
type Service struct {
	shelves  map[string]*model.Shelf
	sequence map[string]uint64
	counter  uint64
	mux      sync.RWMutex
}

var _ dao.Service[string, model.Shelf] = (*Service)(nil)

// Save persists (a deep clone of) the supplied shelf.
func (s *Service) Save(_ context.Context, shelf *model.Shelf) error {
	if shelf == nil {
		return dao.ErrNilEntity
	}
	if shelf.ShelfID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if existing, ok := s.shelves[shelf.ShelfID]; ok && existing != nil {
		existing.CopyFrom(shelf)
	} else {
		s.counter++
		s.sequence[shelf.ShelfID] = s.counter
		s.shelves[shelf.ShelfID] = shelf.Clone()
	}
	return nil
}

// Load retrieves a deep copy of the shelf or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id string) (*model.Shelf, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	shelf, ok := s.shelves[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return shelf.Clone(), nil
}

// Delete removes a shelf.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.shelves[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.shelves, id)
	delete(s.sequence, id)
	return nil
}

// List returns deep copies of shelves matching the supplied parameters, in
// registration order.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Shelf, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	ids := make([]string, 0, len(s.shelves))
	for id := range s.shelves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return s.sequence[ids[i]] < s.sequence[ids[j]] })

	out := make([]*model.Shelf, 0, len(ids))
	for _, id := range ids {
		shelf := s.shelves[id]
		if !criteria.Match(map[string]string{dao.ParamMapID: shelf.MapID}, parameters) {
			continue
		}
		out = append(out, shelf.Clone())
	}
	return out, nil
}

// New creates an empty shelf store.
func New() *Service {
	return &Service{
		shelves:  map[string]*model.Shelf{},
		sequence: map[string]uint64{},
	}
}
