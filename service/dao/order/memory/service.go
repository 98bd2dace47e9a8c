// Package memory provides the in-memory put-away order store. Besides the
// generic dao.Service surface it exposes Latest, the read the allocation
// engine starts every run with.
package memory

import (
	"context"
	"sync"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/dao/criteria"
)

// Service implements an in-memory, thread-safe order store. All API methods
// work with copies to eliminate data races between goroutines.
type Service struct {
	orders   map[string]*model.Order
	sequence map[string]uint64 // insertion order, breaks CreatedAt ties
	counter  uint64
	mux      sync.RWMutex
}

var _ dao.Service[string, model.Order] = (*Service)(nil)

// Save persists (a clone of) the supplied order.
func (s *Service) Save(_ context.Context, o *model.Order) error {
	if o == nil {
		return dao.ErrNilEntity
	}
	if o.PutawayOrderCode == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.orders[o.PutawayOrderCode]; !ok {
		s.counter++
		s.sequence[o.PutawayOrderCode] = s.counter
	}
	s.orders[o.PutawayOrderCode] = o.Clone()
	return nil
}

// Load retrieves a copy of the order or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, code string) (*model.Order, error) {
	if code == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	o, ok := s.orders[code]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return o.Clone(), nil
}

// Delete removes an order.
func (s *Service) Delete(_ context.Context, code string) error {
	if code == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.orders[code]; !ok {
		return dao.ErrNotFound
	}
	delete(s.orders, code)
	delete(s.sequence, code)
	return nil
}

// List returns copies of all orders, optionally filtered by map id.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Order, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if !criteria.Match(map[string]string{dao.ParamMapID: o.MapID}, parameters) {
			continue
		}
		out = append(out, o.Clone())
	}
	return out, nil
}

// Latest returns the most recently created order independent of map filter,
// or dao.ErrNotFound when the store is empty.
func (s *Service) Latest(_ context.Context) (*model.Order, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	var latest *model.Order
	var latestSeq uint64
	for code, o := range s.orders {
		if seq := s.sequence[code]; latest == nil || seq > latestSeq {
			latest, latestSeq = o, seq
		}
	}
	if latest == nil {
		return nil, dao.ErrNotFound
	}
	return latest.Clone(), nil
}

// New creates an empty order store.
func New() *Service {
	return &Service{
		orders:   map[string]*model.Order{},
		sequence: map[string]uint64{},
	}
}
