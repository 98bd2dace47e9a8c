// Package memory provides the in-memory robot registry fed by heartbeat
// ingestion upstream of this module.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/dao/criteria"
)

// Service implements an in-memory, thread-safe robot store. List supports
// MapID and Status parameters so callers can ask for idle robots of one map
// in a single read, and preserves registration order so allocation
// tie-breaks stay deterministic.
type Service struct {
	robots   map[string]*model.Robot
	sequence map[string]uint64
	counter  uint64
	mux      sync.RWMutex
}

var _ dao.Service[string, model.Robot] = (*Service)(nil)

// Save upserts a robot record, as a heartbeat would.
func (s *Service) Save(_ context.Context, r *model.Robot) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.RobotID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.robots[r.RobotID]; !ok {
		s.counter++
		s.sequence[r.RobotID] = s.counter
	}
	s.robots[r.RobotID] = r.Clone()
	return nil
}

// Load retrieves a copy of the robot or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id string) (*model.Robot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	r, ok := s.robots[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return r.Clone(), nil
}

// Delete removes a robot.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.robots[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.robots, id)
	delete(s.sequence, id)
	return nil
}

// List returns copies of robots matching the supplied parameters, in
// registration order.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Robot, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	ids := make([]string, 0, len(s.robots))
	for id := range s.robots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return s.sequence[ids[i]] < s.sequence[ids[j]] })

	out := make([]*model.Robot, 0, len(ids))
	for _, id := range ids {
		r := s.robots[id]
		fields := map[string]string{
			dao.ParamMapID:  r.MapID,
			dao.ParamStatus: r.Status,
		}
		if !criteria.Match(fields, parameters) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

// New creates an empty robot store.
func New() *Service {
	return &Service{
		robots:   map[string]*model.Robot{},
		sequence: map[string]uint64{},
	}
}
