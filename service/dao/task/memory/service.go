// Package memory provides the in-memory task ledger. The ledger is
// append-mostly: the engine commits whole runs through SaveAll and the
// dispatcher updates individual task statuses afterwards.
package memory

import (
	"context"
	"sync"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/dao/criteria"
)

// Service implements an in-memory, thread-safe task ledger.
type Service struct {
	tasks map[string]*model.Task
	mux   sync.RWMutex
}

var _ dao.Service[string, model.Task] = (*Service)(nil)

// Save persists (a clone of) the supplied task.
func (s *Service) Save(_ context.Context, t *model.Task) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	if t.TaskID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	s.tasks[t.TaskID] = t.Clone()
	return nil
}

// SaveAll commits a whole task batch atomically: either every task is
// persisted or, when any record is invalid, none are.
func (s *Service) SaveAll(_ context.Context, batch []*model.Task) error {
	for _, t := range batch {
		if t == nil {
			return dao.ErrNilEntity
		}
		if t.TaskID == "" {
			return dao.ErrInvalidID
		}
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	for _, t := range batch {
		s.tasks[t.TaskID] = t.Clone()
	}
	return nil
}

// Load retrieves a copy of the task or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	t, ok := s.tasks[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return t.Clone(), nil
}

// Delete removes a task.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// List returns copies of tasks matching the supplied parameters.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Task, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		fields := map[string]string{
			dao.ParamMapID:  t.MapID,
			dao.ParamStatus: t.Status,
		}
		if !criteria.Match(fields, parameters) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}

// New creates an empty task ledger.
func New() *Service {
	return &Service{tasks: map[string]*model.Task{}}
}
