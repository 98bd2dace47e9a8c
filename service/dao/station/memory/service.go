// Package memory provides the in-memory induction station directory.
package memory

import (
	"context"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/dao/criteria"
	"github.com/agvsim/putaway/service/dao/store"
)

// Service is an in-memory station store built on the generic memory store;
// List adds MapID filtering on top of it.
type Service struct {
	*store.MemoryStore[string, model.Station]
}

var _ dao.Service[string, model.Station] = (*Service)(nil)

// List returns copies of stations matching the supplied parameters.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Station, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Station, 0, len(all))
	for _, station := range all {
		if !criteria.Match(map[string]string{dao.ParamMapID: station.MapID}, parameters) {
			continue
		}
		out = append(out, station)
	}
	return out, nil
}

// New creates an empty station store.
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, model.Station](
			func(s *model.Station) string { return s.StationID },
			func(s *model.Station) *model.Station { return s.Clone() },
		),
	}
}
