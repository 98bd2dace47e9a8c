// Package memory provides the in-memory SKU packing profile directory. The
// engine treats profiles as immutable lookups, so no cloning is required.
package memory

import (
	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/dao/store"
)

// Service is an in-memory packing profile store keyed by SKU id.
type Service struct {
	*store.MemoryStore[string, model.PackingProfile]
}

var _ dao.Service[string, model.PackingProfile] = (*Service)(nil)

// New creates an empty packing profile store.
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, model.PackingProfile](
			func(p *model.PackingProfile) string { return p.SKUID },
			nil,
		),
	}
}
