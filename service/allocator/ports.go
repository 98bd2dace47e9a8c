package allocator

import (
	"context"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/dao"
)

// Storage ports the engine consumes. The concrete stores under service/dao
// satisfy them; tests substitute counting or failing stubs.

// OrderStore yields the most recently created put-away order.
type OrderStore interface {
	Latest(ctx context.Context) (*model.Order, error)
}

// RobotStore lists robots, honouring MapID/Status parameters.
type RobotStore interface {
	List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Robot, error)
}

// ShelfStore lists shelves for a map and accepts capacity write-back when a
// run commits.
type ShelfStore interface {
	List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Shelf, error)
	Save(ctx context.Context, shelf *model.Shelf) error
}

// StationStore lists induction stations for a map.
type StationStore interface {
	List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Station, error)
}

// ProfileStore resolves SKU packing profiles by SKU id.
type ProfileStore interface {
	Load(ctx context.Context, skuID string) (*model.PackingProfile, error)
}

// TaskStore is the task ledger; SaveAll commits a whole run at once.
type TaskStore interface {
	SaveAll(ctx context.Context, tasks []*model.Task) error
	List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Task, error)
}
