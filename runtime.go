package putaway

import (
	"context"
	"fmt"

	"github.com/agvsim/putaway/internal/clock"
	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/allocator"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/dispatcher"
	"github.com/agvsim/putaway/service/loader"
	"github.com/agvsim/putaway/service/messaging"
)

// Runtime exposes the operational surface of the service: order intake,
// task generation, task queries and warehouse seeding.
type Runtime struct {
	config     *Config
	orders     OrderStore
	robots     RobotStore
	shelves    ShelfStore
	stations   StationStore
	profiles   ProfileStore
	tasks      TaskStore
	queue      messaging.Queue[model.Task]
	engine     *allocator.Service
	dispatcher *dispatcher.Service
	loader     *loader.Service
}

// GenerateTasks runs the allocation engine against the latest pending order
// and returns the committed task batch. An empty mode selects the
// configured default; failures wrap the allocator error categories.
func (r *Runtime) GenerateTasks(ctx context.Context, mode string) ([]*model.Task, error) {
	return r.engine.GenerateTasks(ctx, mode)
}

// GetTasks returns all ledger tasks for a map.
func (r *Runtime) GetTasks(ctx context.Context, mapID string) ([]*model.Task, error) {
	if mapID == "" {
		return nil, fmt.Errorf("%w: map id is required", allocator.ErrInvalidInput)
	}
	return r.tasks.List(ctx, dao.NewParameter(dao.ParamMapID, mapID))
}

// SubmitOrder stores a put-away order for later allocation, stamping the
// creation time when absent.
func (r *Runtime) SubmitOrder(ctx context.Context, order *model.Order) error {
	if order == nil {
		return dao.ErrNilEntity
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = clock.Now()
	}
	return r.orders.Save(ctx, order)
}

// LoadWarehouse seeds the robot, shelf, station and SKU stores from a YAML
// warehouse document resolved against the configured base URL.
func (r *Runtime) LoadWarehouse(ctx context.Context, location string) error {
	_, err := r.loader.Seed(ctx, location, loader.Stores{
		Robots:   r.robots,
		Shelves:  r.shelves,
		Stations: r.stations,
		Profiles: r.profiles,
	})
	return err
}

// StartDispatcher launches the background workers that hand committed tasks
// over to execution.
func (r *Runtime) StartDispatcher(ctx context.Context) error {
	return r.dispatcher.Start(ctx)
}

// ShutdownDispatcher stops the dispatcher workers.
func (r *Runtime) ShutdownDispatcher() {
	r.dispatcher.Shutdown()
}
