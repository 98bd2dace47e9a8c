package putaway

import (
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/allocator"
	"github.com/agvsim/putaway/service/dispatcher"
	"github.com/agvsim/putaway/service/loader"
	"github.com/agvsim/putaway/service/messaging"
	mmemory "github.com/agvsim/putaway/service/messaging/memory"

	ordermemory "github.com/agvsim/putaway/service/dao/order/memory"
	robotmemory "github.com/agvsim/putaway/service/dao/robot/memory"
	shelfmemory "github.com/agvsim/putaway/service/dao/shelf/memory"
	skumemory "github.com/agvsim/putaway/service/dao/sku/memory"
	stationmemory "github.com/agvsim/putaway/service/dao/station/memory"
	taskmemory "github.com/agvsim/putaway/service/dao/task/memory"
)

// Store contracts the façade wires together. They extend the engine's read
// ports with the writes the order intake, fixture loader and dispatcher
// need; every store under service/dao satisfies its contract.

// OrderStore holds put-away orders.
type OrderStore interface {
	allocator.OrderStore
	Save(ctx context.Context, order *model.Order) error
}

// RobotStore holds robot heartbeat state.
type RobotStore interface {
	allocator.RobotStore
	loader.RobotSink
}

// ShelfStore holds shelf snapshots.
type ShelfStore interface {
	allocator.ShelfStore
}

// StationStore holds induction station snapshots.
type StationStore interface {
	allocator.StationStore
	loader.StationSink
}

// ProfileStore holds SKU packing profiles.
type ProfileStore interface {
	allocator.ProfileStore
	loader.ProfileSink
}

// TaskStore is the task ledger.
type TaskStore interface {
	allocator.TaskStore
	dispatcher.TaskStore
}

// Service represents the put-away coordination service.
type Service struct {
	runtime          *Runtime
	config           *Config
	queue            messaging.Queue[model.Task]
	warehouseBaseURL string
	fsOptions        []storage.Option
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	rt := s.runtime
	rt.config = s.config
	rt.queue = s.queue
	rt.loader = loader.New(afs.New(), s.warehouseBaseURL, s.fsOptions...)
	rt.engine, _ = allocator.New(
		rt.orders, rt.robots, rt.shelves, rt.stations, rt.profiles, rt.tasks,
		allocator.WithConfig(s.config.Allocator),
		allocator.WithQueue(s.queue))
	rt.dispatcher, _ = dispatcher.New(s.queue, rt.tasks, s.config.Dispatcher)
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.queue == nil {
		s.queue = mmemory.NewQueue[model.Task](mmemory.DefaultConfig())
	}
	rt := s.runtime
	if rt.orders == nil {
		rt.orders = ordermemory.New()
	}
	if rt.robots == nil {
		rt.robots = robotmemory.New()
	}
	if rt.shelves == nil {
		rt.shelves = shelfmemory.New()
	}
	if rt.stations == nil {
		rt.stations = stationmemory.New()
	}
	if rt.profiles == nil {
		rt.profiles = skumemory.New()
	}
	if rt.tasks == nil {
		rt.tasks = taskmemory.New()
	}
}

// Runtime returns the runtime handle used to drive the service.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// New creates a put-away service; unset stores default to their in-memory
// implementations.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}
