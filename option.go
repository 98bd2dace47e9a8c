package putaway

import (
	"github.com/viant/afs/storage"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/messaging"
	"github.com/agvsim/putaway/tracing"
)

// Option customises the put-away service.
type Option func(s *Service)

// WithConfig sets the service configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithOrderStore sets the put-away order store.
func WithOrderStore(store OrderStore) Option {
	return func(s *Service) { s.runtime.orders = store }
}

// WithRobotStore sets the robot registry.
func WithRobotStore(store RobotStore) Option {
	return func(s *Service) { s.runtime.robots = store }
}

// WithShelfStore sets the shelf directory.
func WithShelfStore(store ShelfStore) Option {
	return func(s *Service) { s.runtime.shelves = store }
}

// WithStationStore sets the induction station directory.
func WithStationStore(store StationStore) Option {
	return func(s *Service) { s.runtime.stations = store }
}

// WithProfileStore sets the SKU packing profile directory.
func WithProfileStore(store ProfileStore) Option {
	return func(s *Service) { s.runtime.profiles = store }
}

// WithTaskStore sets the task ledger.
func WithTaskStore(store TaskStore) Option {
	return func(s *Service) { s.runtime.tasks = store }
}

// WithQueue sets the task hand-off queue shared by engine and dispatcher.
func WithQueue(queue messaging.Queue[model.Task]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithWarehouseBaseURL sets the base URL warehouse fixture locations
// resolve against.
func WithWarehouseBaseURL(baseURL string) Option {
	return func(s *Service) { s.warehouseBaseURL = baseURL }
}

// WithFsOptions sets file system options passed to fixture downloads (e.g.
// an embed.FS).
func WithFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.fsOptions = options }
}

// WithTracing configures OpenTelemetry tracing for the service. If
// outputFile is empty the stdout exporter is used; otherwise traces are
// written to the supplied file path. Safe to call multiple times — the
// first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}
