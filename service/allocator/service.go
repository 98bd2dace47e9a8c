package allocator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/agvsim/putaway/internal/clock"
	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/progress"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/messaging"
	"github.com/agvsim/putaway/tracing"
)

// Config represents the engine configuration.
type Config struct {
	// Mode is the default robot ordering mode when a run does not specify
	// one.
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// BatteryThreshold is the minimum battery level an idle robot needs to
	// be eligible.
	BatteryThreshold float64 `json:"batteryThreshold,omitempty" yaml:"batteryThreshold,omitempty"`

	// RobotTaskCap limits how many tasks one robot may receive within a
	// single run.
	RobotTaskCap int `json:"robotTaskCap,omitempty" yaml:"robotTaskCap,omitempty"`

	// LevelPriority is the order in which shelf levels are tried.
	LevelPriority []string `json:"levelPriority,omitempty" yaml:"levelPriority,omitempty"`
}

// DefaultConfig returns the engine defaults: proximity ordering, battery
// threshold 60, three tasks per robot, top-down level walk.
func DefaultConfig() Config {
	return Config{
		Mode:             string(ModeProximity),
		BatteryThreshold: 60.0,
		RobotTaskCap:     3,
		LevelPriority:    model.LevelPriority(),
	}
}

// Service is the put-away allocation engine.
type Service struct {
	config   Config
	orders   OrderStore
	robots   RobotStore
	shelves  ShelfStore
	stations StationStore
	profiles ProfileStore
	tasks    TaskStore
	queue    messaging.Queue[model.Task]
}

// Option customises the engine.
type Option func(*Service)

// WithConfig replaces the engine configuration.
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithQueue sets an optional queue that committed tasks are published to
// for downstream dispatch.
func WithQueue(queue messaging.Queue[model.Task]) Option {
	return func(s *Service) { s.queue = queue }
}

// New creates an allocation engine wired to the supplied storage ports.
func New(orders OrderStore, robots RobotStore, shelves ShelfStore, stations StationStore, profiles ProfileStore, tasks TaskStore, options ...Option) (*Service, error) {
	if orders == nil || robots == nil || shelves == nil || stations == nil || profiles == nil || tasks == nil {
		return nil, fmt.Errorf("allocator: all storage ports are required")
	}
	ret := &Service{
		config:   DefaultConfig(),
		orders:   orders,
		robots:   robots,
		shelves:  shelves,
		stations: stations,
		profiles: profiles,
		tasks:    tasks,
	}
	for _, option := range options {
		option(ret)
	}
	if len(ret.config.LevelPriority) == 0 {
		ret.config.LevelPriority = model.LevelPriority()
	}
	return ret, nil
}

// candidate pairs a robot snapshot with its per-run task counter.
type candidate struct {
	*model.Robot
	assigned int
}

// run holds the mutable state of a single allocation: all records are
// run-local clones, so nothing leaks between invocations and a failed run
// has no side effects.
type run struct {
	order    *model.Order
	mode     Mode
	profiles map[string]*model.PackingProfile
	robots   []*candidate
	cursor   int
	shelves  []*model.Shelf
	touched  map[string]bool
	stations []*model.Station
	tasks    []*model.Task
}

// GenerateTasks plans and commits transport tasks fully covering the latest
// pending order. The mode argument overrides the configured default; an
// empty string keeps it. On any failure the run aborts before the ledger
// commit and nothing is persisted.
func (s *Service) GenerateTasks(ctx context.Context, mode string) (tasks []*model.Task, err error) {
	if mode == "" {
		mode = s.config.Mode
	}
	// Pure validation, must short-circuit before any collaborator call.
	parsedMode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "allocator.GenerateTasks")
	defer func() { tracing.EndSpan(span, err) }()

	r, err := s.newRun(ctx, parsedMode)
	if err != nil {
		return nil, err
	}
	span.WithAttributes(map[string]string{
		"putaway.order_code": r.order.PutawayOrderCode,
		"putaway.map_id":     r.order.MapID,
		"putaway.mode":       string(parsedMode),
	})
	progress.FromContext(ctx).Begin(r.order.PutawayOrderCode, r.order.MapID)

	for _, item := range r.order.SKUItems {
		if err = s.allocateItem(ctx, r, item); err != nil {
			return nil, err
		}
		progress.FromContext(ctx).Update(progress.Delta{LineItems: 1})
	}

	if err = s.commit(ctx, r); err != nil {
		return nil, err
	}
	span.WithAttributes(map[string]string{"putaway.tasks": strconv.Itoa(len(r.tasks))})
	return r.tasks, nil
}

// newRun loads and validates every snapshot the placement loop needs.
func (s *Service) newRun(ctx context.Context, mode Mode) (*run, error) {
	order, err := s.loadOrder(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.loadProfiles(ctx, order)
	if err != nil {
		return nil, err
	}
	robots, err := s.loadEligibleRobots(ctx, order.MapID, mode)
	if err != nil {
		return nil, err
	}
	shelves, err := s.shelves.List(ctx, dao.NewParameter(dao.ParamMapID, order.MapID))
	if err != nil {
		return nil, fmt.Errorf("%w: listing shelves: %v", ErrCollaboratorUnavailable, err)
	}
	if len(shelves) == 0 {
		return nil, fmt.Errorf("%w: no shelves for map %v", ErrNotFound, order.MapID)
	}
	stations, err := s.stations.List(ctx, dao.NewParameter(dao.ParamMapID, order.MapID))
	if err != nil {
		return nil, fmt.Errorf("%w: listing stations: %v", ErrCollaboratorUnavailable, err)
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("%w: no stations for map %v", ErrNotFound, order.MapID)
	}

	return &run{
		order:    order,
		mode:     mode,
		profiles: profiles,
		robots:   robots,
		shelves:  shelves,
		touched:  map[string]bool{},
		stations: stations,
	}, nil
}

func (s *Service) loadOrder(ctx context.Context) (*model.Order, error) {
	order, err := s.orders.Latest(ctx)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, fmt.Errorf("%w: no pending put-away order", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: fetching order: %v", ErrCollaboratorUnavailable, err)
	}
	if order.PutawayOrderCode == "" || order.MapID == "" {
		return nil, fmt.Errorf("%w: order is missing code or map id", ErrInvalidInput)
	}
	if len(order.SKUItems) == 0 {
		return nil, fmt.Errorf("%w: order %v has no SKU items", ErrInvalidInput, order.PutawayOrderCode)
	}
	for _, item := range order.SKUItems {
		if item.SKUID == "" {
			return nil, fmt.Errorf("%w: order %v has a line item without SKU id", ErrInvalidInput, order.PutawayOrderCode)
		}
		if item.Amount <= 0 {
			return nil, fmt.Errorf("%w: SKU %v has non-positive amount %v", ErrInvalidInput, item.SKUID, item.Amount)
		}
	}
	return order, nil
}

// loadProfiles fetches each distinct SKU packing profile once per run.
func (s *Service) loadProfiles(ctx context.Context, order *model.Order) (map[string]*model.PackingProfile, error) {
	profiles := make(map[string]*model.PackingProfile, len(order.SKUItems))
	for _, item := range order.SKUItems {
		if _, ok := profiles[item.SKUID]; ok {
			continue
		}
		profile, err := s.profiles.Load(ctx, item.SKUID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return nil, fmt.Errorf("%w: SKU %v has no packing profile", ErrInvalidInput, item.SKUID)
			}
			return nil, fmt.Errorf("%w: fetching packing profile for SKU %v: %v", ErrCollaboratorUnavailable, item.SKUID, err)
		}
		if !profile.IsValid() {
			return nil, fmt.Errorf("%w: SKU %v packing profile has non-positive volume or height", ErrInvalidInput, item.SKUID)
		}
		profiles[item.SKUID] = profile
	}
	return profiles, nil
}

func (s *Service) loadEligibleRobots(ctx context.Context, mapID string, mode Mode) ([]*candidate, error) {
	robots, err := s.robots.List(ctx,
		dao.NewParameter(dao.ParamMapID, mapID),
		dao.NewParameter(dao.ParamStatus, model.StatusIdle))
	if err != nil {
		return nil, fmt.Errorf("%w: listing robots: %v", ErrCollaboratorUnavailable, err)
	}
	eligible := robots[:0]
	for _, robot := range robots {
		if robot.BatteryLevel >= s.config.BatteryThreshold {
			eligible = append(eligible, robot)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: no eligible robots for map %v", ErrNotFound, mapID)
	}
	sortRobots(eligible, mode)

	candidates := make([]*candidate, len(eligible))
	for i, robot := range eligible {
		candidates[i] = &candidate{Robot: robot}
	}
	return candidates, nil
}

// allocateItem places one order line item, splitting it across shelves and
// robots until the requested amount is fully covered.
func (s *Service) allocateItem(ctx context.Context, r *run, item *model.SKUItem) error {
	profile := r.profiles[item.SKUID]
	remaining := item.Amount

	for remaining > 0 {
		robot := r.nextRobot(s.config.RobotTaskCap)
		if robot == nil {
			return fmt.Errorf("%w: every eligible robot reached the cap of %v tasks (SKU %v, %v units left)",
				ErrCapacityExceeded, s.config.RobotTaskCap, item.SKUID, remaining)
		}

		shelf := s.pickShelf(r, profile)
		if shelf == nil {
			return fmt.Errorf("%w: no shelf level can hold SKU %v (%v units left)",
				ErrCapacityExceeded, item.SKUID, remaining)
		}

		levelName, units := s.placeOnShelf(shelf, profile, remaining)
		if units <= 0 {
			// The shelf just passed the eligibility check, so a zero-unit
			// placement is an invariant violation; failing here guards
			// against an infinite loop.
			return fmt.Errorf("%w: shelf %v accepted zero units of SKU %v despite passing eligibility",
				ErrInternal, shelf.ShelfID, item.SKUID)
		}

		level := shelf.Levels[levelName]
		level.SKUDetails = append(level.SKUDetails, model.Placement{
			Level:  levelName,
			SKUID:  item.SKUID,
			Amount: units,
		})
		r.touched[shelf.ShelfID] = true
		robot.assigned++
		remaining -= units

		station := r.pickStation()

		r.tasks = append(r.tasks, &model.Task{
			TaskID:           uuid.New().String(),
			PutawayOrderCode: r.order.PutawayOrderCode,
			RobotID:          robot.RobotID,
			StationID:        station.StationID,
			ShelfID:          shelf.ShelfID,
			Level:            levelName,
			SKUID:            item.SKUID,
			Amount:           units,
			MapID:            r.order.MapID,
			Status:           model.TaskStatusPending,
			CreatedAt:        clock.Now(),
		})
		progress.FromContext(ctx).Update(progress.Delta{PlacedUnits: units, EmittedTasks: 1})
	}
	return nil
}

// nextRobot returns the next robot in round-robin order that is still under
// the task cap, or nil when every candidate has reached it. The cursor
// persists across line items within the run.
func (r *run) nextRobot(maxTasks int) *candidate {
	n := len(r.robots)
	for i := 0; i < n; i++ {
		robot := r.robots[(r.cursor+i)%n]
		if robot.assigned >= maxTasks {
			continue
		}
		r.cursor = (r.cursor + i + 1) % n
		return robot
	}
	return nil
}

// pickShelf returns the eligible shelf with the greatest available space;
// ties keep input order. A shelf is eligible when at least one level has
// space, clears the SKU height and fits at least one packing unit.
func (s *Service) pickShelf(r *run, profile *model.PackingProfile) *model.Shelf {
	var best *model.Shelf
	for _, shelf := range r.shelves {
		if !s.shelfEligible(shelf, profile) {
			continue
		}
		if best == nil || shelf.AvailableSpace > best.AvailableSpace {
			best = shelf
		}
	}
	return best
}

func (s *Service) shelfEligible(shelf *model.Shelf, profile *model.PackingProfile) bool {
	for _, name := range s.config.LevelPriority {
		if levelFits(shelf.Levels[name], profile) {
			return true
		}
	}
	return false
}

func levelFits(level *model.ShelfLevel, profile *model.PackingProfile) bool {
	return level != nil &&
		level.AvailableSpace > 0 &&
		level.MaxHeight >= profile.Height &&
		math.Floor(level.AvailableSpace/profile.Volume) >= 1
}

// placeOnShelf walks the shelf levels in priority order, books as many units
// as the first fitting level holds and decrements the run-local capacities.
func (s *Service) placeOnShelf(shelf *model.Shelf, profile *model.PackingProfile, remaining int) (string, int) {
	for _, name := range s.config.LevelPriority {
		level := shelf.Levels[name]
		if !levelFits(level, profile) {
			continue
		}
		units := int(math.Floor(level.AvailableSpace / profile.Volume))
		if units > remaining {
			units = remaining
		}
		volume := float64(units) * profile.Volume
		level.AvailableSpace -= volume
		shelf.AvailableSpace -= volume
		return name, units
	}
	return "", 0
}

// pickStation returns the station with the shortest queue, ties keeping
// input order, and books the new task against its run-local queue length so
// consecutive placements spread across equally loaded stations.
func (r *run) pickStation() *model.Station {
	best := r.stations[0]
	for _, station := range r.stations[1:] {
		if station.QueueLength < best.QueueLength {
			best = station
		}
	}
	best.QueueLength++
	return best
}

// commit persists the whole task batch, writes the reduced shelf capacities
// back and hands the tasks to the dispatch queue when one is wired.
func (s *Service) commit(ctx context.Context, r *run) error {
	if err := s.tasks.SaveAll(ctx, r.tasks); err != nil {
		return fmt.Errorf("%w: committing %v tasks: %v", ErrCollaboratorUnavailable, len(r.tasks), err)
	}
	for _, shelf := range r.shelves {
		if !r.touched[shelf.ShelfID] {
			continue
		}
		if err := s.shelves.Save(ctx, shelf); err != nil {
			return fmt.Errorf("%w: writing back shelf %v after commit: %v", ErrCollaboratorUnavailable, shelf.ShelfID, err)
		}
	}
	if s.queue != nil {
		for _, task := range r.tasks {
			if err := s.queue.Publish(ctx, task); err != nil {
				// Tasks are already committed; dispatch can pick them up
				// from the ledger.
				log.Printf("allocator: failed to publish task %v: %v", task.TaskID, err)
			}
		}
	}
	return nil
}
