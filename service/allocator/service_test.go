package allocator_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/progress"
	"github.com/agvsim/putaway/service/allocator"
	"github.com/agvsim/putaway/service/dao"
	ordermemory "github.com/agvsim/putaway/service/dao/order/memory"
	robotmemory "github.com/agvsim/putaway/service/dao/robot/memory"
	shelfmemory "github.com/agvsim/putaway/service/dao/shelf/memory"
	skumemory "github.com/agvsim/putaway/service/dao/sku/memory"
	stationmemory "github.com/agvsim/putaway/service/dao/station/memory"
	taskmemory "github.com/agvsim/putaway/service/dao/task/memory"
)

const testMap = "map-1"

type env struct {
	orders   *ordermemory.Service
	robots   *robotmemory.Service
	shelves  *shelfmemory.Service
	stations *stationmemory.Service
	profiles *skumemory.Service
	tasks    *taskmemory.Service
}

func newEnv() *env {
	return &env{
		orders:   ordermemory.New(),
		robots:   robotmemory.New(),
		shelves:  shelfmemory.New(),
		stations: stationmemory.New(),
		profiles: skumemory.New(),
		tasks:    taskmemory.New(),
	}
}

func (e *env) engine(t *testing.T, options ...allocator.Option) *allocator.Service {
	svc, err := allocator.New(e.orders, e.robots, e.shelves, e.stations, e.profiles, e.tasks, options...)
	assert.NoError(t, err)
	return svc
}

func (e *env) addOrder(t *testing.T, code string, items ...*model.SKUItem) {
	err := e.orders.Save(context.Background(), &model.Order{
		PutawayOrderCode: code,
		MapID:            testMap,
		SKUItems:         items,
	})
	assert.NoError(t, err)
}

func (e *env) addRobot(t *testing.T, id string, x, battery, filled float64) {
	err := e.robots.Save(context.Background(), &model.Robot{
		RobotID:      id,
		MapID:        testMap,
		Status:       model.StatusIdle,
		Location:     model.Location{X: x, Y: 0},
		BatteryLevel: battery,
		FilledSpace:  filled,
	})
	assert.NoError(t, err)
}

func (e *env) addShelf(t *testing.T, id string, levels map[string]*model.ShelfLevel) {
	var total float64
	for _, level := range levels {
		total += level.AvailableSpace
	}
	err := e.shelves.Save(context.Background(), &model.Shelf{
		ShelfID:        id,
		MapID:          testMap,
		ShelfCapacity:  total,
		AvailableSpace: total,
		Levels:         levels,
	})
	assert.NoError(t, err)
}

func (e *env) addStation(t *testing.T, id string, queue int) {
	err := e.stations.Save(context.Background(), &model.Station{
		StationID:   id,
		MapID:       testMap,
		QueueLength: queue,
	})
	assert.NoError(t, err)
}

func (e *env) addProfile(t *testing.T, id string, volume, height float64) {
	err := e.profiles.Save(context.Background(), &model.PackingProfile{
		SKUID:  id,
		Volume: volume,
		Height: height,
	})
	assert.NoError(t, err)
}

func level(space, maxHeight float64) *model.ShelfLevel {
	return &model.ShelfLevel{AvailableSpace: space, MaxHeight: maxHeight}
}

func TestGenerateTasks_LevelPriority(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 5})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addShelf(t, "s1", map[string]*model.ShelfLevel{
		model.LevelGround: level(3, 1),
		model.LevelSecond: level(10, 1),
	})
	e.addStation(t, "st1", 0)

	tasks, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.NoError(t, err)
	if !assert.Len(t, tasks, 1) {
		return
	}
	// Levels are visited top-down, so second wins over ground even though
	// ground was large enough for part of the amount.
	assert.Equal(t, model.LevelSecond, tasks[0].Level)
	assert.Equal(t, 5, tasks[0].Amount)
	assert.Equal(t, "r1", tasks[0].RobotID)
	assert.Equal(t, "st1", tasks[0].StationID)
	assert.Equal(t, model.TaskStatusPending, tasks[0].Status)

	shelf, err := e.shelves.Load(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, 5.0, shelf.Levels[model.LevelSecond].AvailableSpace)
	assert.Equal(t, 3.0, shelf.Levels[model.LevelGround].AvailableSpace)
	assert.Equal(t, 8.0, shelf.AvailableSpace)
}

func TestGenerateTasks_SkipsLowLevelCeiling(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 2})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addShelf(t, "s1", map[string]*model.ShelfLevel{
		model.LevelThird:  level(10, 0.3), // too low for the SKU
		model.LevelSecond: level(10, 1),
		model.LevelGround: level(10, 1),
	})
	e.addStation(t, "st1", 0)

	tasks, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.NoError(t, err)
	if assert.Len(t, tasks, 1) {
		assert.Equal(t, model.LevelSecond, tasks[0].Level)
	}
}

func TestGenerateTasks_CoversEveryLineItem(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addProfile(t, "sku-2", 2.0, 0.8)
	e.addOrder(t, "ORD1",
		&model.SKUItem{SKUID: "sku-1", Amount: 3},
		&model.SKUItem{SKUID: "sku-2", Amount: 4})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addRobot(t, "r2", 2, 80, 0)
	e.addShelf(t, "s1", map[string]*model.ShelfLevel{
		model.LevelSecond: level(100, 1),
	})
	e.addStation(t, "st1", 0)

	tasks, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.NoError(t, err)

	placed := map[string]int{}
	for _, task := range tasks {
		placed[task.SKUID] += task.Amount
		assert.Equal(t, "ORD1", task.PutawayOrderCode)
		assert.Equal(t, testMap, task.MapID)
	}
	assert.Equal(t, map[string]int{"sku-1": 3, "sku-2": 4}, placed)

	ledger, err := e.tasks.List(context.Background(), dao.NewParameter(dao.ParamMapID, testMap))
	assert.NoError(t, err)
	assert.Len(t, ledger, len(tasks))
}

func TestGenerateTasks_SplitsAcrossShelvesAndRobots(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 4})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addRobot(t, "r2", 2, 80, 0)
	e.addShelf(t, "sA", map[string]*model.ShelfLevel{model.LevelSecond: level(2, 1)})
	e.addShelf(t, "sB", map[string]*model.ShelfLevel{model.LevelSecond: level(2, 1)})
	e.addStation(t, "st1", 0)

	tasks, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.NoError(t, err)
	if !assert.Len(t, tasks, 2) {
		return
	}
	// Robots are consumed round-robin across placements.
	assert.Equal(t, "r1", tasks[0].RobotID)
	assert.Equal(t, "r2", tasks[1].RobotID)
	assert.Equal(t, 2, tasks[0].Amount)
	assert.Equal(t, 2, tasks[1].Amount)
	assert.NotEqual(t, tasks[0].ShelfID, tasks[1].ShelfID)
}

func TestGenerateTasks_ModeOrdering(t *testing.T) {
	testCases := []struct {
		description string
		mode        string
		expectRobot string
	}{
		{description: "proximity picks lowest x", mode: "proximity", expectRobot: "r1"},
		{description: "energy picks highest battery", mode: "energy", expectRobot: "r2"},
		{description: "load_balanced picks least filled", mode: "load_balanced", expectRobot: "r3"},
	}
	for _, testCase := range testCases {
		e := newEnv()
		e.addProfile(t, "sku-1", 1.0, 0.5)
		e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 1})
		e.addRobot(t, "r1", 1, 70, 5)
		e.addRobot(t, "r2", 2, 95, 3)
		e.addRobot(t, "r3", 3, 80, 1)
		e.addShelf(t, "s1", map[string]*model.ShelfLevel{model.LevelSecond: level(10, 1)})
		e.addStation(t, "st1", 0)

		tasks, err := e.engine(t).GenerateTasks(context.Background(), testCase.mode)
		assert.NoError(t, err, testCase.description)
		if assert.Len(t, tasks, 1, testCase.description) {
			assert.Equal(t, testCase.expectRobot, tasks[0].RobotID, testCase.description)
		}
	}
}

func TestGenerateTasks_UnknownMode(t *testing.T) {
	var calls int
	svc, err := allocator.New(
		&countingOrders{calls: &calls},
		&countingRobots{calls: &calls},
		&countingShelves{calls: &calls},
		&countingStations{calls: &calls},
		&countingProfiles{calls: &calls},
		&countingTasks{calls: &calls})
	assert.NoError(t, err)

	_, err = svc.GenerateTasks(context.Background(), "bogus")
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)
	assert.Contains(t, err.Error(), "bogus")
	// Mode validation is pure: no collaborator may have been consulted.
	assert.Equal(t, 0, calls)
}

func TestGenerateTasks_NoOrder(t *testing.T) {
	e := newEnv()
	_, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrNotFound)
}

func TestGenerateTasks_NoEligibleRobots(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 1})
	// Present but below the battery threshold.
	e.addRobot(t, "r1", 1, 59.9, 0)
	e.addShelf(t, "s1", map[string]*model.ShelfLevel{model.LevelSecond: level(10, 1)})
	e.addStation(t, "st1", 0)

	_, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrNotFound)
}

func TestGenerateTasks_NoStations(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 1})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addShelf(t, "s1", map[string]*model.ShelfLevel{model.LevelSecond: level(10, 1)})

	_, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrNotFound)
}

func TestGenerateTasks_HeightExceeded(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-tall", 1.0, 2.0)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-tall", Amount: 1})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addShelf(t, "s1", map[string]*model.ShelfLevel{
		model.LevelSecond: level(10, 1),
		model.LevelGround: level(10, 1),
	})
	e.addStation(t, "st1", 0)

	_, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "sku-tall")
}

func TestGenerateTasks_RobotCapExhausted(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 7})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addRobot(t, "r2", 2, 80, 0)
	// Seven single-unit placements needed, but two robots carry at most
	// six tasks; shelf capacity is not the limiting factor.
	for i := 0; i < 7; i++ {
		e.addShelf(t, fmt.Sprintf("s%d", i), map[string]*model.ShelfLevel{model.LevelGround: level(1, 1)})
	}
	e.addStation(t, "st1", 0)

	_, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "sku-1")

	// Nothing partial was persisted.
	ledger, err := e.tasks.List(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, ledger)
	shelf, err := e.shelves.Load(context.Background(), "s0")
	assert.NoError(t, err)
	assert.Equal(t, 1.0, shelf.AvailableSpace)
}

func TestGenerateTasks_StationSpread(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 4})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addShelf(t, "sA", map[string]*model.ShelfLevel{model.LevelSecond: level(2, 1)})
	e.addShelf(t, "sB", map[string]*model.ShelfLevel{model.LevelSecond: level(2, 1)})
	e.addStation(t, "st1", 0)
	e.addStation(t, "st2", 0)

	tasks, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.NoError(t, err)
	if assert.Len(t, tasks, 2) {
		assert.Equal(t, "st1", tasks[0].StationID)
		assert.Equal(t, "st2", tasks[1].StationID)
	}
}

func TestGenerateTasks_InvalidProfile(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 0, 0.5) // non-positive volume
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 1})
	e.addRobot(t, "r1", 1, 80, 0)

	_, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)
	assert.Contains(t, err.Error(), "sku-1")
}

func TestGenerateTasks_MissingProfile(t *testing.T) {
	e := newEnv()
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-unknown", Amount: 1})
	_, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)
}

func TestGenerateTasks_InvalidOrder(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 0})
	_, err := e.engine(t).GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)
}

func TestGenerateTasks_CommitFailure(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 2})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addShelf(t, "s1", map[string]*model.ShelfLevel{model.LevelSecond: level(10, 1)})
	e.addStation(t, "st1", 0)

	svc, err := allocator.New(e.orders, e.robots, e.shelves, e.stations, e.profiles, &failingLedger{})
	assert.NoError(t, err)

	_, err = svc.GenerateTasks(context.Background(), "proximity")
	assert.ErrorIs(t, err, allocator.ErrCollaboratorUnavailable)

	// The shelf write-back happens after the ledger commit, so a commit
	// failure leaves the shelf snapshot untouched.
	shelf, loadErr := e.shelves.Load(context.Background(), "s1")
	assert.NoError(t, loadErr)
	assert.Equal(t, 10.0, shelf.AvailableSpace)
}

func TestGenerateTasks_RunsAreIndependent(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 2})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addShelf(t, "s1", map[string]*model.ShelfLevel{model.LevelSecond: level(10, 1)})
	e.addStation(t, "st1", 0)

	svc := e.engine(t)
	first, err := svc.GenerateTasks(context.Background(), "proximity")
	assert.NoError(t, err)
	second, err := svc.GenerateTasks(context.Background(), "proximity")
	assert.NoError(t, err)

	// No dedup between runs, and the second run sees the written-back
	// capacity of the first.
	assert.NotEqual(t, first[0].TaskID, second[0].TaskID)
	shelf, err := e.shelves.Load(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, 6.0, shelf.AvailableSpace)

	ledger, err := e.tasks.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, ledger, 2)
}

func TestGenerateTasks_Progress(t *testing.T) {
	e := newEnv()
	e.addProfile(t, "sku-1", 1.0, 0.5)
	e.addOrder(t, "ORD1", &model.SKUItem{SKUID: "sku-1", Amount: 4})
	e.addRobot(t, "r1", 1, 80, 0)
	e.addShelf(t, "sA", map[string]*model.ShelfLevel{model.LevelSecond: level(2, 1)})
	e.addShelf(t, "sB", map[string]*model.ShelfLevel{model.LevelSecond: level(2, 1)})
	e.addStation(t, "st1", 0)

	tracker := &progress.Progress{}
	ctx := progress.WithProgress(context.Background(), tracker)
	_, err := e.engine(t).GenerateTasks(ctx, "proximity")
	assert.NoError(t, err)

	snapshot := tracker.Snapshot()
	assert.Equal(t, 1, snapshot.LineItems)
	assert.Equal(t, 4, snapshot.PlacedUnits)
	assert.Equal(t, 2, snapshot.EmittedTasks)
}

// Counting stubs satisfy the engine ports and record every invocation; they
// prove that pure validation short-circuits before any collaborator call.

type countingOrders struct{ calls *int }

func (c *countingOrders) Latest(context.Context) (*model.Order, error) {
	(*c.calls)++
	return nil, dao.ErrNotFound
}

type countingRobots struct{ calls *int }

func (c *countingRobots) List(context.Context, ...*dao.Parameter) ([]*model.Robot, error) {
	(*c.calls)++
	return nil, nil
}

type countingShelves struct{ calls *int }

func (c *countingShelves) List(context.Context, ...*dao.Parameter) ([]*model.Shelf, error) {
	(*c.calls)++
	return nil, nil
}

func (c *countingShelves) Save(context.Context, *model.Shelf) error {
	(*c.calls)++
	return nil
}

type countingStations struct{ calls *int }

func (c *countingStations) List(context.Context, ...*dao.Parameter) ([]*model.Station, error) {
	(*c.calls)++
	return nil, nil
}

type countingProfiles struct{ calls *int }

func (c *countingProfiles) Load(context.Context, string) (*model.PackingProfile, error) {
	(*c.calls)++
	return nil, dao.ErrNotFound
}

type countingTasks struct{ calls *int }

func (c *countingTasks) SaveAll(context.Context, []*model.Task) error {
	(*c.calls)++
	return nil
}

func (c *countingTasks) List(context.Context, ...*dao.Parameter) ([]*model.Task, error) {
	(*c.calls)++
	return nil, nil
}

type failingLedger struct{}

func (f *failingLedger) SaveAll(context.Context, []*model.Task) error {
	return fmt.Errorf("ledger unavailable")
}

func (f *failingLedger) List(context.Context, ...*dao.Parameter) ([]*model.Task, error) {
	return nil, fmt.Errorf("ledger unavailable")
}
