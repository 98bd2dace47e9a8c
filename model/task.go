package model

import "time"

// Task lifecycle states. The engine only ever writes pending tasks; the
// dispatcher moves them to assigned, later states belong to downstream
// execution.
const (
	TaskStatusPending  = "pending"
	TaskStatusAssigned = "assigned"
)

// Task is one executable transport instruction: a robot carries the given
// SKU units through an induction station onto a shelf level.
type Task struct {
	TaskID           string    `json:"task_id" yaml:"task_id"`
	PutawayOrderCode string    `json:"putaway_order_code" yaml:"putaway_order_code"`
	RobotID          string    `json:"robot_id" yaml:"robot_id"`
	StationID        string    `json:"station_id" yaml:"station_id"`
	ShelfID          string    `json:"shelf_id" yaml:"shelf_id"`
	Level            string    `json:"level" yaml:"level"`
	SKUID            string    `json:"sku_id" yaml:"sku_id"`
	Amount           int       `json:"amount" yaml:"amount"`
	MapID            string    `json:"map_id" yaml:"map_id"`
	Status           string    `json:"status" yaml:"status"`
	CreatedAt        time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Clone returns a copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	ret := *t
	return &ret
}
