package model

import "time"

// Robot operational statuses as reported by heartbeats. Only idle robots are
// eligible for new transport tasks.
const (
	StatusIdle     = "idle"
	StatusBusy     = "busy"
	StatusMoving   = "moving"
	StatusCharging = "charging"
)

// Location is a position on the warehouse map grid.
type Location struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Robot is the engine's view of a mobile transport robot, refreshed by
// heartbeats upstream of this module. FilledSpace is an optional load metric
// used by the load_balanced ordering mode; absent readings stay at zero.
type Robot struct {
	RobotID      string    `json:"robot_id" yaml:"robot_id"`
	MapID        string    `json:"map_id" yaml:"map_id"`
	Status       string    `json:"status" yaml:"status"`
	Location     Location  `json:"location" yaml:"location"`
	BatteryLevel float64   `json:"battery_level" yaml:"battery_level"`
	FilledSpace  float64   `json:"filled_space,omitempty" yaml:"filled_space,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Clone returns a copy of the robot.
func (r *Robot) Clone() *Robot {
	if r == nil {
		return nil
	}
	ret := *r
	return &ret
}
