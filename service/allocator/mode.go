package allocator

import (
	"fmt"
	"sort"

	"github.com/agvsim/putaway/model"
)

// Mode selects how eligible robots are ordered before the round-robin
// assignment walk.
type Mode string

const (
	// ModeProximity orders robots by ascending x coordinate.
	ModeProximity Mode = "proximity"
	// ModeEnergy orders robots by descending battery level.
	ModeEnergy Mode = "energy"
	// ModeLoadBalanced orders robots by ascending reported filled space.
	ModeLoadBalanced Mode = "load_balanced"
)

// ParseMode validates a mode string. Validation is pure: it must succeed
// before any collaborator call is issued.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeProximity, ModeEnergy, ModeLoadBalanced:
		return Mode(value), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, value)
}

// sortRobots orders the candidates in place according to the mode. All
// sorts are stable so robots tied on the sort key keep their input order.
func sortRobots(robots []*model.Robot, mode Mode) {
	switch mode {
	case ModeEnergy:
		sort.SliceStable(robots, func(i, j int) bool {
			return robots[i].BatteryLevel > robots[j].BatteryLevel
		})
	case ModeLoadBalanced:
		sort.SliceStable(robots, func(i, j int) bool {
			return robots[i].FilledSpace < robots[j].FilledSpace
		})
	default: // ModeProximity
		sort.SliceStable(robots, func(i, j int) bool {
			return robots[i].Location.X < robots[j].Location.X
		})
	}
}
