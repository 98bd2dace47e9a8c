package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agvsim/putaway/model"
)

func TestParseMode(t *testing.T) {
	for _, value := range []string{"proximity", "energy", "load_balanced"} {
		mode, err := ParseMode(value)
		assert.NoError(t, err)
		assert.Equal(t, Mode(value), mode)
	}

	_, err := ParseMode("nearest")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseMode("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSortRobots_StableTies(t *testing.T) {
	robots := []*model.Robot{
		{RobotID: "r1", Location: model.Location{X: 3}, BatteryLevel: 80, FilledSpace: 1},
		{RobotID: "r2", Location: model.Location{X: 3}, BatteryLevel: 80, FilledSpace: 1},
		{RobotID: "r3", Location: model.Location{X: 1}, BatteryLevel: 95, FilledSpace: 2},
	}

	order := func() []string {
		ids := make([]string, len(robots))
		for i, robot := range robots {
			ids[i] = robot.RobotID
		}
		return ids
	}

	sortRobots(robots, ModeProximity)
	assert.Equal(t, []string{"r3", "r1", "r2"}, order())

	sortRobots(robots, ModeEnergy)
	assert.Equal(t, []string{"r3", "r1", "r2"}, order())

	sortRobots(robots, ModeLoadBalanced)
	assert.Equal(t, []string{"r1", "r2", "r3"}, order())
}
