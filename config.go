package putaway

import (
	"fmt"

	"github.com/agvsim/putaway/service/allocator"
	"github.com/agvsim/putaway/service/dispatcher"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from JSON or YAML; the zero-value is useful — all nested
// fields inherit their package defaults.
type Config struct {
	Allocator  allocator.Config  `json:"allocator" yaml:"allocator"`
	Dispatcher dispatcher.Config `json:"dispatcher" yaml:"dispatcher"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New via
// WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Allocator:  allocator.DefaultConfig(),
		Dispatcher: dispatcher.DefaultConfig(),
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Allocator.BatteryThreshold < 0 || c.Allocator.BatteryThreshold > 100 {
		return fmt.Errorf("allocator.batteryThreshold must be within 0..100")
	}
	if c.Allocator.RobotTaskCap <= 0 {
		return fmt.Errorf("allocator.robotTaskCap must be > 0")
	}
	if c.Dispatcher.Workers <= 0 {
		return fmt.Errorf("dispatcher.workers must be > 0")
	}
	return nil
}
