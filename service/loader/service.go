// Package loader seeds the warehouse stores from a declarative YAML
// document (robots, shelves, stations, SKU packing profiles) read through
// viant/afs, so fixtures work the same from disk, embed or object storage.
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"

	"github.com/agvsim/putaway/model"
)

// Sinks are the write-only slices of the entity stores the loader fills.
type (
	RobotSink interface {
		Save(ctx context.Context, robot *model.Robot) error
	}
	ShelfSink interface {
		Save(ctx context.Context, shelf *model.Shelf) error
	}
	StationSink interface {
		Save(ctx context.Context, station *model.Station) error
	}
	ProfileSink interface {
		Save(ctx context.Context, profile *model.PackingProfile) error
	}
)

// Stores groups the seed targets.
type Stores struct {
	Robots   RobotSink
	Shelves  ShelfSink
	Stations StationSink
	Profiles ProfileSink
}

// robotEntry extends the robot record with the loosely typed metrics map
// heartbeats carry; values arrive as strings or numbers depending on the
// reporting firmware.
type robotEntry struct {
	model.Robot `yaml:",inline"`
	Metrics     map[string]interface{} `yaml:"metrics,omitempty"`
}

// Warehouse is the fixture document layout.
type Warehouse struct {
	MapID    string                  `yaml:"map_id"`
	Robots   []*robotEntry           `yaml:"robots,omitempty"`
	Shelves  []*model.Shelf          `yaml:"shelves,omitempty"`
	Stations []*model.Station        `yaml:"stations,omitempty"`
	SKUs     []*model.PackingProfile `yaml:"skus,omitempty"`
}

// Service loads warehouse fixtures.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a loader. Options are passed through to afs downloads (e.g.
// an embed.FS).
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// Load reads and decodes a warehouse document. Relative locations resolve
// against the configured base URL.
func (s *Service) Load(ctx context.Context, location string) (*Warehouse, error) {
	URL := location
	if s.baseURL != "" && !strings.Contains(location, "://") {
		URL = url.Join(s.baseURL, location)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouse from %v: %w", URL, err)
	}
	warehouse := &Warehouse{}
	if err := yaml.Unmarshal(data, warehouse); err != nil {
		return nil, fmt.Errorf("failed to decode warehouse %v: %w", URL, err)
	}
	return warehouse, nil
}

// Seed loads a warehouse document and saves every record into the supplied
// stores, defaulting per-record map ids to the document's map id.
func (s *Service) Seed(ctx context.Context, location string, stores Stores) (*Warehouse, error) {
	warehouse, err := s.Load(ctx, location)
	if err != nil {
		return nil, err
	}

	for _, entry := range warehouse.Robots {
		robot := entry.Robot
		if robot.MapID == "" {
			robot.MapID = warehouse.MapID
		}
		if value, ok := entry.Metrics["filled_space"]; ok {
			robot.FilledSpace = toolbox.AsFloat(value)
		}
		if stores.Robots != nil {
			if err := stores.Robots.Save(ctx, &robot); err != nil {
				return nil, fmt.Errorf("failed to seed robot %v: %w", robot.RobotID, err)
			}
		}
	}

	for _, shelf := range warehouse.Shelves {
		if shelf.MapID == "" {
			shelf.MapID = warehouse.MapID
		}
		if shelf.ShelfCapacity == 0 {
			shelf.ShelfCapacity = shelf.AvailableSpace
		}
		if stores.Shelves != nil {
			if err := stores.Shelves.Save(ctx, shelf); err != nil {
				return nil, fmt.Errorf("failed to seed shelf %v: %w", shelf.ShelfID, err)
			}
		}
	}

	for _, station := range warehouse.Stations {
		if station.MapID == "" {
			station.MapID = warehouse.MapID
		}
		if stores.Stations != nil {
			if err := stores.Stations.Save(ctx, station); err != nil {
				return nil, fmt.Errorf("failed to seed station %v: %w", station.StationID, err)
			}
		}
	}

	for _, profile := range warehouse.SKUs {
		if stores.Profiles != nil {
			if err := stores.Profiles.Save(ctx, profile); err != nil {
				return nil, fmt.Errorf("failed to seed SKU %v: %w", profile.SKUID, err)
			}
		}
	}

	return warehouse, nil
}
