package model

// Shelf level names. Placement visits levels top-down, so the priority order
// is third, second, ground.
const (
	LevelGround = "ground"
	LevelSecond = "second"
	LevelThird  = "third"
)

// LevelPriority returns the order in which shelf levels are considered for
// placement.
func LevelPriority() []string {
	return []string{LevelThird, LevelSecond, LevelGround}
}

// Placement records SKU units put onto a shelf level.
type Placement struct {
	Level  string `json:"level" yaml:"level"`
	SKUID  string `json:"sku_id" yaml:"sku_id"`
	Amount int    `json:"amount" yaml:"amount"`
}

// ShelfLevel is one horizontal tier of a shelf with its own height ceiling
// and remaining capacity.
type ShelfLevel struct {
	AvailableSpace float64     `json:"available_space" yaml:"available_space"`
	MaxHeight      float64     `json:"max_height" yaml:"max_height"`
	SKUDetails     []Placement `json:"sku_details,omitempty" yaml:"sku_details,omitempty"`
}

// Clone returns a deep copy of the level.
func (l *ShelfLevel) Clone() *ShelfLevel {
	if l == nil {
		return nil
	}
	ret := *l
	ret.SKUDetails = append([]Placement(nil), l.SKUDetails...)
	return &ret
}

// Shelf is a storage shelf with named levels. AvailableSpace aggregates the
// per-level remaining capacity.
type Shelf struct {
	ShelfID        string                 `json:"shelf_id" yaml:"shelf_id"`
	MapID          string                 `json:"map_id" yaml:"map_id"`
	ShelfCapacity  float64                `json:"shelf_capacity,omitempty" yaml:"shelf_capacity,omitempty"`
	AvailableSpace float64                `json:"available_space" yaml:"available_space"`
	Levels         map[string]*ShelfLevel `json:"shelf_levels" yaml:"shelf_levels"`
}

// Clone returns a deep copy of the shelf, levels included.
func (s *Shelf) Clone() *Shelf {
	if s == nil {
		return nil
	}
	ret := *s
	ret.Levels = make(map[string]*ShelfLevel, len(s.Levels))
	for name, level := range s.Levels {
		ret.Levels[name] = level.Clone()
	}
	return &ret
}

// CopyFrom replaces the shelf's mutable state with that of the supplied
// record.
func (s *Shelf) CopyFrom(src *Shelf) {
	if s == nil || src == nil {
		return
	}
	*s = *src.Clone()
}
