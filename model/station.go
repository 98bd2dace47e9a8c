package model

// Station is an induction station where robots pick up inbound stock.
// QueueLength counts tasks currently waiting at the station.
type Station struct {
	StationID   string    `json:"station_id" yaml:"station_id"`
	MapID       string    `json:"map_id" yaml:"map_id"`
	QueueLength int       `json:"queue_length" yaml:"queue_length"`
	Location    *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Clone returns a copy of the station.
func (s *Station) Clone() *Station {
	if s == nil {
		return nil
	}
	ret := *s
	if s.Location != nil {
		loc := *s.Location
		ret.Location = &loc
	}
	return &ret
}
