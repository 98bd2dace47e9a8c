package model

// PackingProfile describes the physical packing of a SKU's primary unit.
// Both dimensions must be strictly positive for the profile to be usable by
// the placement algorithm.
type PackingProfile struct {
	SKUID  string  `json:"sku_id" yaml:"sku_id"`
	Volume float64 `json:"volume" yaml:"volume"`
	Height float64 `json:"height" yaml:"height"`
}

// IsValid reports whether the profile carries usable dimensions.
func (p *PackingProfile) IsValid() bool {
	return p != nil && p.Volume > 0 && p.Height > 0
}
