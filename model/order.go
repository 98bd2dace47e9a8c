package model

import "time"

// SKUItem is a single line of a put-away order: a SKU and the unit count to
// shelve. Batch and date metadata is carried through to generated tasks
// unchanged; the engine never interprets it.
type SKUItem struct {
	SKUID          string `json:"sku_id" yaml:"sku_id"`
	SKUCode        string `json:"sku_code,omitempty" yaml:"sku_code,omitempty"`
	Amount         int    `json:"amount" yaml:"amount"`
	SKULevel       int    `json:"sku_level,omitempty" yaml:"sku_level,omitempty"`
	InBatchCode    string `json:"in_batch_code,omitempty" yaml:"in_batch_code,omitempty"`
	ProductionDate int64  `json:"production_date,omitempty" yaml:"production_date,omitempty"`
	ExpirationDate int64  `json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`
}

// Order is an inbound put-away order: a batch of SKU line items destined for
// one warehouse map. Orders are immutable once fetched by the engine.
type Order struct {
	PutawayOrderCode string     `json:"putaway_order_code" yaml:"putaway_order_code"`
	MapID            string     `json:"map_id" yaml:"map_id"`
	OrderType        int        `json:"order_type,omitempty" yaml:"order_type,omitempty"`
	InboundWaveCode  string     `json:"inbound_wave_code,omitempty" yaml:"inbound_wave_code,omitempty"`
	OwnerCode        string     `json:"owner_code,omitempty" yaml:"owner_code,omitempty"`
	Priority         int        `json:"priority,omitempty" yaml:"priority,omitempty"`
	CreatedAt        time.Time  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	SKUItems         []*SKUItem `json:"sku_items" yaml:"sku_items"`
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	ret := *o
	ret.SKUItems = make([]*SKUItem, len(o.SKUItems))
	for i, item := range o.SKUItems {
		cp := *item
		ret.SKUItems[i] = &cp
	}
	return &ret
}
