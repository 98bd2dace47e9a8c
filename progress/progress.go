// Package progress provides a lightweight tracker that keeps aggregated
// allocation counters (line items covered, units placed, tasks emitted) for
// a single engine run. The tracker instance lives in the run context — every
// component that receives the context can atomically update the counters via
// the Delta helper without requiring a global registry.
package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the engine. The
// fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	LineItems    int
	PlacedUnits  int
	EmittedTasks int
}

// State is a point-in-time copy of the tracker counters.
type State struct {
	// Identification, informative only, filled when the run starts.
	OrderCode string
	MapID     string
	StartedAt time.Time

	LineItems    int
	PlacedUnits  int
	EmittedTasks int
}

// Progress keeps aggregated counters for one allocation run. It is safe for
// concurrent use; the zero value is ready.
type Progress struct {
	mu       sync.Mutex
	state    State
	onChange func(State)
}

// Begin stamps the run identification on the tracker.
func (p *Progress) Begin(orderCode, mapID string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.state.OrderCode = orderCode
	p.state.MapID = mapID
	p.state.StartedAt = time.Now()
	p.mu.Unlock()
}

// Update applies the supplied delta to the tracker. It is safe to call from
// multiple goroutines. If an onChange callback has been registered it is
// invoked with a copy of the updated state outside the critical section so
// that the callback can perform slow operations (JSON encoding, I/O) without
// blocking the engine.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()
	p.state.LineItems += d.LineItems
	p.state.PlacedUnits += d.PlacedUnits
	p.state.EmittedTasks += d.EmittedTasks
	snapshot := p.state
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() State {
	if p == nil {
		return State{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// OnChange registers a callback invoked after every successful Update.
// Passing nil disables the callback. Only one callback can be active;
// subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(State)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithProgress attaches the tracker to the context.
func WithProgress(ctx context.Context, p *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the tracker from the context; returns nil when
// absent, which every Progress method tolerates.
func FromContext(ctx context.Context) *Progress {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Progress); ok {
		return v
	}
	return nil
}
