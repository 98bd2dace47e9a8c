package allocator

import "errors"

// Engine failure categories. Every error returned by GenerateTasks wraps
// exactly one of these sentinels so callers can classify failures via
// errors.Is while the message carries run context (SKU id, remaining
// amount, mode).

var (
	// ErrNotFound indicates a missing precondition: no pending order, or no
	// robots/shelves/stations registered for the order's map.
	ErrNotFound = errors.New("allocator: not found")

	// ErrInvalidInput indicates a rejected request or order: unknown mode,
	// missing order fields, or missing/non-positive SKU packing data.
	ErrInvalidInput = errors.New("allocator: invalid input")

	// ErrCapacityExceeded indicates that no shelf level can accept the
	// remaining units of a SKU, or that every eligible robot has reached
	// its per-run task cap.
	ErrCapacityExceeded = errors.New("allocator: capacity exceeded")

	// ErrCollaboratorUnavailable indicates a failing storage collaborator;
	// such failures are never retried, the run terminates.
	ErrCollaboratorUnavailable = errors.New("allocator: collaborator unavailable")

	// ErrInternal indicates an invariant violation inside the placement
	// loop, e.g. a shelf passing the eligibility check yet accepting zero
	// units.
	ErrInternal = errors.New("allocator: internal error")
)
