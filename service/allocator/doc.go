// Package allocator implements the put-away task-generation engine: given
// the latest pending order and live snapshots of robot, shelf and station
// state, it produces the transport tasks that fully cover every order line
// item, or fails as a whole.
//
// A run is strictly sequential and operates on run-local clones of the
// fetched snapshots; generated tasks are committed in a single batch at the
// end and the reduced shelf capacities are written back in the same step, so
// a failed run persists nothing.
//
// Runs are deliberately not idempotent: invoking the engine twice against
// the same order and unmodified collaborator state yields two independent
// task sets. Deduplication belongs to the order lifecycle upstream.
package allocator
