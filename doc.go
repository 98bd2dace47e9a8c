// Package putaway coordinates put-away of inbound stock in an automated
// warehouse: it decides, for every unit of a pending order, which shelf
// level it goes to, which robot carries it and which induction station
// processes it, while respecting level height/volume limits, per-robot task
// and battery limits and station queueing.
//
// The engine and its pluggable storage layers are designed to be embedded
// in host applications. End-users typically interact via the high-level
// Service façade exposed by this root package:
//
//	srv := putaway.New()
//	rt := srv.Runtime()
//	_ = rt.LoadWarehouse(ctx, "warehouse.yaml")
//	tasks, _ := rt.GenerateTasks(ctx, "proximity")
//
// For more details see the individual sub-packages, in particular
// service/allocator which documents the placement algorithm.
package putaway
