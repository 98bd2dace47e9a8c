// Package model defines the warehouse domain records exchanged between the
// allocation engine and its storage ports: put-away orders, SKU packing
// profiles, robots, shelves, induction stations and the generated transport
// tasks.
//
// Records that the engine mutates during a run (shelves, stations, robots)
// provide deep Clone methods so stores can hand out copies and keep the
// engine's run-local snapshot isolated from concurrent readers.
package model
