// Package factor turns irregular order and trade event streams into factor
// series aligned on a canonical per-second grid.
//
// A factor is computed in three steps:
//
//  1. Bucketize reduces filtered events to one value per (instrument, date,
//     second) key.
//  2. Align reindexes those buckets onto the grid with a fill policy.
//  3. A temporal transform (trailing window, running total or periodic
//     bucket) is applied inside each (instrument, date) group.
//
// Windowed and running transforms exclude the current second, so a value at
// second t only uses events strictly before t. Nothing in this package
// performs I/O or keeps state between calls.
package factor
