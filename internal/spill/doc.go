// Package spill provides Bag, a sorted multiset of string keys that starts
// in memory and moves to a temporary SQLite file once it grows past a
// configured number of distinct keys.
//
// Processors whose semantics need global knowledge of the stream (set
// combinators, deduplication, smushing, statistics) buffer into a Bag and
// read it back in key order. Keys produced by ir.Quad.Key sort in quad
// order, so a Bag cursor yields quads sorted by subject, predicate, object
// and context.
//
// # Database Configuration
//
// Spill files are scratch data that never outlive the run:
//   - journal_mode=OFF and synchronous=OFF
//   - one connection per Bag (a Bag has a single owner)
//   - WITHOUT ROWID table keyed by BLOB, so ORDER BY key is byte order
//
// The file is removed when the Bag is closed.
package spill
