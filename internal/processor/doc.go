// Package processor defines the contract every rdfpipe processor
// implements and the two composers that combine them.
//
// A Processor is immutable configuration. Open binds it to a downstream
// Handler for one run and returns the Handler that receives the run's
// input. The returned Handler:
//   - Consume: accepts one quad, may emit any number of quads downstream
//   - Close: flushes buffered state, emits final quads and releases
//     resources; it never closes the downstream Handler
//   - Abort: releases resources without emitting anything; used when the
//     run fails
//
// The caller that opened a chain owns it: it closes (or aborts) the chain
// and then its own sink. Close and Abort must release resources even when
// they fail, and Abort may follow a failed Close.
//
// Sequence chains stages directly. Parallel replicates its input to one
// goroutine per branch and merges branch outputs under a combinator; every
// combinator except the multiset sum reduces branch outputs to occurrence
// tables (spill.Bag) and merges them in quad order.
package processor
