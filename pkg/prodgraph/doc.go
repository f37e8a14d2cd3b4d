// Package prodgraph implements the runtime execution model for a wired
// graph of asynchronous producers: memoized, cancellable computation
// nodes that can be combined into set and map aggregates and observed
// through fault-isolated monitors.
//
// A producer graph is constructed once, by wiring code, and then driven
// by demand: requesting a producer's value triggers its computation at
// most once, which in turn requests the values of its dependencies.
// Requesting a value never blocks; it returns a future immediately.
//
// Construction-time misuse (duplicate map keys, duplicate contributed
// producers, using a delegate before it is bound) indicates a bug in the
// wiring code and panics. Runtime failures travel as failed futures and
// never escape as panics.
package prodgraph
