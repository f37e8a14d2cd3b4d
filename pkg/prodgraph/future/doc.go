// Package future provides the asynchronous result primitive used by the
// production graph: a single-assignment, cancellable, observable future.
//
// A Future is completed at most once, by Set, SetError, SetFuture, or
// cancellation. Completion listeners run on whichever goroutine completes
// the future (direct-executor semantics); they must be fast and must not
// block.
//
// Producers hand out futures instead of blocking: requesting a value
// returns immediately, and callers observe completion through Done,
// Listen, or Wait.
package future
