// Package monitoring provides the observability surface of the
// production graph: per-producer lifecycle monitors, a parallel timing
// recorder hierarchy, and the fault-isolating dispatch that fans a
// node's lifecycle events out to zero, one, or many installed
// implementations.
//
// Monitors never participate in the data flow. A panic raised by any
// installed monitor is recovered, logged, and suppressed; graph
// computation is never affected by observer misbehavior.
//
// Backends included: OpenTelemetry metrics (metrics.go), OpenTelemetry
// spans (tracing.go), and a persistent timing-sample store (store.go).
package monitoring
