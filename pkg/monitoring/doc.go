// Package monitoring provides Prometheus metrics and tracing helpers for the
// cluster simulator. It exposes gauges describing the current snapshot and
// counters for the event stream produced by each tick.
//
// All metrics follow the naming convention clustersim_<metric>_<unit> and are
// registered against the package Registry on import.
//
// Usage in the orchestrator:
//
//	monitoring.ObserveState(state)
//	monitoring.CountEvents(events)
//
// The cmd layer serves the Registry over HTTP when metrics are enabled.
package monitoring
