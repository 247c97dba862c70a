package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every collector this package registers. The cmd layer
// exposes it over HTTP; tests gather from it directly.
var Registry = prometheus.NewRegistry()

// Snapshot-level metric collectors.
//
// Gauges describe the most recently observed cluster snapshot and are
// rewritten wholesale on every tick; the event counter is cumulative across
// the simulation run.
var (
	currentTick = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clustersim_tick",
			Help: "Logical tick of the most recently observed snapshot.",
		},
	)

	podsByPhase = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clustersim_pods",
			Help: "Number of pods in the snapshot by phase.",
		},
		[]string{"phase"},
	)

	resourcesByKind = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clustersim_resources",
			Help: "Number of resources in the snapshot by kind.",
		},
		[]string{"kind"},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustersim_events_total",
			Help: "Total number of events emitted by the reconciliation pipeline.",
		},
		[]string{"type"},
	)
)

func init() {
	Registry.MustRegister(
		currentTick,
		podsByPhase,
		resourcesByKind,
		eventsTotal,
	)
}

// Collectors returns all registered metric collectors. This is useful for
// testing that metrics are properly registered.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		currentTick,
		podsByPhase,
		resourcesByKind,
		eventsTotal,
	}
}
