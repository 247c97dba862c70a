package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

func TestCollectorsAreRegistered(t *testing.T) {
	for _, c := range Collectors() {
		if err := Registry.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				t.Errorf("collector not registered at init: %v", err)
			}
		}
	}
}

func TestObserveState(t *testing.T) {
	state := &simv1alpha1.ClusterState{
		Tick: 12,
		Pods: []simv1alpha1.Pod{
			{Status: simv1alpha1.PodStatus{Phase: simv1alpha1.PodRunning}},
			{Status: simv1alpha1.PodStatus{Phase: simv1alpha1.PodRunning}},
			{Status: simv1alpha1.PodStatus{Phase: simv1alpha1.PodPending}},
		},
		Nodes: []simv1alpha1.Node{{}, {}},
	}
	ObserveState(state)
	CountEvents([]simv1alpha1.SimEvent{
		{Type: simv1alpha1.EventNormal},
		{Type: simv1alpha1.EventWarning},
		{Type: simv1alpha1.EventNormal},
	})

	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("gathering metrics: %v", err)
	}

	got := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			switch {
			case m.GetGauge() != nil:
				got[key] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				got[key] = m.GetCounter().GetValue()
			}
		}
	}

	want := map[string]float64{
		"clustersim_tick":                12,
		"clustersim_pods/Running":        2,
		"clustersim_pods/Pending":        1,
		"clustersim_resources/Pod":       3,
		"clustersim_resources/Node":      2,
		"clustersim_events_total/Normal": 2,
	}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("%s = %v, want %v", key, got[key], value)
		}
	}
}
