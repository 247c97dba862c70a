package controller_test

import (
	"testing"

	corev1 "k8s.io/api/core/v1"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/testutil"
)

func TestDaemonSetCoversEveryReadyNode(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Node("node-2"),
		testutil.Node("node-3", testutil.NotReady()),
		testutil.DaemonSet("agent", "fluentd:1.16"),
	)

	st, _, _ = advance(t, o, st, 4)

	for _, name := range []string{"agent-node-1", "agent-node-2"} {
		p := st.PodByName(name)
		if p == nil || p.Status.Phase != simv1alpha1.PodRunning {
			t.Errorf("pod %s not running", name)
		}
	}
	if st.PodByName("agent-node-3") != nil {
		t.Error("daemon pod placed on a not-ready node")
	}

	ds := &st.DaemonSets[0]
	if ds.Status.DesiredScheduled != 2 || ds.Status.ReadyReplicas != 2 {
		t.Errorf("status = %+v, want 2 desired and 2 ready", ds.Status)
	}
}

func TestDaemonSetFollowsNodeMembership(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.DaemonSet("agent", "fluentd:1.16"),
	)
	st, _, _ = advance(t, o, st, 4)

	// A joining node gets its daemon pod.
	st.Nodes = append(st.Nodes, testutil.Node("node-2"))
	st, _, _ = advance(t, o, st, 3)
	if p := st.PodByName("agent-node-2"); p == nil || p.Status.Phase != simv1alpha1.PodRunning {
		t.Error("daemon pod not created on the new node")
	}

	// A node turning not-ready loses it.
	st.NodeByName("node-2").Status.Ready = false
	st, _, events := advance(t, o, st, 2)
	if p := st.PodByName("agent-node-2"); p != nil && p.IsLive() {
		t.Error("daemon pod survived on a not-ready node")
	}
	if len(eventsWithReason(events, "SuccessfulDelete")) == 0 {
		t.Error("no SuccessfulDelete event for the evicted daemon pod")
	}
}

func TestDaemonSetRespectsTaints(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Node("node-2", testutil.Tainted("dedicated", "infra", corev1.TaintEffectNoSchedule)),
		testutil.Node("node-3", testutil.Tainted("flaky", "", corev1.TaintEffectPreferNoSchedule)),
		testutil.DaemonSet("agent", "fluentd:1.16"),
		testutil.DaemonSet("infra-agent", "node-exporter:1.8", corev1.Toleration{
			Key:      "dedicated",
			Operator: corev1.TolerationOpEqual,
			Value:    "infra",
			Effect:   corev1.TaintEffectNoSchedule,
		}),
	)

	st, _, _ = advance(t, o, st, 4)

	// The plain set skips the NoSchedule node but not the soft taint.
	if st.PodByName("agent-node-2") != nil {
		t.Error("untolerated daemon pod placed on the tainted node")
	}
	if st.PodByName("agent-node-3") == nil {
		t.Error("PreferNoSchedule should not exclude a node from a daemonset")
	}

	// The tolerating set covers all three.
	for _, name := range []string{"infra-agent-node-1", "infra-agent-node-2", "infra-agent-node-3"} {
		if st.PodByName(name) == nil {
			t.Errorf("pod %s missing", name)
		}
	}
}
