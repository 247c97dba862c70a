package controller_test

import (
	"testing"

	"github.com/tickwise/clustersim/pkg/testutil"
)

func TestNodeFailureSelfHealing(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Node("node-2"),
		testutil.Deployment("web", 4, "nginx:1.25"),
	)
	st, _, _ = advance(t, o, st, 6)

	if got := len(runningPods(st)); got != 4 {
		t.Fatalf("fixture did not converge: %d running pods", got)
	}

	st.NodeByName("node-2").Status.Ready = false

	st, _, events := advance(t, o, st, 6)

	// Every replica ends up on the surviving node.
	pods := runningPods(st)
	if len(pods) != 4 {
		t.Fatalf("%d running pods after recovery, want 4", len(pods))
	}
	for _, p := range pods {
		if p.Spec.NodeName != "node-1" {
			t.Errorf("pod %s on %s, want node-1", p.Name, p.Spec.NodeName)
		}
	}
	if len(eventsWithReason(events, "NodeNotReady")) != 2 {
		t.Errorf("%d NodeNotReady evictions, want 2", len(eventsWithReason(events, "NodeNotReady")))
	}

	d := st.DeploymentByName("web")
	if !d.Status.Available || d.Status.ReadyReplicas != 4 {
		t.Errorf("deployment status = %+v after recovery", d.Status)
	}
}

func TestNodeRecoveryRebalancesNothing(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Node("node-2"),
		testutil.Deployment("web", 2, "nginx:1.25"),
	)
	st, _, _ = advance(t, o, st, 6)

	st.NodeByName("node-2").Status.Ready = false
	st, _, _ = advance(t, o, st, 6)

	// The node coming back does not move settled pods.
	st.NodeByName("node-2").Status.Ready = true
	st, actions, _ := advance(t, o, st, 5)

	for _, a := range actions {
		if a.Action == "EvictPod" || a.Action == "DeletePod" {
			t.Errorf("unexpected %s after node recovery: %s", a.Action, a.Details)
		}
	}
	for _, p := range runningPods(st) {
		if p.Spec.NodeName != "node-1" {
			t.Errorf("pod %s moved to %s after recovery", p.Name, p.Spec.NodeName)
		}
	}
}
