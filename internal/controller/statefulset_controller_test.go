package controller_test

import (
	"fmt"
	"testing"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/testutil"
)

func TestStatefulSetCreatesOrdinalsInOrder(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.StatefulSet("db", 3, "postgres:16"),
	)

	for i := 0; i < 12; i++ {
		st, _, _ = o.Tick(st)

		// Ordinal k may only exist once every lower ordinal is present,
		// and only one below the highest may be non-Running.
		for ord := 1; ord < 3; ord++ {
			name := fmt.Sprintf("db-%d", ord)
			if st.PodByName(name) == nil {
				continue
			}
			prev := st.PodByName(fmt.Sprintf("db-%d", ord-1))
			if prev == nil {
				t.Fatalf("tick %d: %s exists without its predecessor", st.Tick, name)
			}
			if prev.Status.Phase != simv1alpha1.PodRunning {
				t.Fatalf("tick %d: %s created before db-%d was running", st.Tick, name, ord-1)
			}
		}
	}

	sts := &st.StatefulSets[0]
	if sts.Status.ReadyReplicas != 3 {
		t.Errorf("readyReplicas = %d, want 3", sts.Status.ReadyReplicas)
	}
	for ord := 0; ord < 3; ord++ {
		if st.PodByName(fmt.Sprintf("db-%d", ord)) == nil {
			t.Errorf("ordinal %d missing after convergence", ord)
		}
	}
}

func TestStatefulSetScalesDownFromTheTop(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.StatefulSet("db", 3, "postgres:16"),
	)
	st, _, _ = advance(t, o, st, 12)

	st.StatefulSets[0].Spec.Replicas = 1

	// Highest ordinal first, one per tick.
	st, _, events := advance(t, o, st, 1)
	if st.PodByName("db-2") != nil && st.PodByName("db-2").IsLive() {
		t.Error("db-2 still live after first scale-down tick")
	}
	if p := st.PodByName("db-1"); p == nil || !p.IsLive() {
		t.Error("db-1 removed before db-2")
	}

	st, _, more := advance(t, o, st, 3)
	events = append(events, more...)

	for _, name := range []string{"db-1", "db-2"} {
		if p := st.PodByName(name); p != nil && p.IsLive() {
			t.Errorf("%s still live after scale-down", name)
		}
	}
	if p := st.PodByName("db-0"); p == nil || p.Status.Phase != simv1alpha1.PodRunning {
		t.Error("db-0 should survive the scale-down")
	}
	if got := len(eventsWithReason(events, "SuccessfulDelete")); got != 2 {
		t.Errorf("%d SuccessfulDelete events, want 2", got)
	}
}

func TestStatefulSetReplacesFailedOrdinal(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.StatefulSet("db", 2, "postgres:16"),
	)
	st, _, _ = advance(t, o, st, 8)

	// Kill the lower ordinal by hand. The set recreates it under the
	// same stable name once the garbage collector clears the corpse.
	p := st.PodByName("db-0")
	if p == nil || p.Status.Phase != simv1alpha1.PodRunning {
		t.Fatal("fixture did not converge")
	}
	now := p.CreationTimestamp
	p.Status.Phase = simv1alpha1.PodFailed
	p.DeletionTimestamp = &now

	st, _, _ = advance(t, o, st, 4)

	replacement := st.PodByName("db-0")
	if replacement == nil || !replacement.IsLive() {
		t.Fatal("db-0 was not recreated")
	}
	if replacement.Status.Phase != simv1alpha1.PodRunning {
		t.Errorf("db-0 phase = %s, want Running", replacement.Status.Phase)
	}
}
