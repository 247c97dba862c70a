package controller_test

import (
	"testing"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/testutil"
)

func TestJobRunsToCompletion(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Job("migrate", 2, 3, 2),
	)

	st, _, events := advance(t, o, st, 14)

	job := &st.Jobs[0]
	if job.Status.Condition != simv1alpha1.JobComplete {
		t.Fatalf("condition = %q, want JobComplete", job.Status.Condition)
	}
	if job.Status.Succeeded != 3 {
		t.Errorf("succeeded = %d, want 3", job.Status.Succeeded)
	}
	if job.Status.CompletionTick == nil {
		t.Error("completionTick not recorded")
	}
	if got := len(eventsWithReason(events, "Completed")); got != 1 {
		t.Errorf("%d Completed events, want 1", got)
	}

	if got := len(eventsWithReason(events, "SuccessfulCreate")); got != 3 {
		t.Errorf("%d pods created, want exactly 3", got)
	}
}

func TestJobParallelismBound(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Job("batch", 2, 6, 3),
	)

	for i := 0; i < 20; i++ {
		st, _, _ = o.Tick(st)
		active := 0
		for _, p := range st.LivePodsOwnedBy(st.Jobs[0].UID) {
			if p.Status.Phase != simv1alpha1.PodSucceeded {
				active++
			}
		}
		if active > 2 {
			t.Fatalf("tick %d: %d active pods exceeds parallelism", st.Tick, active)
		}
	}

	if st.Jobs[0].Status.Condition != simv1alpha1.JobComplete {
		t.Fatalf("job did not complete: %+v", st.Jobs[0].Status)
	}
}

func TestJobBackoffLimitIsTerminal(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Job("flaky", 1, 3, 2,
			testutil.FailingJobPods(simv1alpha1.FailureOOMKilled),
			testutil.BackoffLimit(2)),
	)

	st, _, events := advance(t, o, st, 20)

	job := &st.Jobs[0]
	if job.Status.Condition != simv1alpha1.JobFailed {
		t.Fatalf("condition = %q, want JobFailed", job.Status.Condition)
	}
	if job.Status.Failed != 3 {
		t.Errorf("failed = %d, want backoffLimit+1", job.Status.Failed)
	}
	if got := len(eventsWithReason(events, "BackoffLimitExceeded")); got != 1 {
		t.Errorf("%d BackoffLimitExceeded events, want 1", got)
	}
	if live := st.LivePodsOwnedBy(job.UID); len(live) != 0 {
		t.Errorf("%d pods still live after terminal failure", len(live))
	}

	// Terminal means terminal: more ticks create nothing.
	st, _, after := advance(t, o, st, 5)
	if got := len(eventsWithReason(after, "SuccessfulCreate")); got != 0 {
		t.Errorf("failed job created %d more pods", got)
	}
	if len(st.LivePodsOwnedBy(job.UID)) != 0 {
		t.Error("failed job regrew pods")
	}
}
