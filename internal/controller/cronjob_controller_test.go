package controller_test

import (
	"testing"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/testutil"
)

func TestCronJobFiresOnSchedule(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.CronJob("report", "every-5-ticks", 1),
	)

	st, _, _ = advance(t, o, st, 14)

	var names []string
	for i := range st.Jobs {
		names = append(names, st.Jobs[i].Name)
	}
	want := map[string]bool{"report-5": true, "report-10": true}
	if len(names) != 2 {
		t.Fatalf("jobs = %v, want exactly report-5 and report-10", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected job %s", n)
		}
	}

	cj := &st.CronJobs[0]
	if cj.Status.LastScheduleTick == nil || *cj.Status.LastScheduleTick != 10 {
		t.Errorf("lastScheduleTick = %v, want 10", cj.Status.LastScheduleTick)
	}

	// Both one-completion jobs have finished by now.
	for i := range st.Jobs {
		if st.Jobs[i].Status.Condition != simv1alpha1.JobComplete {
			t.Errorf("job %s did not complete", st.Jobs[i].Name)
		}
	}
	if cj.Status.Active != 0 {
		t.Errorf("active = %d, want 0", cj.Status.Active)
	}
}

func TestCronJobTracksActiveJobs(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.CronJob("slow", "every-3-ticks", 30),
	)

	// Fires at ticks 3 and 6; each job needs 30 ticks, so by tick 7 both
	// are still running.
	st, _, _ = advance(t, o, st, 7)

	if got := st.CronJobs[0].Status.Active; got != 2 {
		t.Errorf("active = %d, want 2 overlapping jobs", got)
	}
}

func TestCronJobRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.CronJob("broken", "whenever", 1),
	)

	st, _, events := advance(t, o, st, 10)

	if len(st.Jobs) != 0 {
		t.Errorf("%d jobs fired from an unparseable schedule", len(st.Jobs))
	}
	if st.CronJobs[0].Status.ParseError == "" {
		t.Error("parse error not surfaced on status")
	}
	// Warned once, not every tick.
	if got := len(eventsWithReason(events, "InvalidSchedule")); got != 1 {
		t.Errorf("%d InvalidSchedule events, want 1", got)
	}
}
