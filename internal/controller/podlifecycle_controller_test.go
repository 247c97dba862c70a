package controller_test

import (
	"fmt"
	"testing"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/testutil"
)

func TestPodPendingForOneTickBeforeStart(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Deployment("web", 1, "nginx:1.25"),
	)

	// Tick 1 creates and binds the pod; it must stay Pending that tick.
	st, _, _ = o.Tick(st)
	if got := len(runningPods(st)); got != 0 {
		t.Fatalf("pod running on its creation tick")
	}

	st, _, events := advance(t, o, st, 1)
	pods := runningPods(st)
	if len(pods) != 1 {
		t.Fatalf("%d running pods at tick 2, want 1", len(pods))
	}
	if !pods[0].IsReady() {
		t.Error("started pod not ready")
	}
	if len(eventsWithReason(events, "Started")) != 1 {
		t.Error("missing Started event")
	}
}

func TestPodCrashLoopBackoffGrowsThenCaps(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Pod("crash", "bad:latest", "node-1", testutil.Failing(simv1alpha1.FailureCrashLoop)),
	)

	_, _, events := advance(t, o, st, 21)

	var windows []int64
	for _, ev := range eventsWithReason(events, "BackOff") {
		var restart, backoff int64
		if _, err := fmt.Sscanf(ev.Message, "back-off restarting failed container (restart %d, %d ticks)", &restart, &backoff); err != nil {
			t.Fatalf("unexpected BackOff message %q: %v", ev.Message, err)
		}
		windows = append(windows, backoff)
	}

	want := []int64{1, 2, 3, 4, 4, 4}
	if len(windows) != len(want) {
		t.Fatalf("backoff windows = %v, want %v", windows, want)
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Fatalf("backoff windows = %v, want %v", windows, want)
		}
	}
}

func TestPodImagePullHoldsUntilImageFixed(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Pod("app", "nginx:tpyo", "node-1", testutil.Failing(simv1alpha1.FailureImagePull)),
	)

	st, _, events := advance(t, o, st, 5)

	p := st.PodByName("app")
	if p.Status.Phase != simv1alpha1.PodPending {
		t.Fatalf("phase = %s, want Pending hold", p.Status.Phase)
	}
	if p.Status.Reason != simv1alpha1.ReasonImagePull {
		t.Errorf("reason = %q, want ImagePullError", p.Status.Reason)
	}
	if len(eventsWithReason(events, "ErrImagePull")) != 5 {
		t.Errorf("%d ErrImagePull warnings over 5 ticks, want one per tick", len(eventsWithReason(events, "ErrImagePull")))
	}

	// Fixing the image releases the hold.
	p.Spec.Image = "nginx:1.25"
	p.Spec.FailureMode = simv1alpha1.FailureNone
	st, _, _ = advance(t, o, st, 2)

	p = st.PodByName("app")
	if p.Status.Phase != simv1alpha1.PodRunning {
		t.Errorf("phase = %s after image fix, want Running", p.Status.Phase)
	}
	if p.Status.Reason != "" {
		t.Errorf("stale reason %q on a running pod", p.Status.Reason)
	}
}

func TestPodHeldOnMissingDependencies(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opt        func(*simv1alpha1.Pod)
		wantReason string
		wantMsg    string
		unblock    func(st *simv1alpha1.ClusterState)
	}{
		"configmap": {
			opt:        testutil.Needing("app-config", "", ""),
			wantReason: simv1alpha1.ReasonConfigError,
			wantMsg:    `configmap "app-config" not found`,
			unblock: func(st *simv1alpha1.ClusterState) {
				st.ConfigMaps = append(st.ConfigMaps, testutil.ConfigMap("app-config"))
			},
		},
		"secret": {
			opt:        testutil.Needing("", "app-creds", ""),
			wantReason: simv1alpha1.ReasonConfigError,
			wantMsg:    `secret "app-creds" not found`,
			unblock: func(st *simv1alpha1.ClusterState) {
				st.Secrets = append(st.Secrets, testutil.Secret("app-creds"))
			},
		},
		"claim": {
			opt:        testutil.Needing("", "", "app-data"),
			wantReason: simv1alpha1.ReasonClaimPending,
			wantMsg:    `persistentvolumeclaim "app-data" not bound`,
			unblock: func(st *simv1alpha1.ClusterState) {
				st.StorageClasses = append(st.StorageClasses, testutil.StorageClass("standard", simv1alpha1.ReclaimDelete))
				st.Claims = append(st.Claims, testutil.Claim("app-data", "standard"))
			},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			o := newOrch()
			st := testutil.State(
				testutil.Node("node-1"),
				testutil.Pod("app", "nginx:1.25", "node-1", tc.opt),
			)

			st, _, _ = advance(t, o, st, 3)

			p := st.PodByName("app")
			if p.Status.Phase != simv1alpha1.PodPending {
				t.Fatalf("phase = %s, want Pending hold", p.Status.Phase)
			}
			if p.Status.Reason != tc.wantReason || p.Status.Message != tc.wantMsg {
				t.Fatalf("status = %q / %q, want %q / %q", p.Status.Reason, p.Status.Message, tc.wantReason, tc.wantMsg)
			}

			tc.unblock(st)
			st, _, _ = advance(t, o, st, 2)

			p = st.PodByName("app")
			if p.Status.Phase != simv1alpha1.PodRunning {
				t.Errorf("phase = %s after dependency appeared, want Running", p.Status.Phase)
			}
			if p.Status.Reason != "" || p.Status.Message != "" {
				t.Errorf("hold not cleared: %q / %q", p.Status.Reason, p.Status.Message)
			}
		})
	}
}

func TestPodInitContainersRunSequentially(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Pod("app", "nginx:1.25", "node-1", testutil.WithInit(
			simv1alpha1.InitContainer{Name: "fetch", RunTicks: 2},
			simv1alpha1.InitContainer{Name: "unpack", RunTicks: 2},
		)),
	)

	var reasons []string
	last := ""
	for i := 0; i < 8; i++ {
		st, _, _ = o.Tick(st)
		p := st.PodByName("app")
		if p.Status.Reason != last {
			reasons = append(reasons, p.Status.Reason)
			last = p.Status.Reason
		}
	}

	p := st.PodByName("app")
	if p.Status.Phase != simv1alpha1.PodRunning {
		t.Fatalf("phase = %s, want Running after init chain", p.Status.Phase)
	}
	want := []string{"Init:0/2", "Init:1/2", ""}
	if len(reasons) != len(want) {
		t.Fatalf("reason transitions = %v, want %v", reasons, want)
	}
	for i := range want {
		if reasons[i] != want[i] {
			t.Fatalf("reason transitions = %v, want %v", reasons, want)
		}
	}
}

func TestPodFailingInitContainerHalts(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Pod("app", "nginx:1.25", "node-1", testutil.WithInit(
			simv1alpha1.InitContainer{Name: "fetch", RunTicks: 1},
			simv1alpha1.InitContainer{Name: "migrate", Fail: true},
		)),
	)

	st, _, _ = advance(t, o, st, 6)

	p := st.PodByName("app")
	if p.Status.Phase != simv1alpha1.PodPending {
		t.Fatalf("phase = %s, want Pending at the failed init step", p.Status.Phase)
	}
	if p.Status.Reason != simv1alpha1.ReasonInitError {
		t.Errorf("reason = %q, want Init:Error", p.Status.Reason)
	}
	if p.Status.Message != "init container migrate failed" {
		t.Errorf("message = %q", p.Status.Message)
	}
}

func TestPodCompletesAfterCompletionTicks(t *testing.T) {
	t.Parallel()

	o := newOrch()
	pod := testutil.Pod("task", "batch:1.0", "node-1")
	ticks := int64(3)
	pod.Spec.CompletionTicks = &ticks
	st := testutil.State(testutil.Node("node-1"), pod)

	st, _, events := advance(t, o, st, 6)

	p := st.PodByName("task")
	if p.Status.Phase != simv1alpha1.PodSucceeded {
		t.Fatalf("phase = %s, want Succeeded", p.Status.Phase)
	}
	if p.Status.Reason != simv1alpha1.ReasonCompleted {
		t.Errorf("reason = %q, want Completed", p.Status.Reason)
	}
	if p.IsReady() {
		t.Error("succeeded pod still reports ready")
	}
	if len(eventsWithReason(events, "Completed")) != 1 {
		t.Error("missing Completed event")
	}
}

func TestPodLivenessProbeRestartsInPlace(t *testing.T) {
	t.Parallel()

	o := newOrch()
	pod := testutil.Pod("app", "nginx:1.25", "node-1")
	pod.Spec.LivenessProbe = &simv1alpha1.Probe{PeriodTicks: 1, FailureThreshold: 3}
	st := testutil.State(testutil.Node("node-1"), pod)

	// Healthy first: the probe counts nothing.
	st, _, _ = advance(t, o, st, 4)
	p := st.PodByName("app")
	if p.Status.Phase != simv1alpha1.PodRunning || p.Status.LivenessFailures != 0 {
		t.Fatalf("healthy pod status = %+v", p.Status)
	}

	// A runtime fault makes the probe fail; threshold checks later the
	// container is restarted in place.
	p.Spec.FailureMode = simv1alpha1.FailureImagePull

	st, _, events := advance(t, o, st, 3)
	if got := len(eventsWithReason(events, "Unhealthy")); got != 2 {
		t.Errorf("%d Unhealthy warnings before the restart, want 2", got)
	}
	if got := len(eventsWithReason(events, "Killing")); got != 1 {
		t.Fatalf("%d Killing events, want 1", got)
	}
	p = st.PodByName("app")
	if p.Status.RestartCount != 1 {
		t.Errorf("restartCount = %d, want 1", p.Status.RestartCount)
	}

	// Clearing the fault lets the pod come back.
	p.Spec.FailureMode = simv1alpha1.FailureNone
	st, _, _ = advance(t, o, st, 2)
	p = st.PodByName("app")
	if p.Status.Phase != simv1alpha1.PodRunning || !p.IsReady() {
		t.Errorf("pod did not recover: %+v", p.Status)
	}
}

func TestPodStartupProbeHoldsReadiness(t *testing.T) {
	t.Parallel()

	o := newOrch()
	pod := testutil.Pod("app", "nginx:1.25", "node-1")
	pod.Spec.StartupProbe = &simv1alpha1.Probe{PeriodTicks: 2, FailureThreshold: 2}
	st := testutil.State(testutil.Node("node-1"), pod)

	// Window is threshold*period = 4 ticks from creation.
	st, _, _ = advance(t, o, st, 3)
	p := st.PodByName("app")
	if p.Status.Phase != simv1alpha1.PodRunning {
		t.Fatalf("phase = %s, want Running", p.Status.Phase)
	}
	if p.IsReady() {
		t.Error("ready inside the startup window")
	}

	st, _, _ = advance(t, o, st, 2)
	if p := st.PodByName("app"); !p.IsReady() {
		t.Error("not ready after the startup window closed")
	}
}
