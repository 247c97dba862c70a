package controller_test

import (
	"regexp"
	"slices"
	"testing"

	"github.com/tickwise/clustersim/internal/controller"
	"github.com/tickwise/clustersim/pkg/testutil"
)

var podCIDR = regexp.MustCompile(`^10\.244\.\d{1,3}\.\d{1,3}$`)

func TestEndpointsTrackReadyPods(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Deployment("web", 3, "nginx:1.25"),
		testutil.Service("web-svc", testutil.AppLabels("web")),
	)

	st, _, events := advance(t, o, st, 6)

	eps := st.Services[0].Status.Endpoints
	if len(eps) != 3 {
		t.Fatalf("%d endpoints, want 3", len(eps))
	}
	if !slices.IsSorted(eps) {
		t.Errorf("endpoints %v not sorted", eps)
	}
	for _, ep := range eps {
		if !podCIDR.MatchString(ep) {
			t.Errorf("endpoint %q outside the pod network", ep)
		}
	}
	if len(eventsWithReason(events, "EndpointsUpdated")) == 0 {
		t.Error("no EndpointsUpdated event")
	}

	// Converged endpoints stop emitting events.
	_, _, quiet := advance(t, o, st, 3)
	if got := len(eventsWithReason(quiet, "EndpointsUpdated")); got != 0 {
		t.Errorf("%d EndpointsUpdated events with nothing changing", got)
	}
}

func TestEndpointsExcludeNonReadyPods(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Deployment("web", 2, "nginx:1.25"),
		testutil.Service("web-svc", testutil.AppLabels("web")),
	)
	st, _, _ = advance(t, o, st, 5)

	if got := len(st.Services[0].Status.Endpoints); got != 2 {
		t.Fatalf("%d endpoints, want 2", got)
	}

	// Scaling down shrinks the endpoint list along with the pods.
	st.Deployments[0].Spec.Replicas = 1
	st, _, _ = advance(t, o, st, 3)

	if got := len(st.Services[0].Status.Endpoints); got != 1 {
		t.Errorf("%d endpoints after scale-down, want 1", got)
	}
}

func TestEndpointsIgnoreUnmatchedPods(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Deployment("web", 2, "nginx:1.25"),
		testutil.Deployment("api", 2, "httpd:2.4"),
		testutil.Service("web-svc", testutil.AppLabels("web")),
	)
	st, _, _ = advance(t, o, st, 5)

	eps := st.Services[0].Status.Endpoints
	if len(eps) != 2 {
		t.Fatalf("%d endpoints, want only the matching deployment's 2", len(eps))
	}
	for _, p := range runningPods(st) {
		if p.Labels["app"] != "web" {
			if slices.Contains(eps, controller.PodAddress(p)) {
				t.Errorf("unmatched pod %s leaked into the endpoints", p.Name)
			}
		}
	}
}

func TestPodAddressIsStable(t *testing.T) {
	t.Parallel()

	pod := testutil.Pod("web-abc", "nginx:1.25", "node-1")
	a := controller.PodAddress(&pod)
	for i := 0; i < 10; i++ {
		if got := controller.PodAddress(&pod); got != a {
			t.Fatalf("address changed from %s to %s", a, got)
		}
	}
	if !podCIDR.MatchString(a) {
		t.Errorf("address %q outside the pod network", a)
	}

	other := testutil.Pod("web-def", "nginx:1.25", "node-1")
	if controller.PodAddress(&other) == a {
		t.Error("distinct pods share an address")
	}
}
