package controller

import (
	"fmt"
	"hash/fnv"
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/util/metadata"
)

// EndpointsController keeps each service's endpoint list in sync with the
// ready pods matching its selector. Endpoint addresses are derived from pod
// UIDs so they stay stable across ticks.
type EndpointsController struct{}

func (c *EndpointsController) Name() string { return "endpoints" }

func (c *EndpointsController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.Services {
		svc := &st.Services[i]
		if svc.DeletionTimestamp != nil {
			continue
		}

		want := sets.New[string]()
		for j := range st.Pods {
			p := &st.Pods[j]
			if !p.IsLive() || !p.IsReady() {
				continue
			}
			if !metadata.SelectorMatches(svc.Spec.Selector, p.Labels) {
				continue
			}
			want.Insert(PodAddress(p))
		}

		have := sets.New(svc.Status.Endpoints...)
		if want.Equal(have) {
			continue
		}

		endpoints := want.UnsortedList()
		sort.Strings(endpoints)
		svc.Status.Endpoints = endpoints
		rc.Recorder.Actionf(c.Name(), "UpdateEndpoints",
			"service %s now has %d endpoint(s)", svc.Name, len(endpoints))
		rc.Recorder.Eventf(simv1alpha1.KindService, svc.Name, simv1alpha1.EventNormal,
			"EndpointsUpdated", "updated endpoints for service %s (%d ready)", svc.Name, len(endpoints))
	}
}

// PodAddress returns the pod's cluster IP in 10.244.0.0/16, derived from its
// UID. The same pod always maps to the same address.
func PodAddress(pod *simv1alpha1.Pod) string {
	h := fnv.New32a()
	h.Write([]byte(pod.UID))
	sum := h.Sum32()
	return fmt.Sprintf("10.244.%d.%d", (sum>>8)&0xff, sum&0xff)
}
