package controller

import (
	"k8s.io/utils/ptr"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// NodeLifecycleController evicts every pod from nodes whose Ready condition
// is false. Eviction fails the pod, clears its node assignment and releases
// it, so the owning controller recreates it elsewhere on the next tick; this
// is the whole of node-failure self-healing.
type NodeLifecycleController struct{}

// Name implements Controller.
func (c *NodeLifecycleController) Name() string { return "nodelifecycle" }

// Reconcile implements Controller.
func (c *NodeLifecycleController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.Nodes {
		n := &st.Nodes[i]
		if n.Status.Ready {
			continue
		}
		for _, p := range st.LivePodsOnNode(n.Name) {
			p.Status.Phase = simv1alpha1.PodFailed
			p.Status.Reason = simv1alpha1.ReasonNodeNotReady
			p.Status.Message = "node " + n.Name + " is not ready"
			p.Status.Ready = ptr.To(false)
			p.Spec.NodeName = ""
			// Keep the Failed phase visible; the soft-delete alone is
			// what lets the owner observe "pod gone".
			rc.SoftDelete(&p.ObjectMeta)
			rc.Recorder.Actionf(c.Name(), "EvictPod", "evicted pod %s from node %s", p.Name, n.Name)
			rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
				"NodeNotReady", "pod evicted: node %s is not ready", n.Name)
		}
	}
}
