package controller

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/util/metadata"
	"github.com/tickwise/clustersim/pkg/util/status"
)

// DaemonSetController keeps exactly one pod per eligible node. The desired
// count is never stored: it is the set of eligible nodes, recomputed every
// tick, so a node joining or failing changes the placement automatically.
type DaemonSetController struct{}

// Name implements Controller.
func (c *DaemonSetController) Name() string { return "daemonset" }

// Reconcile implements Controller.
func (c *DaemonSetController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.DaemonSets {
		ds := &st.DaemonSets[i]
		if ds.DeletionTimestamp != nil {
			continue
		}
		c.reconcileSet(rc, ds)
	}
}

func (c *DaemonSetController) reconcileSet(rc *Context, ds *simv1alpha1.DaemonSet) {
	st := rc.State

	eligible := map[string]bool{}
	for i := range st.Nodes {
		n := &st.Nodes[i]
		if n.Status.Ready && c.tolerated(ds, n) {
			eligible[n.Name] = true
		}
	}

	// Remove pods whose node is gone or no longer eligible.
	onNode := map[string]bool{}
	for _, p := range st.LivePodsOwnedBy(ds.UID) {
		if !eligible[p.Spec.NodeName] {
			rc.SoftDeletePod(p)
			rc.Recorder.Actionf(c.Name(), "DeletePod", "deleted pod %s of daemonset %s (node %s not eligible)", p.Name, ds.Name, p.Spec.NodeName)
			rc.Recorder.Eventf(simv1alpha1.KindDaemonSet, ds.Name, simv1alpha1.EventNormal,
				"SuccessfulDelete", "deleted pod %s: node %s no longer eligible", p.Name, p.Spec.NodeName)
			continue
		}
		onNode[p.Spec.NodeName] = true
	}

	// One pod per eligible node that lacks one, bound to the node upfront
	// so the scheduler never touches daemon pods.
	var created []simv1alpha1.Pod
	for i := range st.Nodes {
		n := &st.Nodes[i]
		if !eligible[n.Name] || onNode[n.Name] {
			continue
		}
		name := fmt.Sprintf("%s-%s", ds.Name, n.Name)
		owner := metadata.NewOwnerRef(simv1alpha1.KindDaemonSet, ds.Name, ds.UID)
		pod := rc.NewPodFromTemplate(&ds.Spec.Template, name, owner)
		pod.Spec.NodeName = n.Name
		created = append(created, pod)
		rc.Recorder.Actionf(c.Name(), "CreatePod", "created pod %s for daemonset %s on node %s", name, ds.Name, n.Name)
		rc.Recorder.Eventf(simv1alpha1.KindDaemonSet, ds.Name, simv1alpha1.EventNormal,
			"SuccessfulCreate", "created pod %s on node %s", name, n.Name)
	}
	st.Pods = append(st.Pods, created...)

	counts := status.CountPods(st.LivePodsOwnedBy(ds.UID))
	ds.Status.DesiredScheduled = int32(len(eligible))
	ds.Status.CurrentScheduled = counts.Total
	ds.Status.ReadyReplicas = counts.Ready
}

// tolerated reports whether the template tolerates every repelling taint on
// the node. PreferNoSchedule is a soft preference and never excludes a node.
func (c *DaemonSetController) tolerated(ds *simv1alpha1.DaemonSet, n *simv1alpha1.Node) bool {
	for i := range n.Spec.Taints {
		t := &n.Spec.Taints[i]
		if t.Effect != corev1.TaintEffectNoSchedule && t.Effect != corev1.TaintEffectNoExecute {
			continue
		}
		if !ds.Spec.Template.Tolerates(t) {
			return false
		}
	}
	return true
}
