package controller

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// SchedulerController binds Pending pods to nodes. Placement filters hard
// constraints (readiness, cordon, untolerated NoSchedule/NoExecute taints,
// capacity), then prefers nodes with the fewest untolerated PreferNoSchedule
// taints, breaking ties by lowest allocation. Unschedulable pods are retried
// every tick with a reason that decomposes why each node was rejected.
type SchedulerController struct{}

// Name implements Controller.
func (c *SchedulerController) Name() string { return "scheduler" }

// Reconcile implements Controller.
func (c *SchedulerController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.Pods {
		p := &st.Pods[i]
		if !c.needsScheduling(p) {
			continue
		}
		c.schedulePod(rc, p)
	}
}

func (c *SchedulerController) needsScheduling(p *simv1alpha1.Pod) bool {
	if !p.IsLive() || p.Status.Phase != simv1alpha1.PodPending || p.Spec.NodeName != "" {
		return false
	}
	// Pods that cannot start anyway are not worth placing.
	if p.Spec.FailureMode == simv1alpha1.FailureImagePull || p.Status.Reason == simv1alpha1.ReasonInitError {
		return false
	}
	return true
}

func (c *SchedulerController) schedulePod(rc *Context, p *simv1alpha1.Pod) {
	st := rc.State

	var (
		best            *simv1alpha1.Node
		bestPenalty     int
		bestAlloc       int
		notReady, taint int
		full            int
	)

	for i := range st.Nodes {
		n := &st.Nodes[i]
		if !n.Status.Ready || n.Spec.Unschedulable {
			notReady++
			continue
		}
		if c.repelled(p, n) {
			taint++
			continue
		}
		alloc := len(st.LivePodsOnNode(n.Name))
		if alloc >= int(n.Spec.EffectiveCapacity()) {
			full++
			continue
		}
		penalty := c.preferencePenalty(p, n)
		if best == nil ||
			penalty < bestPenalty ||
			(penalty == bestPenalty && alloc < bestAlloc) ||
			(penalty == bestPenalty && alloc == bestAlloc && n.Name < best.Name) {
			best, bestPenalty, bestAlloc = n, penalty, alloc
		}
	}

	if best == nil {
		p.Status.Reason = simv1alpha1.ReasonUnschedulable
		p.Status.Message = c.failureMessage(len(st.Nodes), taint, full, notReady)
		rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
			"FailedScheduling", "%s", p.Status.Message)
		return
	}

	p.Spec.NodeName = best.Name
	if p.Status.Reason == simv1alpha1.ReasonUnschedulable {
		p.Status.Reason = ""
		p.Status.Message = ""
	}
	rc.Recorder.Actionf(c.Name(), "BindPod", "bound pod %s to node %s", p.Name, best.Name)
	rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventNormal,
		"Scheduled", "successfully assigned %s to %s", p.Name, best.Name)
}

// repelled reports whether the node carries a NoSchedule or NoExecute taint
// the pod does not tolerate.
func (c *SchedulerController) repelled(p *simv1alpha1.Pod, n *simv1alpha1.Node) bool {
	for i := range n.Spec.Taints {
		t := &n.Spec.Taints[i]
		if t.Effect != corev1.TaintEffectNoSchedule && t.Effect != corev1.TaintEffectNoExecute {
			continue
		}
		if !p.Tolerates(t) {
			return true
		}
	}
	return false
}

// preferencePenalty counts untolerated PreferNoSchedule taints.
func (c *SchedulerController) preferencePenalty(p *simv1alpha1.Pod, n *simv1alpha1.Node) int {
	penalty := 0
	for i := range n.Spec.Taints {
		t := &n.Spec.Taints[i]
		if t.Effect != corev1.TaintEffectPreferNoSchedule {
			continue
		}
		if !p.Tolerates(t) {
			penalty++
		}
	}
	return penalty
}

func (c *SchedulerController) failureMessage(total, taint, full, notReady int) string {
	parts := []string{}
	if taint > 0 {
		parts = append(parts, fmt.Sprintf("%d node(s) had untolerated taint", taint))
	}
	if full > 0 {
		parts = append(parts, fmt.Sprintf("%d node(s) at capacity", full))
	}
	if notReady > 0 {
		parts = append(parts, fmt.Sprintf("%d node(s) not ready", notReady))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("0/%d nodes available", total)
	}
	return fmt.Sprintf("0/%d nodes available: %s", total, strings.Join(parts, ", "))
}
