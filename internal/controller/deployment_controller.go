package controller

import (
	"fmt"
	"maps"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/util/hash"
	"github.com/tickwise/clustersim/pkg/util/metadata"
)

// DeploymentController drives rollouts. Per deployment it guarantees an
// active ReplicaSet for the current template hash exists, then steps the
// rollout between the active set and any older generations. It writes only
// its owned ReplicaSets' spec.replicas; it never touches pods directly.
type DeploymentController struct{}

// Name implements Controller.
func (c *DeploymentController) Name() string { return "deployment" }

// Reconcile implements Controller.
func (c *DeploymentController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.Deployments {
		d := &st.Deployments[i]
		if d.DeletionTimestamp != nil {
			// The garbage collector cascades the deletion.
			continue
		}
		c.reconcileDeployment(rc, d)
	}
}

func (c *DeploymentController) reconcileDeployment(rc *Context, d *simv1alpha1.Deployment) {
	st := rc.State
	templateHash := hash.ComputePodTemplateHash(&d.Spec.Template)

	active := c.findActiveReplicaSet(st, d, templateHash)
	if active == nil {
		rs := c.newReplicaSet(rc, d, templateHash)
		st.ReplicaSets = append(st.ReplicaSets, rs)
		rc.Recorder.Actionf(c.Name(), "CreateReplicaSet", "created %s for %s (hash %s)", rs.Name, d.Name, templateHash)
		rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventNormal,
			"ScalingReplicaSet", "created ReplicaSet %s", rs.Name)
		active = c.findActiveReplicaSet(st, d, templateHash)
	}

	oldSets := c.oldReplicaSets(st, d, templateHash)

	switch d.Spec.EffectiveStrategy() {
	case simv1alpha1.RecreateStrategy:
		c.stepRecreate(rc, d, active, oldSets)
	default:
		c.stepRollingUpdate(rc, d, active, oldSets)
	}

	c.detectStall(rc, d, active, oldSets)
	c.cleanupOldSets(rc, d, oldSets)
	c.updateStatus(rc, d, templateHash)
}

func (c *DeploymentController) findActiveReplicaSet(st *simv1alpha1.ClusterState, d *simv1alpha1.Deployment, templateHash string) *simv1alpha1.ReplicaSet {
	for _, rs := range st.ReplicaSetsOwnedBy(d.UID) {
		if rs.DeletionTimestamp == nil && rs.TemplateHash() == templateHash {
			return rs
		}
	}
	return nil
}

func (c *DeploymentController) oldReplicaSets(st *simv1alpha1.ClusterState, d *simv1alpha1.Deployment, templateHash string) []*simv1alpha1.ReplicaSet {
	var out []*simv1alpha1.ReplicaSet
	for _, rs := range st.ReplicaSetsOwnedBy(d.UID) {
		if rs.DeletionTimestamp == nil && rs.TemplateHash() != templateHash {
			out = append(out, rs)
		}
	}
	// Oldest first, so scale-down drains generations deterministically.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreationTimestamp.Equal(&out[j].CreationTimestamp) {
			return out[i].CreationTimestamp.Before(&out[j].CreationTimestamp)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (c *DeploymentController) newReplicaSet(rc *Context, d *simv1alpha1.Deployment, templateHash string) simv1alpha1.ReplicaSet {
	selector := maps.Clone(d.Spec.Selector)
	if selector == nil {
		selector = map[string]string{}
	}
	selector[simv1alpha1.LabelPodTemplateHash] = templateHash

	var tmpl simv1alpha1.PodTemplateSpec
	d.Spec.Template.DeepCopyInto(&tmpl)
	if tmpl.Labels == nil {
		tmpl.Labels = map[string]string{}
	}
	tmpl.Labels[simv1alpha1.LabelPodTemplateHash] = templateHash

	return simv1alpha1.ReplicaSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:              fmt.Sprintf("%s-%s", d.Name, templateHash),
			UID:               rc.IDs.UID(),
			Labels:            maps.Clone(selector),
			CreationTimestamp: rc.Now(),
			OwnerReferences:   []metav1.OwnerReference{metadata.NewOwnerRef(simv1alpha1.KindDeployment, d.Name, d.UID)},
		},
		Spec: simv1alpha1.ReplicaSetSpec{
			Replicas: 0,
			Selector: selector,
			Template: tmpl,
		},
	}
}

// stepRollingUpdate surges the active set up by at most maxSurge and, once
// at least one new pod is Running (the availability gate), drains old sets
// by at most maxUnavailable.
func (c *DeploymentController) stepRollingUpdate(rc *Context, d *simv1alpha1.Deployment, active *simv1alpha1.ReplicaSet, oldSets []*simv1alpha1.ReplicaSet) {
	st := rc.State
	desired := d.Spec.Replicas

	oldReplicas := int32(0)
	for _, rs := range oldSets {
		oldReplicas += rs.Spec.Replicas
	}

	// A plain replica decrease is applied directly; the surge and
	// unavailability bounds only govern template rollouts.
	if active.Spec.Replicas > desired {
		active.Spec.Replicas = desired
		rc.Recorder.Actionf(c.Name(), "ScaleReplicaSet", "scaled %s down to %d", active.Name, active.Spec.Replicas)
		rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventNormal,
			"ScalingReplicaSet", "scaled down ReplicaSet %s to %d", active.Name, active.Spec.Replicas)
	}

	// Scale up, keeping total desired replicas within desired + maxSurge.
	if active.Spec.Replicas < desired {
		step := d.Spec.EffectiveMaxSurge()
		if room := desired + d.Spec.EffectiveMaxSurge() - (active.Spec.Replicas + oldReplicas); step > room {
			step = room
		}
		if short := desired - active.Spec.Replicas; step > short {
			step = short
		}
		if step > 0 {
			active.Spec.Replicas += step
			rc.Recorder.Actionf(c.Name(), "ScaleReplicaSet", "scaled %s up to %d", active.Name, active.Spec.Replicas)
			rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventNormal,
				"ScalingReplicaSet", "scaled up ReplicaSet %s to %d", active.Name, active.Spec.Replicas)
		}
	}

	// Old capacity is only removed once new capacity has proven itself.
	newRunning := 0
	for _, p := range st.LivePodsOwnedBy(active.UID) {
		if p.Status.Phase == simv1alpha1.PodRunning {
			newRunning++
		}
	}
	if newRunning == 0 {
		return
	}

	budget := d.Spec.EffectiveMaxUnavailable()
	for _, rs := range oldSets {
		if budget == 0 {
			break
		}
		if rs.Spec.Replicas == 0 {
			continue
		}
		step := min(budget, rs.Spec.Replicas)
		rs.Spec.Replicas -= step
		budget -= step
		rc.Recorder.Actionf(c.Name(), "ScaleReplicaSet", "scaled %s down to %d", rs.Name, rs.Spec.Replicas)
		rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventNormal,
			"ScalingReplicaSet", "scaled down ReplicaSet %s to %d", rs.Name, rs.Spec.Replicas)
	}
}

// stepRecreate drains every old generation to zero before the active set
// scales at all.
func (c *DeploymentController) stepRecreate(rc *Context, d *simv1alpha1.Deployment, active *simv1alpha1.ReplicaSet, oldSets []*simv1alpha1.ReplicaSet) {
	oldPods := 0
	for _, rs := range oldSets {
		if rs.Spec.Replicas > 0 {
			rs.Spec.Replicas = 0
			rc.Recorder.Actionf(c.Name(), "ScaleReplicaSet", "scaled %s down to 0", rs.Name)
			rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventNormal,
				"ScalingReplicaSet", "scaled down ReplicaSet %s to 0", rs.Name)
		}
		oldPods += len(rc.State.LivePodsOwnedBy(rs.UID))
	}
	if oldPods > 0 || active.Spec.Replicas == d.Spec.Replicas {
		return
	}
	active.Spec.Replicas = d.Spec.Replicas
	rc.Recorder.Actionf(c.Name(), "ScaleReplicaSet", "scaled %s up to %d", active.Name, active.Spec.Replicas)
	rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventNormal,
		"ScalingReplicaSet", "scaled up ReplicaSet %s to %d", active.Name, active.Spec.Replicas)
}

// detectStall warns when the new generation has pods but none of them run
// while old pods are still around, the signature of a wedged rollout. Pods
// younger than two ticks have not had a chance to start yet and do not count
// as stalled.
func (c *DeploymentController) detectStall(rc *Context, d *simv1alpha1.Deployment, active *simv1alpha1.ReplicaSet, oldSets []*simv1alpha1.ReplicaSet) {
	st := rc.State
	newPods := st.LivePodsOwnedBy(active.UID)
	if len(newPods) == 0 {
		return
	}
	oldEnough := false
	for _, p := range newPods {
		if p.Status.Phase == simv1alpha1.PodRunning {
			return
		}
		if p.Age(rc.Tick()) >= 2 {
			oldEnough = true
		}
	}
	if !oldEnough {
		return
	}
	oldPods := 0
	for _, rs := range oldSets {
		oldPods += len(st.LivePodsOwnedBy(rs.UID))
	}
	if oldPods == 0 {
		return
	}
	rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventWarning,
		"RolloutStalled", "no pod of ReplicaSet %s is running while %d old pods remain", active.Name, oldPods)
}

// cleanupOldSets soft-deletes drained old generations, retaining the single
// most recently created one as rollback history.
func (c *DeploymentController) cleanupOldSets(rc *Context, d *simv1alpha1.Deployment, oldSets []*simv1alpha1.ReplicaSet) {
	var drained []*simv1alpha1.ReplicaSet
	for _, rs := range oldSets {
		if rs.Spec.Replicas == 0 && len(rc.State.LivePodsOwnedBy(rs.UID)) == 0 {
			drained = append(drained, rs)
		}
	}
	if len(drained) <= 1 {
		return
	}
	// drained inherits oldest-first order; keep the newest.
	for _, rs := range drained[:len(drained)-1] {
		rc.SoftDelete(&rs.ObjectMeta)
		rc.Recorder.Actionf(c.Name(), "DeleteReplicaSet", "deleted drained ReplicaSet %s", rs.Name)
		rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventNormal,
			"ScalingReplicaSet", "deleted ReplicaSet %s", rs.Name)
	}
}

func (c *DeploymentController) updateStatus(rc *Context, d *simv1alpha1.Deployment, templateHash string) {
	st := rc.State

	var total, updated, ready int32
	for _, rs := range st.ReplicaSetsOwnedBy(d.UID) {
		for _, p := range st.LivePodsOwnedBy(rs.UID) {
			total++
			if rs.TemplateHash() == templateHash {
				updated++
			}
			if p.IsReady() {
				ready++
			}
		}
	}

	wasAvailable := d.Status.Available
	d.Status.Replicas = total
	d.Status.UpdatedReplicas = updated
	d.Status.ReadyReplicas = ready
	d.Status.AvailableReplicas = ready
	d.Status.Available = updated == d.Spec.Replicas &&
		total == updated &&
		ready == d.Spec.Replicas

	if d.Status.Available && !wasAvailable {
		rc.Recorder.Eventf(simv1alpha1.KindDeployment, d.Name, simv1alpha1.EventNormal,
			"RolloutComplete", "deployment %s successfully rolled out (%d/%d ready)", d.Name, ready, d.Spec.Replicas)
	}
}
