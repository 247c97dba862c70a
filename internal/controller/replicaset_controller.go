package controller

import (
	"fmt"
	"sort"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/util/metadata"
	"github.com/tickwise/clustersim/pkg/util/status"
)

// ReplicaSetController reconciles each ReplicaSet's live pod count toward
// spec.replicas. It creates missing pods from the template, deletes excess
// pods newest-first, and adopts matching orphans.
type ReplicaSetController struct{}

// Name implements Controller.
func (c *ReplicaSetController) Name() string { return "replicaset" }

// Reconcile implements Controller.
func (c *ReplicaSetController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.ReplicaSets {
		rs := &st.ReplicaSets[i]
		if rs.DeletionTimestamp != nil {
			continue
		}
		c.adoptOrphans(rc, rs)
		c.reconcileReplicas(rc, rs)
	}
}

// adoptOrphans takes ownership of live ownerless pods matching the selector.
// Adoption is what lets a ReplicaSet pick up pods that survived a deleted
// owner or were created by hand with matching labels.
func (c *ReplicaSetController) adoptOrphans(rc *Context, rs *simv1alpha1.ReplicaSet) {
	st := rc.State
	for i := range st.Pods {
		p := &st.Pods[i]
		if !p.IsLive() || !metadata.IsOrphan(&p.ObjectMeta) {
			continue
		}
		if !metadata.SelectorMatches(rs.Spec.Selector, p.Labels) {
			continue
		}
		p.OwnerReferences = append(p.OwnerReferences,
			metadata.NewOwnerRef(simv1alpha1.KindReplicaSet, rs.Name, rs.UID))
		rc.Recorder.Actionf(c.Name(), "AdoptPod", "replicaset %s adopted orphan pod %s", rs.Name, p.Name)
		rc.Recorder.Eventf(simv1alpha1.KindReplicaSet, rs.Name, simv1alpha1.EventNormal,
			"SuccessfulAdopt", "adopted pod %s", p.Name)
	}
}

func (c *ReplicaSetController) reconcileReplicas(rc *Context, rs *simv1alpha1.ReplicaSet) {
	st := rc.State
	pods := st.LivePodsOwnedBy(rs.UID)
	diff := int(rs.Spec.Replicas) - len(pods)

	switch {
	case diff > 0:
		created := make([]simv1alpha1.Pod, 0, diff)
		owner := metadata.NewOwnerRef(simv1alpha1.KindReplicaSet, rs.Name, rs.UID)
		for i := 0; i < diff; i++ {
			name := fmt.Sprintf("%s-%s", rs.Name, rc.IDs.Suffix())
			created = append(created, rc.NewPodFromTemplate(&rs.Spec.Template, name, owner))
			rc.Recorder.Actionf(c.Name(), "CreatePod", "created pod %s for replicaset %s", name, rs.Name)
			rc.Recorder.Eventf(simv1alpha1.KindReplicaSet, rs.Name, simv1alpha1.EventNormal,
				"SuccessfulCreate", "created pod %s", name)
		}
		st.Pods = append(st.Pods, created...)

	case diff < 0:
		// Newest pods go first: an explicit LIFO tie-break, so scale-down
		// is reproducible.
		sort.Slice(pods, func(i, j int) bool {
			if pods[i].Status.CreatedTick != pods[j].Status.CreatedTick {
				return pods[i].Status.CreatedTick > pods[j].Status.CreatedTick
			}
			return pods[i].Name > pods[j].Name
		})
		for _, p := range pods[:-diff] {
			rc.SoftDeletePod(p)
			rc.Recorder.Actionf(c.Name(), "DeletePod", "deleted pod %s of replicaset %s", p.Name, rs.Name)
			rc.Recorder.Eventf(simv1alpha1.KindReplicaSet, rs.Name, simv1alpha1.EventNormal,
				"SuccessfulDelete", "deleted pod %s", p.Name)
		}
	}

	counts := status.CountPods(st.LivePodsOwnedBy(rs.UID))
	rs.Status.Replicas = counts.Total
	rs.Status.ReadyReplicas = counts.Ready
}
