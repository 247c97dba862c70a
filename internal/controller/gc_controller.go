package controller

import (
	"slices"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// GarbageCollector finishes what soft-deletion starts. It walks the owner
// forest top-down, propagating deletion marks from soft-deleted parents to
// their live children, then physically removes every soft-deleted object
// that has no live dependents left. Pods have no dependents and are always
// removed the tick they are marked.
type GarbageCollector struct{}

// Name implements Controller.
func (c *GarbageCollector) Name() string { return "garbagecollector" }

// Reconcile implements Controller.
func (c *GarbageCollector) Reconcile(rc *Context) {
	c.cascade(rc)
	c.collect(rc)
}

// cascade marks the children of soft-deleted parents, parents first, so a
// whole tree can be marked within one pass.
func (c *GarbageCollector) cascade(rc *Context) {
	st := rc.State

	for i := range st.Deployments {
		d := &st.Deployments[i]
		if d.DeletionTimestamp == nil {
			continue
		}
		for _, rs := range st.ReplicaSetsOwnedBy(d.UID) {
			if rs.DeletionTimestamp == nil {
				rc.SoftDelete(&rs.ObjectMeta)
				rc.Recorder.Actionf(c.Name(), "CascadeDelete", "deleting replicaset %s of deployment %s", rs.Name, d.Name)
			}
		}
	}

	for i := range st.CronJobs {
		cj := &st.CronJobs[i]
		if cj.DeletionTimestamp == nil {
			continue
		}
		for _, job := range st.JobsOwnedBy(cj.UID) {
			if job.DeletionTimestamp == nil {
				rc.SoftDelete(&job.ObjectMeta)
				rc.Recorder.Actionf(c.Name(), "CascadeDelete", "deleting job %s of cronjob %s", job.Name, cj.Name)
			}
		}
	}

	// Pod owners: soft-deleted ReplicaSets, StatefulSets, DaemonSets and
	// Jobs release their pods.
	deletedOwners := map[string]bool{}
	for i := range st.ReplicaSets {
		if st.ReplicaSets[i].DeletionTimestamp != nil {
			deletedOwners[string(st.ReplicaSets[i].UID)] = true
		}
	}
	for i := range st.StatefulSets {
		if st.StatefulSets[i].DeletionTimestamp != nil {
			deletedOwners[string(st.StatefulSets[i].UID)] = true
		}
	}
	for i := range st.DaemonSets {
		if st.DaemonSets[i].DeletionTimestamp != nil {
			deletedOwners[string(st.DaemonSets[i].UID)] = true
		}
	}
	for i := range st.Jobs {
		if st.Jobs[i].DeletionTimestamp != nil {
			deletedOwners[string(st.Jobs[i].UID)] = true
		}
	}
	for i := range st.Pods {
		p := &st.Pods[i]
		if p.DeletionTimestamp != nil {
			continue
		}
		for _, ref := range p.OwnerReferences {
			if deletedOwners[string(ref.UID)] {
				rc.SoftDeletePod(p)
				rc.Recorder.Actionf(c.Name(), "CascadeDelete", "deleting pod %s of %s %s", p.Name, ref.Kind, ref.Name)
				break
			}
		}
	}
}

// collect removes soft-deleted objects bottom-up: pods first, then the
// owners that now have zero dependents.
func (c *GarbageCollector) collect(rc *Context) {
	st := rc.State

	st.Pods = slices.DeleteFunc(st.Pods, func(p simv1alpha1.Pod) bool {
		if p.DeletionTimestamp == nil {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed pod %s", p.Name)
		return true
	})

	st.ReplicaSets = slices.DeleteFunc(st.ReplicaSets, func(rs simv1alpha1.ReplicaSet) bool {
		if rs.DeletionTimestamp == nil || len(st.PodsOwnedBy(rs.UID)) > 0 {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed replicaset %s", rs.Name)
		return true
	})

	st.Jobs = slices.DeleteFunc(st.Jobs, func(j simv1alpha1.Job) bool {
		if j.DeletionTimestamp == nil || len(st.PodsOwnedBy(j.UID)) > 0 {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed job %s", j.Name)
		return true
	})

	st.Deployments = slices.DeleteFunc(st.Deployments, func(d simv1alpha1.Deployment) bool {
		if d.DeletionTimestamp == nil || len(st.ReplicaSetsOwnedBy(d.UID)) > 0 {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed deployment %s", d.Name)
		return true
	})

	st.StatefulSets = slices.DeleteFunc(st.StatefulSets, func(s simv1alpha1.StatefulSet) bool {
		if s.DeletionTimestamp == nil || len(st.PodsOwnedBy(s.UID)) > 0 {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed statefulset %s", s.Name)
		return true
	})

	st.DaemonSets = slices.DeleteFunc(st.DaemonSets, func(d simv1alpha1.DaemonSet) bool {
		if d.DeletionTimestamp == nil || len(st.PodsOwnedBy(d.UID)) > 0 {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed daemonset %s", d.Name)
		return true
	})

	st.CronJobs = slices.DeleteFunc(st.CronJobs, func(cj simv1alpha1.CronJob) bool {
		if cj.DeletionTimestamp == nil || len(st.JobsOwnedBy(cj.UID)) > 0 {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed cronjob %s", cj.Name)
		return true
	})

	st.Volumes = slices.DeleteFunc(st.Volumes, func(v simv1alpha1.PersistentVolume) bool {
		if v.DeletionTimestamp == nil {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed volume %s", v.Name)
		return true
	})

	st.Claims = slices.DeleteFunc(st.Claims, func(claim simv1alpha1.PersistentVolumeClaim) bool {
		if claim.DeletionTimestamp == nil {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed claim %s", claim.Name)
		return true
	})

	c.removeDanglingServices(rc)
}

// removeDanglingServices collects soft-deleted services; they own nothing,
// so removal is unconditional.
func (c *GarbageCollector) removeDanglingServices(rc *Context) {
	rc.State.Services = slices.DeleteFunc(rc.State.Services, func(svc simv1alpha1.Service) bool {
		if svc.DeletionTimestamp == nil {
			return false
		}
		rc.Recorder.Actionf(c.Name(), "DeleteObject", "removed service %s", svc.Name)
		return true
	})
}
