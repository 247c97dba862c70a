package controller

import (
	"fmt"

	"k8s.io/utils/ptr"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/util/metadata"
)

// JobController runs pods to a target number of completions. Failures
// accumulate in a persistent status counter (the failed pods themselves are
// collected), and crossing the backoff limit is terminal: active pods are
// terminated and no new pods are ever created.
type JobController struct{}

// Name implements Controller.
func (c *JobController) Name() string { return "job" }

// Reconcile implements Controller.
func (c *JobController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.Jobs {
		job := &st.Jobs[i]
		if job.DeletionTimestamp != nil {
			continue
		}
		c.reconcileJob(rc, job)
	}
}

func (c *JobController) reconcileJob(rc *Context, job *simv1alpha1.Job) {
	st := rc.State
	pods := st.LivePodsOwnedBy(job.UID)

	var succeeded, active int32
	for _, p := range pods {
		switch p.Status.Phase {
		case simv1alpha1.PodSucceeded:
			succeeded++
		case simv1alpha1.PodFailed:
			// Count once, then release the pod for collection.
			job.Status.Failed++
			rc.SoftDeletePod(p)
			rc.Recorder.Actionf(c.Name(), "CountFailure", "job %s pod %s failed (%d so far)", job.Name, p.Name, job.Status.Failed)
			rc.Recorder.Eventf(simv1alpha1.KindJob, job.Name, simv1alpha1.EventWarning,
				"BackoffLimitCheck", "pod %s failed, %d/%d failures", p.Name, job.Status.Failed, job.Spec.BackoffLimit)
		default:
			active++
		}
	}

	job.Status.Succeeded = succeeded

	if job.Finished() {
		job.Status.Active = active
		return
	}

	completions := job.Spec.EffectiveCompletions()

	switch {
	case job.Status.Failed > job.Spec.BackoffLimit:
		for _, p := range st.LivePodsOwnedBy(job.UID) {
			if p.Status.Phase != simv1alpha1.PodSucceeded {
				rc.SoftDeletePod(p)
			}
		}
		job.Status.Condition = simv1alpha1.JobFailed
		job.Status.CompletionTick = ptr.To(rc.Tick())
		job.Status.Active = 0
		rc.Recorder.Actionf(c.Name(), "FailJob", "job %s exceeded backoff limit", job.Name)
		rc.Recorder.Eventf(simv1alpha1.KindJob, job.Name, simv1alpha1.EventWarning,
			"BackoffLimitExceeded", "job has reached the specified backoff limit")
		return

	case succeeded >= completions:
		job.Status.Condition = simv1alpha1.JobComplete
		job.Status.CompletionTick = ptr.To(rc.Tick())
		job.Status.Active = active
		rc.Recorder.Actionf(c.Name(), "CompleteJob", "job %s completed %d/%d", job.Name, succeeded, completions)
		rc.Recorder.Eventf(simv1alpha1.KindJob, job.Name, simv1alpha1.EventNormal,
			"Completed", "job completed (%d succeeded)", succeeded)
		return
	}

	want := min(job.Spec.EffectiveParallelism(), completions-succeeded)
	var created []simv1alpha1.Pod
	owner := metadata.NewOwnerRef(simv1alpha1.KindJob, job.Name, job.UID)
	for active < want {
		name := fmt.Sprintf("%s-%s", job.Name, rc.IDs.Suffix())
		created = append(created, rc.NewPodFromTemplate(&job.Spec.Template, name, owner))
		active++
		rc.Recorder.Actionf(c.Name(), "CreatePod", "created pod %s for job %s", name, job.Name)
		rc.Recorder.Eventf(simv1alpha1.KindJob, job.Name, simv1alpha1.EventNormal,
			"SuccessfulCreate", "created pod %s", name)
	}
	st.Pods = append(st.Pods, created...)
	job.Status.Active = active
}
