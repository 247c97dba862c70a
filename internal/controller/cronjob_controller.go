package controller

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/internal/schedule"
	"github.com/tickwise/clustersim/pkg/util/metadata"
)

// CronJobController fires a Job every schedule interval. A schedule that
// does not parse is surfaced on status and never fires; it is not guessed
// into a default interval.
type CronJobController struct{}

// Name implements Controller.
func (c *CronJobController) Name() string { return "cronjob" }

// Reconcile implements Controller.
func (c *CronJobController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.CronJobs {
		cj := &st.CronJobs[i]
		if cj.DeletionTimestamp != nil {
			continue
		}
		c.reconcileCronJob(rc, cj)
	}
}

func (c *CronJobController) reconcileCronJob(rc *Context, cj *simv1alpha1.CronJob) {
	st := rc.State

	interval, err := schedule.Parse(cj.Spec.Schedule)
	if err != nil {
		if cj.Status.ParseError != err.Error() {
			cj.Status.ParseError = err.Error()
			rc.Recorder.Eventf(simv1alpha1.KindCronJob, cj.Name, simv1alpha1.EventWarning,
				"InvalidSchedule", "cannot parse schedule: %v", err)
		}
	} else {
		cj.Status.ParseError = ""
		if tick := rc.Tick(); tick > 0 && tick%interval == 0 {
			c.fire(rc, cj, tick)
		}
	}

	active := int32(0)
	for _, job := range st.JobsOwnedBy(cj.UID) {
		if job.DeletionTimestamp == nil && job.Status.CompletionTick == nil {
			active++
		}
	}
	cj.Status.Active = active
}

func (c *CronJobController) fire(rc *Context, cj *simv1alpha1.CronJob, tick int64) {
	var spec simv1alpha1.JobSpec
	spec.Parallelism = cj.Spec.JobTemplate.Parallelism
	spec.Completions = cj.Spec.JobTemplate.Completions
	spec.BackoffLimit = cj.Spec.JobTemplate.BackoffLimit
	cj.Spec.JobTemplate.Template.DeepCopyInto(&spec.Template)

	job := simv1alpha1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:              fmt.Sprintf("%s-%d", cj.Name, tick),
			UID:               rc.IDs.UID(),
			CreationTimestamp: rc.Now(),
			OwnerReferences:   []metav1.OwnerReference{metadata.NewOwnerRef(simv1alpha1.KindCronJob, cj.Name, cj.UID)},
		},
		Spec: spec,
	}
	rc.State.Jobs = append(rc.State.Jobs, job)
	cj.Status.LastScheduleTick = ptr.To(tick)
	rc.Recorder.Actionf(c.Name(), "CreateJob", "created job %s from cronjob %s", job.Name, cj.Name)
	rc.Recorder.Eventf(simv1alpha1.KindCronJob, cj.Name, simv1alpha1.EventNormal,
		"SuccessfulCreate", "created job %s", job.Name)
}
