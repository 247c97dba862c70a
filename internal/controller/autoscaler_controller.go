package controller

import (
	"math"

	"k8s.io/utils/ptr"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/util/metadata"
)

// AutoscalerController resizes Deployments from averaged pod CPU. A cooldown
// between scaling actions keeps a noisy metric from rescaling the target on
// every tick.
type AutoscalerController struct{}

// Name implements Controller.
func (c *AutoscalerController) Name() string { return "autoscaler" }

// Reconcile implements Controller.
func (c *AutoscalerController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.Autoscalers {
		hpa := &st.Autoscalers[i]
		if hpa.DeletionTimestamp != nil {
			continue
		}
		c.reconcileAutoscaler(rc, hpa)
	}
}

func (c *AutoscalerController) reconcileAutoscaler(rc *Context, hpa *simv1alpha1.HorizontalAutoscaler) {
	st := rc.State
	target := st.DeploymentByName(hpa.Spec.TargetDeployment)
	if target == nil || target.DeletionTimestamp != nil {
		rc.Recorder.Eventf(simv1alpha1.KindHorizontalAutoscaler, hpa.Name, simv1alpha1.EventWarning,
			"FailedGetScaleTarget", "deployment %q not found", hpa.Spec.TargetDeployment)
		return
	}
	if hpa.Spec.TargetCPUPercent <= 0 {
		return
	}

	// Average the metric over the target's Running pods.
	var sum, count int32
	for i := range st.Pods {
		p := &st.Pods[i]
		if !p.IsLive() || p.Status.Phase != simv1alpha1.PodRunning {
			continue
		}
		if !metadata.SelectorMatches(target.Spec.Selector, p.Labels) {
			continue
		}
		sum += p.Spec.CPUPercent
		count++
	}
	if count == 0 {
		return
	}
	avg := sum / count
	hpa.Status.CurrentCPUPercent = avg

	current := target.Spec.Replicas
	desired := int32(math.Ceil(float64(current) * float64(avg) / float64(hpa.Spec.TargetCPUPercent)))
	if desired < hpa.Spec.MinReplicas {
		desired = hpa.Spec.MinReplicas
	}
	if desired > hpa.Spec.MaxReplicas {
		desired = hpa.Spec.MaxReplicas
	}
	hpa.Status.DesiredReplicas = desired

	if desired == current {
		return
	}
	if last := hpa.Status.LastScaleTick; last != nil && rc.Tick()-*last < simv1alpha1.ScaleCooldownTicks {
		return
	}

	target.Spec.Replicas = desired
	hpa.Status.LastScaleTick = ptr.To(rc.Tick())
	rc.Recorder.Actionf(c.Name(), "ScaleDeployment", "scaled %s from %d to %d (avg CPU %d%%, target %d%%)",
		target.Name, current, desired, avg, hpa.Spec.TargetCPUPercent)
	rc.Recorder.Eventf(simv1alpha1.KindHorizontalAutoscaler, hpa.Name, simv1alpha1.EventNormal,
		"SuccessfulRescale", "scaled deployment %s from %d to %d replicas", target.Name, current, desired)
}
