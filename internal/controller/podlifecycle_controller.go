package controller

import (
	"fmt"
	"strings"

	"k8s.io/utils/ptr"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/util/metadata"
)

// PodLifecycleController is the kubelet of the simulator: it advances every
// pod through its phase machine.
//
//	Pending -> Running | Failed | (held: ImagePullError, config/claim
//	                              dependencies, init containers)
//	Running -> Succeeded | Failed | CrashLoopBackOff | Pending (liveness
//	                                                            restart)
//	CrashLoopBackOff -> Running (after backoff) -> CrashLoopBackOff ...
//
// Failures never raise errors; they land on the pod's status and the event
// stream.
type PodLifecycleController struct{}

// Name implements Controller.
func (c *PodLifecycleController) Name() string { return "podlifecycle" }

// Reconcile implements Controller.
func (c *PodLifecycleController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.Pods {
		p := &st.Pods[i]
		if !p.IsLive() {
			continue
		}
		switch p.Status.Phase {
		case simv1alpha1.PodPending:
			c.reconcilePending(rc, p)
		case simv1alpha1.PodRunning:
			c.reconcileRunning(rc, p)
		case simv1alpha1.PodCrashLoopBackOff:
			c.reconcileBackoff(rc, p)
		case simv1alpha1.PodFailed:
			// Evicted pods are released immediately so their owner
			// observes "pod gone" and recreates them elsewhere.
			if p.Status.Reason == simv1alpha1.ReasonNodeNotReady {
				rc.SoftDeletePod(p)
				rc.Recorder.Actionf(c.Name(), "DeletePod", "released evicted pod %s", p.Name)
			}
		}
	}
}

func (c *PodLifecycleController) reconcilePending(rc *Context, p *simv1alpha1.Pod) {
	p.Status.Ready = ptr.To(false)

	// A broken image holds the pod in Pending until the spec changes.
	if p.Spec.FailureMode == simv1alpha1.FailureImagePull {
		p.Status.Reason = simv1alpha1.ReasonImagePull
		p.Status.Message = "failed to pull image " + p.Spec.Image
		rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
			"ErrImagePull", "failed to pull image %q", p.Spec.Image)
		return
	}

	if held := c.holdOnDependencies(rc, p); held {
		return
	}

	if p.Spec.NodeName == "" {
		// The scheduler owns the Unschedulable reason.
		return
	}

	if !c.runInitContainers(rc, p) {
		return
	}

	if c.clearHoldReason(p.Status.Reason) {
		p.Status.Reason = ""
		p.Status.Message = ""
	}

	// One full tick of Pending before the container starts, so creation
	// and start are distinct observable states.
	if p.Age(rc.Tick()) < 1 {
		return
	}
	p.Status.Phase = simv1alpha1.PodRunning
	p.Status.StartedTick = rc.Tick()
	p.Status.Reason = ""
	p.Status.Message = ""
	c.refreshReadiness(rc, p)
	rc.Recorder.Actionf(c.Name(), "StartPod", "started pod %s on node %s", p.Name, p.Spec.NodeName)
	rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventNormal,
		"Started", "started container on node %s", p.Spec.NodeName)
}

// holdOnDependencies keeps the pod Pending while a referenced ConfigMap or
// Secret is missing or a referenced claim is unbound. The holds clear by
// themselves once the dependency resolves; no resubmission is needed.
func (c *PodLifecycleController) holdOnDependencies(rc *Context, p *simv1alpha1.Pod) bool {
	st := rc.State

	if name := p.Spec.ConfigMapName; name != "" && st.ConfigMapByName(name) == nil {
		p.Status.Reason = simv1alpha1.ReasonConfigError
		p.Status.Message = "configmap \"" + name + "\" not found"
		rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
			simv1alpha1.ReasonConfigError, "configmap %q not found", name)
		return true
	}
	if name := p.Spec.SecretName; name != "" && st.SecretByName(name) == nil {
		p.Status.Reason = simv1alpha1.ReasonConfigError
		p.Status.Message = "secret \"" + name + "\" not found"
		rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
			simv1alpha1.ReasonConfigError, "secret %q not found", name)
		return true
	}
	if name := p.Spec.ClaimName; name != "" {
		claim := st.ClaimByName(name)
		if claim == nil || claim.Status.Phase != simv1alpha1.ClaimBound {
			p.Status.Reason = simv1alpha1.ReasonClaimPending
			p.Status.Message = "persistentvolumeclaim \"" + name + "\" not bound"
			rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
				"FailedScheduling", "persistentvolumeclaim %q not bound", name)
			return true
		}
	}
	return false
}

// runInitContainers advances the sequential init chain. It returns true once
// every init container has completed.
func (c *PodLifecycleController) runInitContainers(rc *Context, p *simv1alpha1.Pod) bool {
	if len(p.Spec.InitContainers) == 0 || p.Status.InitDone {
		return true
	}
	tick := rc.Tick()
	idx := int(p.Status.InitIndex)
	ic := &p.Spec.InitContainers[idx]

	if ic.Fail {
		p.Status.Reason = simv1alpha1.ReasonInitError
		p.Status.Message = "init container " + ic.Name + " failed"
		rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
			"BackOff", "init container %s failed", ic.Name)
		return false
	}

	if p.Status.InitStartedTick == 0 {
		p.Status.InitStartedTick = tick
	}

	for tick-p.Status.InitStartedTick >= ic.RunTicks {
		idx++
		if idx >= len(p.Spec.InitContainers) {
			p.Status.InitDone = true
			p.Status.InitIndex = int32(idx)
			rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventNormal,
				"Created", "all init containers completed")
			return true
		}
		p.Status.InitIndex = int32(idx)
		p.Status.InitStartedTick = tick
		ic = &p.Spec.InitContainers[idx]
		if ic.Fail {
			p.Status.Reason = simv1alpha1.ReasonInitError
			p.Status.Message = "init container " + ic.Name + " failed"
			rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
				"BackOff", "init container %s failed", ic.Name)
			return false
		}
		if ic.RunTicks > 0 {
			break
		}
	}

	p.Status.Reason = fmt.Sprintf("Init:%d/%d", p.Status.InitIndex, len(p.Spec.InitContainers))
	return false
}

// clearHoldReason reports whether the reason is one of the self-clearing
// Pending holds rather than a scheduler- or user-owned reason.
func (c *PodLifecycleController) clearHoldReason(reason string) bool {
	return reason == simv1alpha1.ReasonConfigError ||
		reason == simv1alpha1.ReasonClaimPending ||
		reason == simv1alpha1.ReasonImagePull ||
		reason == simv1alpha1.ReasonLivenessProbeRestart ||
		strings.HasPrefix(reason, "Init:")
}

func (c *PodLifecycleController) reconcileRunning(rc *Context, p *simv1alpha1.Pod) {
	tick := rc.Tick()
	ranTicks := tick - p.Status.StartedTick

	// The crash modes trigger one tick after start.
	switch p.Spec.FailureMode {
	case simv1alpha1.FailureCrashLoop:
		if ranTicks >= 1 {
			c.crash(rc, p)
			return
		}
	case simv1alpha1.FailureOOMKilled:
		if ranTicks >= 1 {
			p.Status.Phase = simv1alpha1.PodFailed
			p.Status.Reason = simv1alpha1.ReasonOOMKilled
			p.Status.Message = "container exceeded its memory limit"
			p.Status.Ready = ptr.To(false)
			rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
				"OOMKilled", "container killed: out of memory")
			// ReplicaSet pods are released so the owner recreates them.
			if ref := metadata.ControllerOf(&p.ObjectMeta); ref != nil && ref.Kind == simv1alpha1.KindReplicaSet {
				rc.SoftDeletePod(p)
			}
			return
		}
	}

	// Batch pods complete once they have run for completionTicks.
	if p.Spec.CompletionTicks != nil && ranTicks >= *p.Spec.CompletionTicks {
		p.Status.Phase = simv1alpha1.PodSucceeded
		p.Status.Reason = simv1alpha1.ReasonCompleted
		p.Status.Ready = ptr.To(false)
		rc.Recorder.Actionf(c.Name(), "CompletePod", "pod %s ran to completion", p.Name)
		rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventNormal,
			"Completed", "container ran to completion after %d ticks", ranTicks)
		return
	}

	if c.livenessRestart(rc, p) {
		return
	}

	c.refreshReadiness(rc, p)
}

// crash moves the pod into CrashLoopBackOff with a bounded backoff window
// that grows with the restart count.
func (c *PodLifecycleController) crash(rc *Context, p *simv1alpha1.Pod) {
	p.Status.RestartCount++
	backoff := int64(p.Status.RestartCount)
	if backoff > simv1alpha1.MaxCrashBackoffTicks {
		backoff = simv1alpha1.MaxCrashBackoffTicks
	}
	p.Status.Phase = simv1alpha1.PodCrashLoopBackOff
	p.Status.Reason = simv1alpha1.ReasonCrashLoopBackOff
	p.Status.Message = "container crashed, backing off"
	p.Status.BackoffUntilTick = rc.Tick() + backoff
	p.Status.Ready = ptr.To(false)
	rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
		"BackOff", "back-off restarting failed container (restart %d, %d ticks)", p.Status.RestartCount, backoff)
}

func (c *PodLifecycleController) reconcileBackoff(rc *Context, p *simv1alpha1.Pod) {
	if rc.Tick() < p.Status.BackoffUntilTick {
		return
	}
	p.Status.Phase = simv1alpha1.PodRunning
	p.Status.StartedTick = rc.Tick()
	p.Status.Reason = ""
	p.Status.Message = ""
	rc.Recorder.Actionf(c.Name(), "RestartPod", "restarted pod %s after backoff", p.Name)
	rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventNormal,
		"Started", "restarted container (restart %d)", p.Status.RestartCount)
}

// livenessRestart performs a kubelet-style in-place restart after the probe
// has failed FailureThreshold consecutive checks. A check fails while any
// failure mode is active; the crash modes short-circuit earlier, so in
// practice this catches modes that only manifest at runtime.
func (c *PodLifecycleController) livenessRestart(rc *Context, p *simv1alpha1.Pod) bool {
	probe := p.Spec.LivenessProbe
	if probe == nil || c.startupProbeActive(rc, p) {
		return false
	}
	if p.Spec.FailureMode == simv1alpha1.FailureNone {
		p.Status.LivenessFailures = 0
		return false
	}

	ranTicks := rc.Tick() - p.Status.StartedTick
	if ranTicks <= 0 || ranTicks%probe.EffectivePeriod() != 0 {
		return false
	}
	p.Status.LivenessFailures++
	if p.Status.LivenessFailures < probe.EffectiveFailureThreshold() {
		rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
			"Unhealthy", "liveness probe failed (%d/%d)", p.Status.LivenessFailures, probe.EffectiveFailureThreshold())
		return false
	}

	p.Status.Phase = simv1alpha1.PodPending
	p.Status.RestartCount++
	p.Status.LivenessFailures = 0
	p.Status.Ready = ptr.To(false)
	p.Status.Reason = simv1alpha1.ReasonLivenessProbeRestart
	p.Status.Message = "container restarted after failing liveness probe"
	rc.Recorder.Actionf(c.Name(), "RestartPod", "pod %s restarted by liveness probe", p.Name)
	rc.Recorder.Eventf(simv1alpha1.KindPod, p.Name, simv1alpha1.EventWarning,
		"Killing", "container failed liveness probe, will be restarted (restart %d)", p.Status.RestartCount)
	return true
}

// startupProbeActive reports whether the startup window is still open, which
// holds readiness at false and suspends the liveness probe.
func (c *PodLifecycleController) startupProbeActive(rc *Context, p *simv1alpha1.Pod) bool {
	probe := p.Spec.StartupProbe
	if probe == nil {
		return false
	}
	window := int64(probe.EffectiveFailureThreshold()) * probe.EffectivePeriod()
	return p.Age(rc.Tick()) < window
}

// refreshReadiness recomputes the Ready flag for a Running pod: false while
// the startup window is open, otherwise gated by the readiness probe's
// initial delay against pod age.
func (c *PodLifecycleController) refreshReadiness(rc *Context, p *simv1alpha1.Pod) {
	if c.startupProbeActive(rc, p) {
		p.Status.Ready = ptr.To(false)
		return
	}
	if probe := p.Spec.ReadinessProbe; probe != nil {
		p.Status.Ready = ptr.To(p.Age(rc.Tick()) >= probe.InitialDelayTicks)
		return
	}
	p.Status.Ready = ptr.To(true)
}
