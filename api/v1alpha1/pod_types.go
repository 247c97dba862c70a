/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PodPhase is the coarse lifecycle state of a pod.
//
// Unlike the upstream phase set this one includes Terminating and
// CrashLoopBackOff as first-class phases: the simulator has no container
// statuses underneath the pod, so states that Kubernetes expresses as
// container-level reasons are lifted to the phase itself.
// +enum
type PodPhase string

const (
	// PodPending means the pod is accepted but not yet running: it may be
	// unscheduled, waiting on a dependency, or running init containers.
	PodPending PodPhase = "Pending"

	// PodRunning means the main container is running.
	PodRunning PodPhase = "Running"

	// PodSucceeded means a batch pod ran to completion. Terminal.
	PodSucceeded PodPhase = "Succeeded"

	// PodFailed means the pod was killed (OOM, node eviction).
	PodFailed PodPhase = "Failed"

	// PodTerminating means the pod is soft-deleted and awaiting collection.
	PodTerminating PodPhase = "Terminating"

	// PodCrashLoopBackOff means the container crashed and the pod is
	// sitting out its backoff window before the next restart attempt.
	PodCrashLoopBackOff PodPhase = "CrashLoopBackOff"
)

// Pod status reasons surfaced while a pod is held in Pending.
const (
	ReasonUnschedulable        = "Unschedulable"
	ReasonImagePull            = "ImagePullError"
	ReasonConfigError          = "CreateContainerConfigError"
	ReasonClaimPending         = "Pending"
	ReasonInitError            = "Init:Error"
	ReasonOOMKilled            = "OOMKilled"
	ReasonNodeNotReady         = "NodeNotReady"
	ReasonCrashLoopBackOff     = "CrashLoopBackOff"
	ReasonCompleted            = "Completed"
	ReasonLivenessProbeRestart = "Unhealthy"
)

// MaxCrashBackoffTicks caps the CrashLoopBackOff window. The real kubelet
// doubles up to five minutes; the simulator grows the window linearly with
// the restart count and caps it here.
const MaxCrashBackoffTicks = 4

// PodSpec is the desired state of a pod. Fault injection knobs (FailureMode,
// failing init containers) live here because the command layer owns them.
type PodSpec struct {
	// Image is the container image. Changing it clears an image pull
	// failure and re-hashes the owning workload's template.
	Image string `json:"image"`

	// NodeName is the node the pod is bound to; empty until scheduled.
	NodeName string `json:"nodeName,omitempty"`

	// Tolerations exempt the pod from matching node taints.
	Tolerations []corev1.Toleration `json:"tolerations,omitempty"`

	// InitContainers run sequentially before the main container starts.
	InitContainers []InitContainer `json:"initContainers,omitempty"`

	// StartupProbe holds ready=false and suspends the liveness probe until
	// FailureThreshold x PeriodTicks ticks after creation.
	StartupProbe *Probe `json:"startupProbe,omitempty"`

	// LivenessProbe restarts the pod after FailureThreshold consecutive
	// failing checks. A check fails while a failure mode is active.
	LivenessProbe *Probe `json:"livenessProbe,omitempty"`

	// ReadinessProbe gates the Ready flag by pod age vs InitialDelayTicks.
	ReadinessProbe *Probe `json:"readinessProbe,omitempty"`

	// CompletionTicks, when set, marks a batch pod: it transitions
	// Running -> Succeeded once it has run for this many ticks.
	CompletionTicks *int64 `json:"completionTicks,omitempty"`

	// ConfigMapName references a ConfigMap the pod needs before starting.
	ConfigMapName string `json:"configMapName,omitempty"`

	// SecretName references a Secret the pod needs before starting.
	SecretName string `json:"secretName,omitempty"`

	// ClaimName references a PersistentVolumeClaim that must be Bound
	// before the pod starts.
	ClaimName string `json:"claimName,omitempty"`

	// FailureMode is the injected fault, if any.
	FailureMode FailureMode `json:"failureMode,omitempty"`

	// CPUPercent is the CPU load the pod reports while Running; the
	// autoscaler averages it across a Deployment's pods.
	CPUPercent int32 `json:"cpuPercent,omitempty"`
}

// PodStatus is the observed state of a pod, written only by controllers.
type PodStatus struct {
	// Phase is the coarse lifecycle state.
	Phase PodPhase `json:"phase"`

	// Ready is the readiness gate result. nil means "not reported", which
	// endpoint selection treats as ready (only an explicit false excludes).
	Ready *bool `json:"ready,omitempty"`

	// Reason is a machine-readable hold/failure reason.
	Reason string `json:"reason,omitempty"`

	// Message is a human-readable elaboration of Reason.
	Message string `json:"message,omitempty"`

	// RestartCount counts crash and liveness restarts.
	RestartCount int32 `json:"restartCount,omitempty"`

	// StartedTick is the tick of the most recent Pending -> Running
	// transition.
	StartedTick int64 `json:"startedTick,omitempty"`

	// BackoffUntilTick is the first tick at which a crash-looping pod may
	// attempt its next restart.
	BackoffUntilTick int64 `json:"backoffUntilTick,omitempty"`

	// LivenessFailures counts consecutive failing liveness checks.
	LivenessFailures int32 `json:"livenessFailures,omitempty"`

	// InitIndex is the index of the init container currently running.
	InitIndex int32 `json:"initIndex,omitempty"`

	// InitStartedTick is the tick the current init container started.
	InitStartedTick int64 `json:"initStartedTick,omitempty"`

	// InitDone is set once every init container has completed.
	InitDone bool `json:"initDone,omitempty"`

	// CreatedTick is the tick the pod was created on; age calculations for
	// probes are relative to it.
	CreatedTick int64 `json:"createdTick,omitempty"`
}

// Pod is the smallest schedulable unit in the simulated cluster.
type Pod struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   PodSpec   `json:"spec"`
	Status PodStatus `json:"status,omitempty"`
}

// IsLive reports whether the pod still counts toward its owner's actual
// state: not soft-deleted.
func (p *Pod) IsLive() bool {
	return p.DeletionTimestamp == nil
}

// IsReady reports whether the pod serves traffic: Running and not explicitly
// marked unready.
func (p *Pod) IsReady() bool {
	return p.Status.Phase == PodRunning && (p.Status.Ready == nil || *p.Status.Ready)
}

// Age returns the number of ticks since the pod was created.
func (p *Pod) Age(tick int64) int64 {
	return tick - p.Status.CreatedTick
}

// Tolerates reports whether the pod tolerates the given taint.
func (p *Pod) Tolerates(taint *corev1.Taint) bool {
	for i := range p.Spec.Tolerations {
		if p.Spec.Tolerations[i].ToleratesTaint(taint) {
			return true
		}
	}
	return false
}
