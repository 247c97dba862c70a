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
)

// GroupVersion identifies the API group all simulator resources belong to.
// It is recorded in owner references so lookups stay self-describing.
const GroupVersion = "clustersim.dev/v1alpha1"

// Resource kind names, as recorded in owner references and events.
const (
	KindPod                   = "Pod"
	KindReplicaSet            = "ReplicaSet"
	KindDeployment            = "Deployment"
	KindStatefulSet           = "StatefulSet"
	KindDaemonSet             = "DaemonSet"
	KindJob                   = "Job"
	KindCronJob               = "CronJob"
	KindNode                  = "Node"
	KindService               = "Service"
	KindHorizontalAutoscaler  = "HorizontalAutoscaler"
	KindPersistentVolume      = "PersistentVolume"
	KindPersistentVolumeClaim = "PersistentVolumeClaim"
	KindStorageClass          = "StorageClass"
	KindConfigMap             = "ConfigMap"
	KindSecret                = "Secret"
)

// LabelPodTemplateHash is carried by every ReplicaSet selector and pod
// template so that successive rollout generations of the same Deployment are
// distinguishable.
const LabelPodTemplateHash = "pod-template-hash"

// FailureMode is an injected fault on a pod. Modes are set by the external
// command layer and observed by the pod lifecycle controller; the controllers
// themselves never set one.
// +enum
type FailureMode string

const (
	// FailureNone means the pod runs normally.
	FailureNone FailureMode = ""

	// FailureImagePull keeps the pod Pending until the image is changed.
	FailureImagePull FailureMode = "ImagePullError"

	// FailureCrashLoop crashes the container on its first Running tick,
	// entering CrashLoopBackOff with a bounded backoff window.
	FailureCrashLoop FailureMode = "CrashLoopBackOff"

	// FailureOOMKilled kills the pod one tick after it starts Running.
	FailureOOMKilled FailureMode = "OOMKilled"
)

// Probe is a tick-denominated health probe. The simulator treats one tick as
// one second, so the fields mirror the real probe fields they stand for.
type Probe struct {
	// InitialDelayTicks is the pod age before the probe starts reporting.
	InitialDelayTicks int64 `json:"initialDelayTicks,omitempty"`

	// PeriodTicks is the interval between probe checks.
	PeriodTicks int64 `json:"periodTicks,omitempty"`

	// FailureThreshold is the number of consecutive failures tolerated
	// before the probe's consequence (restart, not-ready) applies.
	FailureThreshold int32 `json:"failureThreshold,omitempty"`
}

// EffectivePeriod returns the probe period, defaulting to 1 tick.
func (p *Probe) EffectivePeriod() int64 {
	if p.PeriodTicks <= 0 {
		return 1
	}
	return p.PeriodTicks
}

// EffectiveFailureThreshold returns the failure threshold, defaulting to 3.
func (p *Probe) EffectiveFailureThreshold() int32 {
	if p.FailureThreshold <= 0 {
		return 3
	}
	return p.FailureThreshold
}

// InitContainer runs to completion before the main container may start.
// Init containers execute strictly sequentially in declaration order.
type InitContainer struct {
	// Name identifies the init container in status reasons.
	Name string `json:"name"`

	// Image is informational only.
	Image string `json:"image,omitempty"`

	// RunTicks is how many ticks the init container takes to complete.
	RunTicks int64 `json:"runTicks,omitempty"`

	// Fail marks the init container as permanently failing; the pod halts
	// with reason Init:Error when it is reached.
	Fail bool `json:"fail,omitempty"`
}

// PodTemplateSpec is the template a workload controller stamps out pods from.
type PodTemplateSpec struct {
	// Labels are applied to every pod created from the template.
	Labels map[string]string `json:"labels,omitempty"`

	// Spec is the pod spec to copy.
	Spec PodSpec `json:"spec"`
}

// Tolerates reports whether the template tolerates the given taint, using
// the corev1 toleration matching rules (empty key matches everything, empty
// effect matches all effects).
func (t *PodTemplateSpec) Tolerates(taint *corev1.Taint) bool {
	for i := range t.Spec.Tolerations {
		if t.Spec.Tolerations[i].ToleratesTaint(taint) {
			return true
		}
	}
	return false
}
