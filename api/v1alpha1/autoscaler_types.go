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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ScaleCooldownTicks is the minimum interval between two scaling actions of
// the same autoscaler. Without it every marginal metric change would rescale
// the target on every tick.
const ScaleCooldownTicks = 3

// HorizontalAutoscalerSpec is the desired state of a HorizontalAutoscaler.
type HorizontalAutoscalerSpec struct {
	// TargetDeployment names the Deployment whose replica count is driven.
	TargetDeployment string `json:"targetDeployment"`

	// MinReplicas is the lower clamp for the computed replica count.
	MinReplicas int32 `json:"minReplicas"`

	// MaxReplicas is the upper clamp for the computed replica count.
	MaxReplicas int32 `json:"maxReplicas"`

	// TargetCPUPercent is the per-pod average utilization to converge on.
	TargetCPUPercent int32 `json:"targetCPUPercent"`
}

// HorizontalAutoscalerStatus is the observed state of a HorizontalAutoscaler.
// LastScaleTick is an explicit typed field, not an attached side channel, so
// the cooldown survives state cloning like any other status.
type HorizontalAutoscalerStatus struct {
	// CurrentCPUPercent is the average utilization observed this tick.
	CurrentCPUPercent int32 `json:"currentCPUPercent"`

	// DesiredReplicas is the clamped replica count last computed.
	DesiredReplicas int32 `json:"desiredReplicas"`

	// LastScaleTick is the tick of the most recent scaling action; nil if
	// the autoscaler has never scaled.
	LastScaleTick *int64 `json:"lastScaleTick,omitempty"`
}

// HorizontalAutoscaler resizes a Deployment from observed CPU utilization.
type HorizontalAutoscaler struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   HorizontalAutoscalerSpec   `json:"spec"`
	Status HorizontalAutoscalerStatus `json:"status,omitempty"`
}
