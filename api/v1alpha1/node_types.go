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

// NodeSpec is the desired state of a Node. Taints reuse the corev1 taint
// model (NoSchedule, PreferNoSchedule, NoExecute) unchanged.
type NodeSpec struct {
	// Capacity is the maximum number of pods the node accepts. Zero means
	// the default of 10.
	Capacity int32 `json:"capacity,omitempty"`

	// Unschedulable cordons the node: existing pods keep running but the
	// scheduler places nothing new.
	Unschedulable bool `json:"unschedulable,omitempty"`

	// Taints repel pods that do not carry a matching toleration.
	Taints []corev1.Taint `json:"taints,omitempty"`
}

// EffectiveCapacity returns Capacity with the default of 10 applied.
func (s *NodeSpec) EffectiveCapacity() int32 {
	if s.Capacity <= 0 {
		return 10
	}
	return s.Capacity
}

// NodeStatus is the observed state of a Node. Ready is flipped by the
// external command layer to simulate node failure and recovery.
type NodeStatus struct {
	// Ready mirrors the node's Ready condition.
	Ready bool `json:"ready"`
}

// Node is a worker machine pods are bound to.
type Node struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   NodeSpec   `json:"spec,omitempty"`
	Status NodeStatus `json:"status,omitempty"`
}
