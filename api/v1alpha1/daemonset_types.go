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

// DaemonSetSpec is the desired state of a DaemonSet.
type DaemonSetSpec struct {
	// Selector matches the set's pods.
	Selector map[string]string `json:"selector,omitempty"`

	// Template is stamped onto one pod per eligible node. Eligibility is
	// recomputed every tick: the node must be Ready and its NoSchedule /
	// NoExecute taints tolerated by the template.
	Template PodTemplateSpec `json:"template"`
}

// DaemonSetStatus is the observed state of a DaemonSet.
type DaemonSetStatus struct {
	// DesiredScheduled is the count of currently eligible nodes.
	DesiredScheduled int32 `json:"desiredScheduled"`

	// CurrentScheduled is the count of live owned pods.
	CurrentScheduled int32 `json:"currentScheduled"`

	// ReadyReplicas is the count of live owned ready pods.
	ReadyReplicas int32 `json:"readyReplicas"`
}

// DaemonSet keeps exactly one pod on every eligible node.
type DaemonSet struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   DaemonSetSpec   `json:"spec"`
	Status DaemonSetStatus `json:"status,omitempty"`
}
