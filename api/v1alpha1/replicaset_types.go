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

// ReplicaSetSpec is the desired state of a ReplicaSet. Spec.Replicas has
// exactly one writer: the owning Deployment (or the command layer for a
// standalone ReplicaSet).
type ReplicaSetSpec struct {
	// Replicas is the desired pod count.
	Replicas int32 `json:"replicas"`

	// Selector matches the pods this ReplicaSet owns or may adopt. For
	// Deployment-owned sets it always includes pod-template-hash.
	Selector map[string]string `json:"selector,omitempty"`

	// Template is stamped onto every created pod.
	Template PodTemplateSpec `json:"template"`
}

// ReplicaSetStatus is the observed state of a ReplicaSet.
type ReplicaSetStatus struct {
	// Replicas is the number of live owned pods.
	Replicas int32 `json:"replicas"`

	// ReadyReplicas is the number of live owned pods that are Running and
	// not explicitly unready.
	ReadyReplicas int32 `json:"readyReplicas"`
}

// ReplicaSet keeps a fixed count of interchangeable pods alive.
type ReplicaSet struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   ReplicaSetSpec   `json:"spec"`
	Status ReplicaSetStatus `json:"status,omitempty"`
}

// TemplateHash returns the pod-template-hash label, identifying the rollout
// generation this ReplicaSet belongs to.
func (rs *ReplicaSet) TemplateHash() string {
	return rs.Labels[LabelPodTemplateHash]
}
