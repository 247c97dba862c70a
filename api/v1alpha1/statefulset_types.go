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

// StatefulSetSpec is the desired state of a StatefulSet.
type StatefulSetSpec struct {
	// Replicas is the desired number of ordinals [0, Replicas).
	Replicas int32 `json:"replicas"`

	// Selector matches the set's pods.
	Selector map[string]string `json:"selector,omitempty"`

	// Template is stamped onto every created pod; the pod name is the set
	// name suffixed with the ordinal.
	Template PodTemplateSpec `json:"template"`
}

// StatefulSetStatus is the observed state of a StatefulSet.
type StatefulSetStatus struct {
	// Replicas is the number of live owned pods.
	Replicas int32 `json:"replicas"`

	// ReadyReplicas is the number of live owned pods that are Running and
	// not explicitly unready.
	ReadyReplicas int32 `json:"readyReplicas"`
}

// StatefulSet keeps an ordered set of pods, one per ordinal. Ordinal k+1 is
// only created once ordinal k is Running, and scale-down removes the highest
// ordinal first.
type StatefulSet struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   StatefulSetSpec   `json:"spec"`
	Status StatefulSetStatus `json:"status,omitempty"`
}
