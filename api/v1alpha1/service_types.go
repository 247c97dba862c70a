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

// ServiceSpec is the desired state of a Service.
type ServiceSpec struct {
	// Selector matches the pods backing the service.
	Selector map[string]string `json:"selector,omitempty"`
}

// ServiceStatus is the observed state of a Service.
type ServiceStatus struct {
	// Endpoints is the sorted set of addresses of ready Running pods
	// matching the selector. Addresses are derived deterministically from
	// each pod's UID, so they are stable across ticks.
	Endpoints []string `json:"endpoints,omitempty"`
}

// Service exposes a label-selected set of pods as endpoint addresses.
type Service struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   ServiceSpec   `json:"spec"`
	Status ServiceStatus `json:"status,omitempty"`
}
