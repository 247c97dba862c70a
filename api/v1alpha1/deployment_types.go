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

// DeploymentStrategy selects how a Deployment replaces pods during a rollout.
// +enum
type DeploymentStrategy string

const (
	// RollingUpdateStrategy surges new pods in while draining old ones,
	// bounded by MaxSurge and MaxUnavailable per tick.
	RollingUpdateStrategy DeploymentStrategy = "RollingUpdate"

	// RecreateStrategy scales all old generations to zero before the new
	// generation scales up.
	RecreateStrategy DeploymentStrategy = "Recreate"
)

// DeploymentSpec is the desired state of a Deployment.
type DeploymentSpec struct {
	// Replicas is the desired pod count across the active generation.
	Replicas int32 `json:"replicas"`

	// Selector matches the Deployment's pods (without pod-template-hash).
	Selector map[string]string `json:"selector,omitempty"`

	// Template is the pod template of the current generation; hashing it
	// yields the active ReplicaSet's pod-template-hash.
	Template PodTemplateSpec `json:"template"`

	// Strategy defaults to RollingUpdate.
	Strategy DeploymentStrategy `json:"strategy,omitempty"`

	// MaxSurge is the per-tick scale-up step during a rolling update.
	// Zero means the default of 1.
	MaxSurge int32 `json:"maxSurge,omitempty"`

	// MaxUnavailable is the per-tick scale-down step for old generations
	// during a rolling update. Zero means the default of 1.
	MaxUnavailable int32 `json:"maxUnavailable,omitempty"`
}

// EffectiveStrategy returns the rollout strategy, defaulting to RollingUpdate.
func (s *DeploymentSpec) EffectiveStrategy() DeploymentStrategy {
	if s.Strategy == "" {
		return RollingUpdateStrategy
	}
	return s.Strategy
}

// EffectiveMaxSurge returns MaxSurge with the default of 1 applied.
func (s *DeploymentSpec) EffectiveMaxSurge() int32 {
	if s.MaxSurge <= 0 {
		return 1
	}
	return s.MaxSurge
}

// EffectiveMaxUnavailable returns MaxUnavailable with the default of 1 applied.
func (s *DeploymentSpec) EffectiveMaxUnavailable() int32 {
	if s.MaxUnavailable <= 0 {
		return 1
	}
	return s.MaxUnavailable
}

// DeploymentStatus aggregates pod counts across every generation the
// Deployment owns.
type DeploymentStatus struct {
	// Replicas is the number of live pods across all owned ReplicaSets.
	Replicas int32 `json:"replicas"`

	// UpdatedReplicas is the number of live pods in the active generation.
	UpdatedReplicas int32 `json:"updatedReplicas"`

	// ReadyReplicas is the number of live, ready pods.
	ReadyReplicas int32 `json:"readyReplicas"`

	// AvailableReplicas mirrors ReadyReplicas; the simulator has no
	// minReadySeconds distinction.
	AvailableReplicas int32 `json:"availableReplicas"`

	// Available is true once the rollout is complete: updated == desired,
	// no old pods remain, and ready == desired. A rising edge emits
	// RolloutComplete.
	Available bool `json:"available"`
}

// Deployment drives declarative rollouts over owned ReplicaSets.
type Deployment struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   DeploymentSpec   `json:"spec"`
	Status DeploymentStatus `json:"status,omitempty"`
}
