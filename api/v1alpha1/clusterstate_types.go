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
	"k8s.io/apimachinery/pkg/types"
)

// ClusterState is the complete snapshot of the simulated cluster. The tick
// orchestrator is its only writer: it deep-copies the previous snapshot, runs
// the controller pipeline over the copy, and returns it. Nothing else holds a
// reference between ticks, so no locking exists anywhere in the core.
type ClusterState struct {
	// Tick is the logical clock, incremented once per completed pass.
	Tick int64 `json:"tick"`

	Pods         []Pod         `json:"pods,omitempty"`
	ReplicaSets  []ReplicaSet  `json:"replicaSets,omitempty"`
	Deployments  []Deployment  `json:"deployments,omitempty"`
	StatefulSets []StatefulSet `json:"statefulSets,omitempty"`
	DaemonSets   []DaemonSet   `json:"daemonSets,omitempty"`
	Jobs         []Job         `json:"jobs,omitempty"`
	CronJobs     []CronJob     `json:"cronJobs,omitempty"`

	Nodes       []Node                 `json:"nodes,omitempty"`
	Services    []Service              `json:"services,omitempty"`
	Autoscalers []HorizontalAutoscaler `json:"autoscalers,omitempty"`

	Volumes        []PersistentVolume      `json:"volumes,omitempty"`
	Claims         []PersistentVolumeClaim `json:"claims,omitempty"`
	StorageClasses []StorageClass          `json:"storageClasses,omitempty"`

	ConfigMaps []ConfigMap `json:"configMaps,omitempty"`
	Secrets    []Secret    `json:"secrets,omitempty"`

	// AwaitingPrediction suspends ticking: while set, Tick performs no
	// mutation and returns the state unchanged. It is flipped by the
	// external lesson layer, never by a controller.
	AwaitingPrediction bool `json:"awaitingPrediction,omitempty"`
}

// Lookup helpers. They return pointers into the state's own slices, so they
// are valid only until the slice is appended to; controllers collect new
// objects locally and append after iteration.

// PodByName returns the pod with the given name, soft-deleted or not.
func (s *ClusterState) PodByName(name string) *Pod {
	for i := range s.Pods {
		if s.Pods[i].Name == name {
			return &s.Pods[i]
		}
	}
	return nil
}

// PodsOwnedBy returns every pod whose owner reference carries the given UID.
func (s *ClusterState) PodsOwnedBy(uid types.UID) []*Pod {
	var out []*Pod
	for i := range s.Pods {
		if ownedBy(s.Pods[i].OwnerReferences, uid) {
			out = append(out, &s.Pods[i])
		}
	}
	return out
}

// LivePodsOwnedBy returns the owned pods that are not soft-deleted.
func (s *ClusterState) LivePodsOwnedBy(uid types.UID) []*Pod {
	var out []*Pod
	for i := range s.Pods {
		if s.Pods[i].DeletionTimestamp == nil && ownedBy(s.Pods[i].OwnerReferences, uid) {
			out = append(out, &s.Pods[i])
		}
	}
	return out
}

// LivePodsOnNode returns the non-deleted pods bound to the named node.
func (s *ClusterState) LivePodsOnNode(node string) []*Pod {
	var out []*Pod
	for i := range s.Pods {
		if s.Pods[i].DeletionTimestamp == nil && s.Pods[i].Spec.NodeName == node {
			out = append(out, &s.Pods[i])
		}
	}
	return out
}

// ReplicaSetsOwnedBy returns every ReplicaSet owned by the given UID.
func (s *ClusterState) ReplicaSetsOwnedBy(uid types.UID) []*ReplicaSet {
	var out []*ReplicaSet
	for i := range s.ReplicaSets {
		if ownedBy(s.ReplicaSets[i].OwnerReferences, uid) {
			out = append(out, &s.ReplicaSets[i])
		}
	}
	return out
}

// JobsOwnedBy returns every Job owned by the given UID.
func (s *ClusterState) JobsOwnedBy(uid types.UID) []*Job {
	var out []*Job
	for i := range s.Jobs {
		if ownedBy(s.Jobs[i].OwnerReferences, uid) {
			out = append(out, &s.Jobs[i])
		}
	}
	return out
}

// NodeByName returns the named node, or nil.
func (s *ClusterState) NodeByName(name string) *Node {
	for i := range s.Nodes {
		if s.Nodes[i].Name == name {
			return &s.Nodes[i]
		}
	}
	return nil
}

// DeploymentByName returns the named deployment, or nil.
func (s *ClusterState) DeploymentByName(name string) *Deployment {
	for i := range s.Deployments {
		if s.Deployments[i].Name == name {
			return &s.Deployments[i]
		}
	}
	return nil
}

// VolumeByName returns the named persistent volume, or nil.
func (s *ClusterState) VolumeByName(name string) *PersistentVolume {
	for i := range s.Volumes {
		if s.Volumes[i].Name == name {
			return &s.Volumes[i]
		}
	}
	return nil
}

// ClaimByName returns the named claim, or nil.
func (s *ClusterState) ClaimByName(name string) *PersistentVolumeClaim {
	for i := range s.Claims {
		if s.Claims[i].Name == name {
			return &s.Claims[i]
		}
	}
	return nil
}

// StorageClassByName returns the named storage class, or nil.
func (s *ClusterState) StorageClassByName(name string) *StorageClass {
	for i := range s.StorageClasses {
		if s.StorageClasses[i].Name == name {
			return &s.StorageClasses[i]
		}
	}
	return nil
}

// ConfigMapByName returns the named ConfigMap, or nil.
func (s *ClusterState) ConfigMapByName(name string) *ConfigMap {
	for i := range s.ConfigMaps {
		if s.ConfigMaps[i].Name == name {
			return &s.ConfigMaps[i]
		}
	}
	return nil
}

// SecretByName returns the named Secret, or nil.
func (s *ClusterState) SecretByName(name string) *Secret {
	for i := range s.Secrets {
		if s.Secrets[i].Name == name {
			return &s.Secrets[i]
		}
	}
	return nil
}

func ownedBy(refs []metav1.OwnerReference, uid types.UID) bool {
	for i := range refs {
		if refs[i].UID == uid {
			return true
		}
	}
	return false
}
