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

// VolumePhase is the lifecycle state of a PersistentVolume.
// +enum
type VolumePhase string

const (
	// VolumeAvailable means the volume is unbound and claimable.
	VolumeAvailable VolumePhase = "Available"

	// VolumeBound means the volume is bound to a claim.
	VolumeBound VolumePhase = "Bound"

	// VolumeReleased means the bound claim was deleted and the volume is
	// retained per its reclaim policy.
	VolumeReleased VolumePhase = "Released"
)

// ClaimPhase is the lifecycle state of a PersistentVolumeClaim.
// +enum
type ClaimPhase string

const (
	// ClaimPending means no volume has been bound yet.
	ClaimPending ClaimPhase = "Pending"

	// ClaimBound means the claim is bound to a volume.
	ClaimBound ClaimPhase = "Bound"
)

// ReclaimPolicy decides what happens to a volume when its claim goes away.
// +enum
type ReclaimPolicy string

const (
	// ReclaimDelete removes the volume with the claim.
	ReclaimDelete ReclaimPolicy = "Delete"

	// ReclaimRetain keeps the volume around in phase Released.
	ReclaimRetain ReclaimPolicy = "Retain"
)

// PersistentVolumeSpec is the desired state of a PersistentVolume.
type PersistentVolumeSpec struct {
	// Capacity is informational, e.g. "10Gi".
	Capacity string `json:"capacity,omitempty"`

	// StorageClassName is the class claims must match to bind.
	StorageClassName string `json:"storageClassName,omitempty"`
}

// PersistentVolumeStatus is the observed state of a PersistentVolume.
type PersistentVolumeStatus struct {
	// Phase is Available, Bound or Released.
	Phase VolumePhase `json:"phase"`

	// ClaimRef names the bound claim, empty while Available.
	ClaimRef string `json:"claimRef,omitempty"`
}

// PersistentVolume is a storage resource claims bind to.
type PersistentVolume struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   PersistentVolumeSpec   `json:"spec"`
	Status PersistentVolumeStatus `json:"status,omitempty"`
}

// PersistentVolumeClaimSpec is the desired state of a claim.
type PersistentVolumeClaimSpec struct {
	// StorageClassName selects which volumes (or provisioner) satisfy the
	// claim.
	StorageClassName string `json:"storageClassName,omitempty"`

	// Request is the requested size, informational, e.g. "5Gi".
	Request string `json:"request,omitempty"`
}

// PersistentVolumeClaimStatus is the observed state of a claim.
type PersistentVolumeClaimStatus struct {
	// Phase is Pending until a volume binds.
	Phase ClaimPhase `json:"phase"`

	// VolumeName names the bound volume.
	VolumeName string `json:"volumeName,omitempty"`
}

// PersistentVolumeClaim is a request for storage; pods referencing an
// unbound claim are held in Pending.
type PersistentVolumeClaim struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   PersistentVolumeClaimSpec   `json:"spec"`
	Status PersistentVolumeClaimStatus `json:"status,omitempty"`
}

// StorageClass describes a provisionable class of storage. A Pending claim
// naming a known class is satisfied by dynamically provisioning a volume.
type StorageClass struct {
	metav1.ObjectMeta `json:"metadata"`

	// ReclaimPolicy applies to volumes of this class whose claim is
	// deleted. Empty means Retain.
	ReclaimPolicy ReclaimPolicy `json:"reclaimPolicy,omitempty"`
}

// EffectiveReclaimPolicy returns the reclaim policy, defaulting to Retain.
func (sc *StorageClass) EffectiveReclaimPolicy() ReclaimPolicy {
	if sc.ReclaimPolicy == "" {
		return ReclaimRetain
	}
	return sc.ReclaimPolicy
}
