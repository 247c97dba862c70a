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

// Package v1alpha1 defines the resource types held by the simulated cluster.
//
// Every resource embeds metav1.ObjectMeta, so identity metadata (UID, Name,
// Labels, OwnerReferences, CreationTimestamp, DeletionTimestamp) has the same
// shape as a real Kubernetes object. Owner references form a forest:
//
//	Deployment
//	└── ReplicaSet
//	    └── Pod
//	StatefulSet / DaemonSet / Job ── Pod
//	CronJob ── Job
//
// The forest is what drives cascading deletion and self-healing: a controller
// that finds an owned child missing recreates it, and the garbage collector
// removes a soft-deleted parent only once its dependents are gone.
//
// All time-like fields are denominated in ticks, the simulator's logical
// clock. Wall-clock timestamps (metav1.Time) are derived deterministically
// from the tick by pkg/clock, never read from the host clock.
//
// # Resource Hierarchy
//
// User-facing resources (created by the command layer): Deployment,
// StatefulSet, DaemonSet, Job, CronJob, Node, Service, HorizontalAutoscaler,
// PersistentVolume, PersistentVolumeClaim, StorageClass, ConfigMap, Secret,
// and standalone Pods.
//
// Controller-managed resources: ReplicaSets (created by Deployments), Pods
// (created by ReplicaSets, StatefulSets, DaemonSets and Jobs), Jobs (created
// by CronJobs), and dynamically provisioned PersistentVolumes.
//
// # Versioning
//
// This is the v1alpha1 version, indicating the API is in early development
// and may change in backward-incompatible ways.
package v1alpha1
