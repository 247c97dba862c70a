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
	"maps"
	"slices"

	corev1 "k8s.io/api/core/v1"
)

// Deep copies are written by hand rather than generated: the orchestrator
// clones the whole ClusterState before every pass, so these must copy every
// mutable collection, including the ones buried in corev1 types.

func copyTolerations(in []corev1.Toleration) []corev1.Toleration {
	if in == nil {
		return nil
	}
	out := make([]corev1.Toleration, len(in))
	for i := range in {
		in[i].DeepCopyInto(&out[i])
	}
	return out
}

func copyTaints(in []corev1.Taint) []corev1.Taint {
	if in == nil {
		return nil
	}
	out := make([]corev1.Taint, len(in))
	for i := range in {
		in[i].DeepCopyInto(&out[i])
	}
	return out
}

func copyProbe(in *Probe) *Probe {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func copyInt64(in *int64) *int64 {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func copyBool(in *bool) *bool {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// DeepCopyInto copies the spec into out.
func (in *PodSpec) DeepCopyInto(out *PodSpec) {
	*out = *in
	out.Tolerations = copyTolerations(in.Tolerations)
	out.InitContainers = slices.Clone(in.InitContainers)
	out.StartupProbe = copyProbe(in.StartupProbe)
	out.LivenessProbe = copyProbe(in.LivenessProbe)
	out.ReadinessProbe = copyProbe(in.ReadinessProbe)
	out.CompletionTicks = copyInt64(in.CompletionTicks)
}

// DeepCopyInto copies the template into out.
func (in *PodTemplateSpec) DeepCopyInto(out *PodTemplateSpec) {
	out.Labels = maps.Clone(in.Labels)
	in.Spec.DeepCopyInto(&out.Spec)
}

// DeepCopy returns a full copy of the pod.
func (in *Pod) DeepCopy() *Pod {
	out := &Pod{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	in.Spec.DeepCopyInto(&out.Spec)
	out.Status = in.Status
	out.Status.Ready = copyBool(in.Status.Ready)
	return out
}

// DeepCopy returns a full copy of the ReplicaSet.
func (in *ReplicaSet) DeepCopy() *ReplicaSet {
	out := &ReplicaSet{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec.Replicas = in.Spec.Replicas
	out.Spec.Selector = maps.Clone(in.Spec.Selector)
	in.Spec.Template.DeepCopyInto(&out.Spec.Template)
	out.Status = in.Status
	return out
}

// DeepCopy returns a full copy of the Deployment.
func (in *Deployment) DeepCopy() *Deployment {
	out := &Deployment{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec = in.Spec
	out.Spec.Selector = maps.Clone(in.Spec.Selector)
	in.Spec.Template.DeepCopyInto(&out.Spec.Template)
	out.Status = in.Status
	return out
}

// DeepCopy returns a full copy of the StatefulSet.
func (in *StatefulSet) DeepCopy() *StatefulSet {
	out := &StatefulSet{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec.Replicas = in.Spec.Replicas
	out.Spec.Selector = maps.Clone(in.Spec.Selector)
	in.Spec.Template.DeepCopyInto(&out.Spec.Template)
	out.Status = in.Status
	return out
}

// DeepCopy returns a full copy of the DaemonSet.
func (in *DaemonSet) DeepCopy() *DaemonSet {
	out := &DaemonSet{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec.Selector = maps.Clone(in.Spec.Selector)
	in.Spec.Template.DeepCopyInto(&out.Spec.Template)
	out.Status = in.Status
	return out
}

func (in *JobSpec) deepCopyInto(out *JobSpec) {
	*out = *in
	in.Template.DeepCopyInto(&out.Template)
}

// DeepCopy returns a full copy of the Job.
func (in *Job) DeepCopy() *Job {
	out := &Job{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	in.Spec.deepCopyInto(&out.Spec)
	out.Status = in.Status
	out.Status.CompletionTick = copyInt64(in.Status.CompletionTick)
	return out
}

// DeepCopy returns a full copy of the CronJob.
func (in *CronJob) DeepCopy() *CronJob {
	out := &CronJob{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec.Schedule = in.Spec.Schedule
	in.Spec.JobTemplate.deepCopyInto(&out.Spec.JobTemplate)
	out.Status = in.Status
	out.Status.LastScheduleTick = copyInt64(in.Status.LastScheduleTick)
	return out
}

// DeepCopy returns a full copy of the autoscaler.
func (in *HorizontalAutoscaler) DeepCopy() *HorizontalAutoscaler {
	out := &HorizontalAutoscaler{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec = in.Spec
	out.Status = in.Status
	out.Status.LastScaleTick = copyInt64(in.Status.LastScaleTick)
	return out
}

// DeepCopy returns a full copy of the node.
func (in *Node) DeepCopy() *Node {
	out := &Node{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec = in.Spec
	out.Spec.Taints = copyTaints(in.Spec.Taints)
	out.Status = in.Status
	return out
}

// DeepCopy returns a full copy of the service.
func (in *Service) DeepCopy() *Service {
	out := &Service{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec.Selector = maps.Clone(in.Spec.Selector)
	out.Status.Endpoints = slices.Clone(in.Status.Endpoints)
	return out
}

// DeepCopy returns a full copy of the volume.
func (in *PersistentVolume) DeepCopy() *PersistentVolume {
	out := &PersistentVolume{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec = in.Spec
	out.Status = in.Status
	return out
}

// DeepCopy returns a full copy of the claim.
func (in *PersistentVolumeClaim) DeepCopy() *PersistentVolumeClaim {
	out := &PersistentVolumeClaim{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.Spec = in.Spec
	out.Status = in.Status
	return out
}

// DeepCopy returns a full copy of the storage class.
func (in *StorageClass) DeepCopy() *StorageClass {
	out := &StorageClass{ObjectMeta: *in.ObjectMeta.DeepCopy()}
	out.ReclaimPolicy = in.ReclaimPolicy
	return out
}

// DeepCopy returns a full copy of the ConfigMap.
func (in *ConfigMap) DeepCopy() *ConfigMap {
	return &ConfigMap{
		ObjectMeta: *in.ObjectMeta.DeepCopy(),
		Data:       maps.Clone(in.Data),
	}
}

// DeepCopy returns a full copy of the Secret.
func (in *Secret) DeepCopy() *Secret {
	return &Secret{
		ObjectMeta: *in.ObjectMeta.DeepCopy(),
		Data:       maps.Clone(in.Data),
	}
}

// DeepCopy clones the entire snapshot. The orchestrator calls this once per
// tick before the pipeline runs; a partial pass can therefore never corrupt
// the previous snapshot.
func (in *ClusterState) DeepCopy() *ClusterState {
	out := &ClusterState{
		Tick:               in.Tick,
		AwaitingPrediction: in.AwaitingPrediction,
	}
	out.Pods = deepCopySlice(in.Pods, (*Pod).DeepCopy)
	out.ReplicaSets = deepCopySlice(in.ReplicaSets, (*ReplicaSet).DeepCopy)
	out.Deployments = deepCopySlice(in.Deployments, (*Deployment).DeepCopy)
	out.StatefulSets = deepCopySlice(in.StatefulSets, (*StatefulSet).DeepCopy)
	out.DaemonSets = deepCopySlice(in.DaemonSets, (*DaemonSet).DeepCopy)
	out.Jobs = deepCopySlice(in.Jobs, (*Job).DeepCopy)
	out.CronJobs = deepCopySlice(in.CronJobs, (*CronJob).DeepCopy)
	out.Nodes = deepCopySlice(in.Nodes, (*Node).DeepCopy)
	out.Services = deepCopySlice(in.Services, (*Service).DeepCopy)
	out.Autoscalers = deepCopySlice(in.Autoscalers, (*HorizontalAutoscaler).DeepCopy)
	out.Volumes = deepCopySlice(in.Volumes, (*PersistentVolume).DeepCopy)
	out.Claims = deepCopySlice(in.Claims, (*PersistentVolumeClaim).DeepCopy)
	out.StorageClasses = deepCopySlice(in.StorageClasses, (*StorageClass).DeepCopy)
	out.ConfigMaps = deepCopySlice(in.ConfigMaps, (*ConfigMap).DeepCopy)
	out.Secrets = deepCopySlice(in.Secrets, (*Secret).DeepCopy)
	return out
}

func deepCopySlice[T any](in []T, copyFn func(*T) *T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i := range in {
		out[i] = *copyFn(&in[i])
	}
	return out
}
