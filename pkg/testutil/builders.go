package testutil

import (
	"fmt"

	"github.com/google/uuid"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// UID derives a stable identifier from kind and name, so tests can reference
// a resource's UID without plumbing it around.
func UID(kind, name string) types.UID {
	return types.UID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+"/"+name)).String())
}

func meta(kind, name string, labels map[string]string) metav1.ObjectMeta {
	return metav1.ObjectMeta{Name: name, UID: UID(kind, name), Labels: labels}
}

// AppLabels is the default selector/label set builders stamp on workloads.
func AppLabels(name string) map[string]string {
	return map[string]string{"app": name}
}

// Node builds a Ready node with default capacity.
func Node(name string, opts ...func(*simv1alpha1.Node)) simv1alpha1.Node {
	n := simv1alpha1.Node{
		ObjectMeta: meta(simv1alpha1.KindNode, name, nil),
		Status:     simv1alpha1.NodeStatus{Ready: true},
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// NotReady marks the node as failed.
func NotReady() func(*simv1alpha1.Node) {
	return func(n *simv1alpha1.Node) { n.Status.Ready = false }
}

// Cordoned marks the node unschedulable.
func Cordoned() func(*simv1alpha1.Node) {
	return func(n *simv1alpha1.Node) { n.Spec.Unschedulable = true }
}

// Capacity sets the node's pod capacity.
func Capacity(pods int32) func(*simv1alpha1.Node) {
	return func(n *simv1alpha1.Node) { n.Spec.Capacity = pods }
}

// Tainted adds a taint to the node.
func Tainted(key, value string, effect corev1.TaintEffect) func(*simv1alpha1.Node) {
	return func(n *simv1alpha1.Node) {
		n.Spec.Taints = append(n.Spec.Taints, corev1.Taint{Key: key, Value: value, Effect: effect})
	}
}

// Deployment builds a deployment whose selector and template labels are
// AppLabels(name).
func Deployment(name string, replicas int32, image string, opts ...func(*simv1alpha1.Deployment)) simv1alpha1.Deployment {
	d := simv1alpha1.Deployment{
		ObjectMeta: meta(simv1alpha1.KindDeployment, name, nil),
		Spec: simv1alpha1.DeploymentSpec{
			Replicas: replicas,
			Selector: AppLabels(name),
			Template: PodTemplate(image, AppLabels(name)),
		},
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Recreate switches the deployment to the Recreate strategy.
func Recreate() func(*simv1alpha1.Deployment) {
	return func(d *simv1alpha1.Deployment) { d.Spec.Strategy = simv1alpha1.RecreateStrategy }
}

// Surge sets maxSurge and maxUnavailable for a rolling update.
func Surge(maxSurge, maxUnavailable int32) func(*simv1alpha1.Deployment) {
	return func(d *simv1alpha1.Deployment) {
		d.Spec.MaxSurge = maxSurge
		d.Spec.MaxUnavailable = maxUnavailable
	}
}

// PodCPU sets the CPU metric every pod of the deployment reports.
func PodCPU(percent int32) func(*simv1alpha1.Deployment) {
	return func(d *simv1alpha1.Deployment) { d.Spec.Template.Spec.CPUPercent = percent }
}

// Pod builds a bare Pending pod bound to the given node. An empty node
// leaves the pod for the scheduler.
func Pod(name, image, node string, opts ...func(*simv1alpha1.Pod)) simv1alpha1.Pod {
	p := simv1alpha1.Pod{
		ObjectMeta: meta(simv1alpha1.KindPod, name, AppLabels(name)),
		Spec:       simv1alpha1.PodSpec{Image: image, NodeName: node},
		Status:     simv1alpha1.PodStatus{Phase: simv1alpha1.PodPending},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Failing sets the pod's failure mode.
func Failing(mode simv1alpha1.FailureMode) func(*simv1alpha1.Pod) {
	return func(p *simv1alpha1.Pod) { p.Spec.FailureMode = mode }
}

// Needing makes the pod depend on the named config map, secret and claim.
// Empty names are skipped.
func Needing(configMap, secret, claim string) func(*simv1alpha1.Pod) {
	return func(p *simv1alpha1.Pod) {
		p.Spec.ConfigMapName = configMap
		p.Spec.SecretName = secret
		p.Spec.ClaimName = claim
	}
}

// Tolerating adds a toleration matching the given taint key.
func Tolerating(key string) func(*simv1alpha1.Pod) {
	return func(p *simv1alpha1.Pod) {
		p.Spec.Tolerations = append(p.Spec.Tolerations, corev1.Toleration{
			Key:      key,
			Operator: corev1.TolerationOpExists,
		})
	}
}

// WithInit prepends init containers to the pod.
func WithInit(containers ...simv1alpha1.InitContainer) func(*simv1alpha1.Pod) {
	return func(p *simv1alpha1.Pod) { p.Spec.InitContainers = containers }
}

// StatefulSet builds a stateful set with AppLabels(name).
func StatefulSet(name string, replicas int32, image string) simv1alpha1.StatefulSet {
	return simv1alpha1.StatefulSet{
		ObjectMeta: meta(simv1alpha1.KindStatefulSet, name, nil),
		Spec: simv1alpha1.StatefulSetSpec{
			Replicas: replicas,
			Selector: AppLabels(name),
			Template: PodTemplate(image, AppLabels(name)),
		},
	}
}

// DaemonSet builds a daemon set with AppLabels(name).
func DaemonSet(name, image string, tolerations ...corev1.Toleration) simv1alpha1.DaemonSet {
	tmpl := PodTemplate(image, AppLabels(name))
	tmpl.Spec.Tolerations = tolerations
	return simv1alpha1.DaemonSet{
		ObjectMeta: meta(simv1alpha1.KindDaemonSet, name, nil),
		Spec: simv1alpha1.DaemonSetSpec{
			Selector: AppLabels(name),
			Template: tmpl,
		},
	}
}

// Job builds a job whose pods complete after completionTicks.
func Job(name string, parallelism, completions int32, completionTicks int64, opts ...func(*simv1alpha1.Job)) simv1alpha1.Job {
	tmpl := PodTemplate(fmt.Sprintf("%s:batch", name), AppLabels(name))
	tmpl.Spec.CompletionTicks = &completionTicks
	j := simv1alpha1.Job{
		ObjectMeta: meta(simv1alpha1.KindJob, name, nil),
		Spec: simv1alpha1.JobSpec{
			Parallelism: parallelism,
			Completions: completions,
			Template:    tmpl,
		},
	}
	for _, opt := range opts {
		opt(&j)
	}
	return j
}

// BackoffLimit sets the job's tolerated pod failures.
func BackoffLimit(limit int32) func(*simv1alpha1.Job) {
	return func(j *simv1alpha1.Job) { j.Spec.BackoffLimit = limit }
}

// FailingJobPods makes every job pod fail with the given mode.
func FailingJobPods(mode simv1alpha1.FailureMode) func(*simv1alpha1.Job) {
	return func(j *simv1alpha1.Job) { j.Spec.Template.Spec.FailureMode = mode }
}

// CronJob builds a cron job whose jobs run pods for completionTicks.
func CronJob(name, schedule string, completionTicks int64) simv1alpha1.CronJob {
	tmpl := PodTemplate(fmt.Sprintf("%s:batch", name), AppLabels(name))
	tmpl.Spec.CompletionTicks = &completionTicks
	return simv1alpha1.CronJob{
		ObjectMeta: meta(simv1alpha1.KindCronJob, name, nil),
		Spec: simv1alpha1.CronJobSpec{
			Schedule:    schedule,
			JobTemplate: simv1alpha1.JobSpec{Template: tmpl},
		},
	}
}

// Service builds a service selecting the given labels.
func Service(name string, selector map[string]string) simv1alpha1.Service {
	return simv1alpha1.Service{
		ObjectMeta: meta(simv1alpha1.KindService, name, nil),
		Spec:       simv1alpha1.ServiceSpec{Selector: selector},
	}
}

// Autoscaler builds a horizontal autoscaler driving the named deployment.
func Autoscaler(name, target string, minReplicas, maxReplicas, targetCPU int32) simv1alpha1.HorizontalAutoscaler {
	return simv1alpha1.HorizontalAutoscaler{
		ObjectMeta: meta(simv1alpha1.KindHorizontalAutoscaler, name, nil),
		Spec: simv1alpha1.HorizontalAutoscalerSpec{
			TargetDeployment: target,
			MinReplicas:      minReplicas,
			MaxReplicas:      maxReplicas,
			TargetCPUPercent: targetCPU,
		},
	}
}

// StorageClass builds a storage class with the given reclaim policy.
func StorageClass(name string, policy simv1alpha1.ReclaimPolicy) simv1alpha1.StorageClass {
	return simv1alpha1.StorageClass{
		ObjectMeta:    meta(simv1alpha1.KindStorageClass, name, nil),
		ReclaimPolicy: policy,
	}
}

// Volume builds an Available persistent volume of the given class.
func Volume(name, class string) simv1alpha1.PersistentVolume {
	return simv1alpha1.PersistentVolume{
		ObjectMeta: meta(simv1alpha1.KindPersistentVolume, name, nil),
		Spec:       simv1alpha1.PersistentVolumeSpec{Capacity: "10Gi", StorageClassName: class},
		Status:     simv1alpha1.PersistentVolumeStatus{Phase: simv1alpha1.VolumeAvailable},
	}
}

// Claim builds a Pending persistent volume claim of the given class.
func Claim(name, class string) simv1alpha1.PersistentVolumeClaim {
	return simv1alpha1.PersistentVolumeClaim{
		ObjectMeta: meta(simv1alpha1.KindPersistentVolumeClaim, name, nil),
		Spec:       simv1alpha1.PersistentVolumeClaimSpec{Request: "5Gi", StorageClassName: class},
		Status:     simv1alpha1.PersistentVolumeClaimStatus{Phase: simv1alpha1.ClaimPending},
	}
}

// ConfigMap builds a config map with one key.
func ConfigMap(name string) simv1alpha1.ConfigMap {
	return simv1alpha1.ConfigMap{
		ObjectMeta: meta(simv1alpha1.KindConfigMap, name, nil),
		Data:       map[string]string{"key": "value"},
	}
}

// Secret builds a secret with one key.
func Secret(name string) simv1alpha1.Secret {
	return simv1alpha1.Secret{
		ObjectMeta: meta(simv1alpha1.KindSecret, name, nil),
		Data:       map[string]string{"token": "opaque"},
	}
}

// PodTemplate builds a pod template with the given image and labels.
func PodTemplate(image string, labels map[string]string) simv1alpha1.PodTemplateSpec {
	return simv1alpha1.PodTemplateSpec{
		Labels: labels,
		Spec:   simv1alpha1.PodSpec{Image: image},
	}
}

// State assembles resources into a tick-zero ClusterState. Unknown types
// panic: a test passing the wrong value is a programming error.
func State(objs ...any) *simv1alpha1.ClusterState {
	st := &simv1alpha1.ClusterState{}
	for _, obj := range objs {
		switch o := obj.(type) {
		case simv1alpha1.Node:
			st.Nodes = append(st.Nodes, o)
		case simv1alpha1.Pod:
			st.Pods = append(st.Pods, o)
		case simv1alpha1.ReplicaSet:
			st.ReplicaSets = append(st.ReplicaSets, o)
		case simv1alpha1.Deployment:
			st.Deployments = append(st.Deployments, o)
		case simv1alpha1.StatefulSet:
			st.StatefulSets = append(st.StatefulSets, o)
		case simv1alpha1.DaemonSet:
			st.DaemonSets = append(st.DaemonSets, o)
		case simv1alpha1.Job:
			st.Jobs = append(st.Jobs, o)
		case simv1alpha1.CronJob:
			st.CronJobs = append(st.CronJobs, o)
		case simv1alpha1.Service:
			st.Services = append(st.Services, o)
		case simv1alpha1.HorizontalAutoscaler:
			st.Autoscalers = append(st.Autoscalers, o)
		case simv1alpha1.PersistentVolume:
			st.Volumes = append(st.Volumes, o)
		case simv1alpha1.PersistentVolumeClaim:
			st.Claims = append(st.Claims, o)
		case simv1alpha1.StorageClass:
			st.StorageClasses = append(st.StorageClasses, o)
		case simv1alpha1.ConfigMap:
			st.ConfigMaps = append(st.ConfigMaps, o)
		case simv1alpha1.Secret:
			st.Secrets = append(st.Secrets, o)
		default:
			panic(fmt.Sprintf("testutil: unsupported resource type %T", obj))
		}
	}
	return st
}
