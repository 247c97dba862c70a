// Package scenario loads a TOML description of an initial cluster into a
// ClusterState ready for the orchestrator. A scenario lists the workloads,
// nodes, and supporting resources present at tick zero; everything derived
// (pods, replica sets, bindings) is created by the controllers themselves.
package scenario

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/idgen"
)

// Scenario is the decoded TOML document.
type Scenario struct {
	// Seed drives identifier generation for the whole run.
	Seed int64 `toml:"seed"`

	// Ticks is how many ticks the driver should advance. Zero means the
	// driver's default.
	Ticks int64 `toml:"ticks"`

	Nodes          []NodeConfig         `toml:"node"`
	Deployments    []DeploymentConfig   `toml:"deployment"`
	StatefulSets   []StatefulSetConfig  `toml:"statefulset"`
	DaemonSets     []DaemonSetConfig    `toml:"daemonset"`
	Jobs           []JobConfig          `toml:"job"`
	CronJobs       []CronJobConfig      `toml:"cronjob"`
	Services       []ServiceConfig      `toml:"service"`
	Autoscalers    []AutoscalerConfig   `toml:"autoscaler"`
	StorageClasses []StorageClassConfig `toml:"storageclass"`
	Volumes        []VolumeConfig       `toml:"volume"`
	Claims         []ClaimConfig        `toml:"claim"`
	ConfigMaps     []ConfigMapConfig    `toml:"configmap"`
	Secrets        []SecretConfig       `toml:"secret"`
}

// NodeConfig describes one worker node.
type NodeConfig struct {
	Name          string        `toml:"name"`
	Capacity      int32         `toml:"capacity"`
	Unschedulable bool          `toml:"unschedulable"`
	NotReady      bool          `toml:"not_ready"`
	Taints        []TaintConfig `toml:"taint"`
}

// TaintConfig is one node taint.
type TaintConfig struct {
	Key    string `toml:"key"`
	Value  string `toml:"value"`
	Effect string `toml:"effect"`
}

// PodConfig describes the pod template shared by the workload kinds.
type PodConfig struct {
	Image           string            `toml:"image"`
	Labels          map[string]string `toml:"labels"`
	CompletionTicks int64             `toml:"completion_ticks"`
	FailureMode     string            `toml:"failure_mode"`
	CPUPercent      int32             `toml:"cpu_percent"`
	ConfigMap       string            `toml:"configmap"`
	Secret          string            `toml:"secret"`
	Claim           string            `toml:"claim"`
}

// DeploymentConfig describes one Deployment.
type DeploymentConfig struct {
	Name           string `toml:"name"`
	Replicas       int32  `toml:"replicas"`
	Strategy       string `toml:"strategy"`
	MaxSurge       int32  `toml:"max_surge"`
	MaxUnavailable int32  `toml:"max_unavailable"`

	PodConfig
}

// StatefulSetConfig describes one StatefulSet.
type StatefulSetConfig struct {
	Name     string `toml:"name"`
	Replicas int32  `toml:"replicas"`

	PodConfig
}

// DaemonSetConfig describes one DaemonSet.
type DaemonSetConfig struct {
	Name string `toml:"name"`

	PodConfig
}

// JobConfig describes one Job.
type JobConfig struct {
	Name         string `toml:"name"`
	Parallelism  int32  `toml:"parallelism"`
	Completions  int32  `toml:"completions"`
	BackoffLimit int32  `toml:"backoff_limit"`

	PodConfig
}

// CronJobConfig describes one CronJob.
type CronJobConfig struct {
	Name     string    `toml:"name"`
	Schedule string    `toml:"schedule"`
	Job      JobConfig `toml:"job"`
}

// ServiceConfig describes one Service.
type ServiceConfig struct {
	Name     string            `toml:"name"`
	Selector map[string]string `toml:"selector"`
}

// AutoscalerConfig describes one HorizontalAutoscaler.
type AutoscalerConfig struct {
	Name             string `toml:"name"`
	TargetDeployment string `toml:"target_deployment"`
	MinReplicas      int32  `toml:"min_replicas"`
	MaxReplicas      int32  `toml:"max_replicas"`
	TargetCPUPercent int32  `toml:"target_cpu_percent"`
}

// StorageClassConfig describes one StorageClass.
type StorageClassConfig struct {
	Name          string `toml:"name"`
	ReclaimPolicy string `toml:"reclaim_policy"`
}

// VolumeConfig describes one pre-provisioned PersistentVolume.
type VolumeConfig struct {
	Name         string `toml:"name"`
	Capacity     string `toml:"capacity"`
	StorageClass string `toml:"storage_class"`
}

// ClaimConfig describes one PersistentVolumeClaim.
type ClaimConfig struct {
	Name         string `toml:"name"`
	Request      string `toml:"request"`
	StorageClass string `toml:"storage_class"`
}

// ConfigMapConfig describes one ConfigMap.
type ConfigMapConfig struct {
	Name string            `toml:"name"`
	Data map[string]string `toml:"data"`
}

// SecretConfig describes one Secret.
type SecretConfig struct {
	Name string            `toml:"name"`
	Data map[string]string `toml:"data"`
}

// Load reads and decodes the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Decode(string(data))
}

// Decode parses a scenario from TOML text.
func Decode(text string) (*Scenario, error) {
	var sc Scenario
	md, err := toml.Decode(text, &sc)
	if err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("decoding scenario: unknown key %q", undec[0].String())
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	for _, n := range sc.Nodes {
		if n.Name == "" {
			return fmt.Errorf("node without a name")
		}
		for _, t := range n.Taints {
			switch corev1.TaintEffect(t.Effect) {
			case corev1.TaintEffectNoSchedule, corev1.TaintEffectPreferNoSchedule, corev1.TaintEffectNoExecute:
			default:
				return fmt.Errorf("node %s: unknown taint effect %q", n.Name, t.Effect)
			}
		}
	}
	for _, d := range sc.Deployments {
		if d.Name == "" {
			return fmt.Errorf("deployment without a name")
		}
		if err := validateFailureMode(d.PodConfig.FailureMode); err != nil {
			return fmt.Errorf("deployment %s: %w", d.Name, err)
		}
	}
	for _, j := range sc.Jobs {
		if j.Name == "" {
			return fmt.Errorf("job without a name")
		}
		if err := validateFailureMode(j.PodConfig.FailureMode); err != nil {
			return fmt.Errorf("job %s: %w", j.Name, err)
		}
	}
	for _, a := range sc.Autoscalers {
		if a.MaxReplicas < a.MinReplicas {
			return fmt.Errorf("autoscaler %s: maxReplicas %d below minReplicas %d",
				a.Name, a.MaxReplicas, a.MinReplicas)
		}
	}
	return nil
}

func validateFailureMode(mode string) error {
	switch simv1alpha1.FailureMode(mode) {
	case simv1alpha1.FailureNone, simv1alpha1.FailureImagePull,
		simv1alpha1.FailureCrashLoop, simv1alpha1.FailureOOMKilled:
		return nil
	}
	return fmt.Errorf("unknown failure mode %q", mode)
}

// Build converts the scenario into a tick-zero ClusterState. UIDs come from
// the given generator so the whole run stays reproducible.
func (sc *Scenario) Build(ids *idgen.Generator) *simv1alpha1.ClusterState {
	state := &simv1alpha1.ClusterState{}

	for _, n := range sc.Nodes {
		node := simv1alpha1.Node{
			ObjectMeta: objectMeta(n.Name, nil, ids),
			Spec: simv1alpha1.NodeSpec{
				Capacity:      n.Capacity,
				Unschedulable: n.Unschedulable,
			},
			Status: simv1alpha1.NodeStatus{Ready: !n.NotReady},
		}
		for _, t := range n.Taints {
			node.Spec.Taints = append(node.Spec.Taints, corev1.Taint{
				Key:    t.Key,
				Value:  t.Value,
				Effect: corev1.TaintEffect(t.Effect),
			})
		}
		state.Nodes = append(state.Nodes, node)
	}

	for _, d := range sc.Deployments {
		labels := workloadLabels(d.PodConfig.Labels, d.Name)
		state.Deployments = append(state.Deployments, simv1alpha1.Deployment{
			ObjectMeta: objectMeta(d.Name, nil, ids),
			Spec: simv1alpha1.DeploymentSpec{
				Replicas:       d.Replicas,
				Selector:       labels,
				Template:       podTemplate(d.PodConfig, labels),
				Strategy:       simv1alpha1.DeploymentStrategy(d.Strategy),
				MaxSurge:       d.MaxSurge,
				MaxUnavailable: d.MaxUnavailable,
			},
		})
	}

	for _, s := range sc.StatefulSets {
		labels := workloadLabels(s.PodConfig.Labels, s.Name)
		state.StatefulSets = append(state.StatefulSets, simv1alpha1.StatefulSet{
			ObjectMeta: objectMeta(s.Name, nil, ids),
			Spec: simv1alpha1.StatefulSetSpec{
				Replicas: s.Replicas,
				Selector: labels,
				Template: podTemplate(s.PodConfig, labels),
			},
		})
	}

	for _, d := range sc.DaemonSets {
		labels := workloadLabels(d.PodConfig.Labels, d.Name)
		state.DaemonSets = append(state.DaemonSets, simv1alpha1.DaemonSet{
			ObjectMeta: objectMeta(d.Name, nil, ids),
			Spec: simv1alpha1.DaemonSetSpec{
				Selector: labels,
				Template: podTemplate(d.PodConfig, labels),
			},
		})
	}

	for _, j := range sc.Jobs {
		state.Jobs = append(state.Jobs, simv1alpha1.Job{
			ObjectMeta: objectMeta(j.Name, nil, ids),
			Spec:       jobSpec(j),
		})
	}

	for _, cj := range sc.CronJobs {
		state.CronJobs = append(state.CronJobs, simv1alpha1.CronJob{
			ObjectMeta: objectMeta(cj.Name, nil, ids),
			Spec: simv1alpha1.CronJobSpec{
				Schedule:    cj.Schedule,
				JobTemplate: jobSpec(cj.Job),
			},
		})
	}

	for _, s := range sc.Services {
		state.Services = append(state.Services, simv1alpha1.Service{
			ObjectMeta: objectMeta(s.Name, nil, ids),
			Spec:       simv1alpha1.ServiceSpec{Selector: s.Selector},
		})
	}

	for _, a := range sc.Autoscalers {
		state.Autoscalers = append(state.Autoscalers, simv1alpha1.HorizontalAutoscaler{
			ObjectMeta: objectMeta(a.Name, nil, ids),
			Spec: simv1alpha1.HorizontalAutoscalerSpec{
				TargetDeployment: a.TargetDeployment,
				MinReplicas:      a.MinReplicas,
				MaxReplicas:      a.MaxReplicas,
				TargetCPUPercent: a.TargetCPUPercent,
			},
		})
	}

	for _, c := range sc.StorageClasses {
		state.StorageClasses = append(state.StorageClasses, simv1alpha1.StorageClass{
			ObjectMeta:    objectMeta(c.Name, nil, ids),
			ReclaimPolicy: simv1alpha1.ReclaimPolicy(c.ReclaimPolicy),
		})
	}

	for _, v := range sc.Volumes {
		state.Volumes = append(state.Volumes, simv1alpha1.PersistentVolume{
			ObjectMeta: objectMeta(v.Name, nil, ids),
			Spec: simv1alpha1.PersistentVolumeSpec{
				Capacity:         v.Capacity,
				StorageClassName: v.StorageClass,
			},
			Status: simv1alpha1.PersistentVolumeStatus{
				Phase: simv1alpha1.VolumeAvailable,
			},
		})
	}

	for _, c := range sc.Claims {
		state.Claims = append(state.Claims, simv1alpha1.PersistentVolumeClaim{
			ObjectMeta: objectMeta(c.Name, nil, ids),
			Spec: simv1alpha1.PersistentVolumeClaimSpec{
				Request:          c.Request,
				StorageClassName: c.StorageClass,
			},
			Status: simv1alpha1.PersistentVolumeClaimStatus{
				Phase: simv1alpha1.ClaimPending,
			},
		})
	}

	for _, c := range sc.ConfigMaps {
		state.ConfigMaps = append(state.ConfigMaps, simv1alpha1.ConfigMap{
			ObjectMeta: objectMeta(c.Name, nil, ids),
			Data:       c.Data,
		})
	}

	for _, s := range sc.Secrets {
		state.Secrets = append(state.Secrets, simv1alpha1.Secret{
			ObjectMeta: objectMeta(s.Name, nil, ids),
			Data:       s.Data,
		})
	}

	return state
}

func jobSpec(j JobConfig) simv1alpha1.JobSpec {
	labels := workloadLabels(j.PodConfig.Labels, j.Name)
	return simv1alpha1.JobSpec{
		Parallelism:  j.Parallelism,
		Completions:  j.Completions,
		BackoffLimit: j.BackoffLimit,
		Template:     podTemplate(j.PodConfig, labels),
	}
}

func podTemplate(p PodConfig, labels map[string]string) simv1alpha1.PodTemplateSpec {
	spec := simv1alpha1.PodSpec{
		Image:         p.Image,
		FailureMode:   simv1alpha1.FailureMode(p.FailureMode),
		CPUPercent:    p.CPUPercent,
		ConfigMapName: p.ConfigMap,
		SecretName:    p.Secret,
		ClaimName:     p.Claim,
	}
	if p.CompletionTicks > 0 {
		ticks := p.CompletionTicks
		spec.CompletionTicks = &ticks
	}
	return simv1alpha1.PodTemplateSpec{Labels: labels, Spec: spec}
}

// workloadLabels returns the configured labels, or a default app label keyed
// on the workload name so selectors are never empty.
func workloadLabels(labels map[string]string, name string) map[string]string {
	if len(labels) > 0 {
		return labels
	}
	return map[string]string{"app": name}
}

func objectMeta(name string, labels map[string]string, ids *idgen.Generator) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:   name,
		UID:    ids.UID(),
		Labels: labels,
	}
}
