// Package hash computes pod-template hashes, the digest that distinguishes
// successive rollout generations of a Deployment.
package hash

import (
	"fmt"
	"hash/fnv"
	"sort"

	"k8s.io/apimachinery/pkg/util/rand"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// ComputePodTemplateHash returns a deterministic digest of the template. Two
// templates hash equal exactly when a rollout between them would be a no-op:
// the digest covers the image, labels, tolerations, probes, dependencies and
// fault knobs, everything a created pod inherits.
func ComputePodTemplateHash(tmpl *simv1alpha1.PodTemplateSpec) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "image=%s/", tmpl.Spec.Image)

	keys := make([]string, 0, len(tmpl.Labels))
	for k := range tmpl.Labels {
		if k == simv1alpha1.LabelPodTemplateHash {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "label=%s:%s/", k, tmpl.Labels[k])
	}

	for _, tol := range tmpl.Spec.Tolerations {
		fmt.Fprintf(h, "tol=%s:%s:%s:%s/", tol.Key, tol.Operator, tol.Value, tol.Effect)
	}
	for _, ic := range tmpl.Spec.InitContainers {
		fmt.Fprintf(h, "init=%s:%s:%d:%t/", ic.Name, ic.Image, ic.RunTicks, ic.Fail)
	}
	probes := []struct {
		name string
		p    *simv1alpha1.Probe
	}{
		{"startup", tmpl.Spec.StartupProbe},
		{"liveness", tmpl.Spec.LivenessProbe},
		{"readiness", tmpl.Spec.ReadinessProbe},
	}
	for _, pr := range probes {
		if pr.p == nil {
			continue
		}
		fmt.Fprintf(h, "probe=%s:%d:%d:%d/", pr.name, pr.p.InitialDelayTicks, pr.p.PeriodTicks, pr.p.FailureThreshold)
	}
	if tmpl.Spec.CompletionTicks != nil {
		fmt.Fprintf(h, "completion=%d/", *tmpl.Spec.CompletionTicks)
	}
	fmt.Fprintf(h, "deps=%s:%s:%s/", tmpl.Spec.ConfigMapName, tmpl.Spec.SecretName, tmpl.Spec.ClaimName)
	fmt.Fprintf(h, "failure=%s/", tmpl.Spec.FailureMode)

	return rand.SafeEncodeString(fmt.Sprint(h.Sum32()))
}
