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

// Package status provides shared helpers for computing workload status from
// owned pods. The set controllers (ReplicaSet, StatefulSet, DaemonSet) all
// report the same total/ready pair and use these to stay consistent.
package status

import (
	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// Counts summarizes a workload's live pods.
type Counts struct {
	// Total is the number of live pods.
	Total int32

	// Ready is the number of live pods that are Running and not
	// explicitly unready.
	Ready int32

	// Running is the number of live pods in phase Running regardless of
	// readiness.
	Running int32
}

// CountPods tallies the given pods. Callers pass the live pods owned by one
// workload.
func CountPods(pods []*simv1alpha1.Pod) Counts {
	var c Counts
	for _, p := range pods {
		c.Total++
		if p.Status.Phase == simv1alpha1.PodRunning {
			c.Running++
		}
		if p.IsReady() {
			c.Ready++
		}
	}
	return c
}
