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

// JobConditionType marks a Job's terminal condition.
// +enum
type JobConditionType string

const (
	// JobComplete means Succeeded reached Completions.
	JobComplete JobConditionType = "Complete"

	// JobFailed means the failure count exceeded BackoffLimit. Terminal:
	// no further pods are created.
	JobFailed JobConditionType = "Failed"
)

// JobSpec is the desired state of a Job.
type JobSpec struct {
	// Parallelism caps the number of concurrently active pods. Zero means
	// the default of 1.
	Parallelism int32 `json:"parallelism,omitempty"`

	// Completions is the number of successful pods required. Zero means
	// the default of 1.
	Completions int32 `json:"completions,omitempty"`

	// BackoffLimit is the number of pod failures tolerated before the Job
	// is marked Failed.
	BackoffLimit int32 `json:"backoffLimit,omitempty"`

	// Template is stamped onto every created pod; batch pods normally
	// carry CompletionTicks.
	Template PodTemplateSpec `json:"template"`
}

// EffectiveParallelism returns Parallelism with the default of 1 applied.
func (s *JobSpec) EffectiveParallelism() int32 {
	if s.Parallelism <= 0 {
		return 1
	}
	return s.Parallelism
}

// EffectiveCompletions returns Completions with the default of 1 applied.
func (s *JobSpec) EffectiveCompletions() int32 {
	if s.Completions <= 0 {
		return 1
	}
	return s.Completions
}

// JobStatus is the observed state of a Job. Failed accumulates: failed pods
// are counted once, then soft-deleted, so the counter survives collection of
// the pods themselves.
type JobStatus struct {
	// Active is the number of live owned pods not yet finished.
	Active int32 `json:"active"`

	// Succeeded is the number of owned pods that ran to completion.
	Succeeded int32 `json:"succeeded"`

	// Failed is the cumulative number of owned pods that failed.
	Failed int32 `json:"failed"`

	// CompletionTick is set when the Job reaches a terminal condition.
	CompletionTick *int64 `json:"completionTick,omitempty"`

	// Condition is empty while the Job is running.
	Condition JobConditionType `json:"condition,omitempty"`
}

// Finished reports whether the Job reached a terminal condition.
func (j *Job) Finished() bool {
	return j.Status.Condition != ""
}

// Job runs pods to a fixed number of completions.
type Job struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   JobSpec   `json:"spec"`
	Status JobStatus `json:"status,omitempty"`
}
