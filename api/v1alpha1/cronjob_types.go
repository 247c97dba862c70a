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

// CronJobSpec is the desired state of a CronJob.
type CronJobSpec struct {
	// Schedule is either the "every-N-ticks" shorthand or a cron
	// expression whose minute field is honored: "*", "*/N" or a bare
	// integer, interpreted as a tick interval. Anything else is a parse
	// error surfaced on status; a misparsed schedule never fires.
	Schedule string `json:"schedule"`

	// JobTemplate is the spec of each created Job.
	JobTemplate JobSpec `json:"jobTemplate"`
}

// CronJobStatus is the observed state of a CronJob.
type CronJobStatus struct {
	// Active is the number of owned Jobs without a completion tick,
	// recomputed every tick.
	Active int32 `json:"active"`

	// LastScheduleTick is the tick a Job was last created on.
	LastScheduleTick *int64 `json:"lastScheduleTick,omitempty"`

	// ParseError is set when Schedule does not parse; cleared when the
	// schedule is corrected.
	ParseError string `json:"parseError,omitempty"`
}

// CronJob creates a Job every fixed number of ticks.
type CronJob struct {
	metav1.ObjectMeta `json:"metadata"`

	Spec   CronJobSpec   `json:"spec"`
	Status CronJobStatus `json:"status,omitempty"`
}
