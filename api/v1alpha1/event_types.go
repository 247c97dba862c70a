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

// EventType classifies an event, mirroring the upstream Normal/Warning split.
// +enum
type EventType string

const (
	// EventNormal reports expected progress.
	EventNormal EventType = "Normal"

	// EventWarning reports a problem the controllers observed.
	EventWarning EventType = "Warning"
)

// SimEvent is one entry in the per-tick event stream. Every state-changing
// controller decision produces at least one event or action; nothing is
// dropped silently.
type SimEvent struct {
	// Timestamp is derived from the tick by the logical clock.
	Timestamp metav1.Time `json:"timestamp"`

	// Tick is the tick the event was emitted on.
	Tick int64 `json:"tick"`

	// Type is Normal or Warning.
	Type EventType `json:"type"`

	// Reason is a short machine-readable cause, e.g. RolloutStalled.
	Reason string `json:"reason"`

	// ObjectKind is the kind of the involved object.
	ObjectKind string `json:"objectKind"`

	// ObjectName is the name of the involved object.
	ObjectName string `json:"objectName"`

	// Message is a human-readable elaboration.
	Message string `json:"message,omitempty"`
}

// ControllerAction is one entry in the per-tick audit trail of what each
// controller did. Log-only; nothing reads it back.
type ControllerAction struct {
	// Controller is the controller name, e.g. "deployment".
	Controller string `json:"controller"`

	// Action is a short verb, e.g. "ScaleReplicaSet".
	Action string `json:"action"`

	// Details elaborates the action for display.
	Details string `json:"details,omitempty"`
}
