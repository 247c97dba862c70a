package controller

import (
	"fmt"
	"maps"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/clock"
	"github.com/tickwise/clustersim/pkg/idgen"
)

// Controller is one reconciliation loop in the tick pipeline. A controller
// owns exactly one resource kind: it may mutate objects of that kind and the
// children it creates, and only read everything else.
type Controller interface {
	// Name is the controller's short name, used in actions and logs.
	Name() string

	// Reconcile compares desired against actual state and applies the
	// minimal corrective mutations. It runs to completion synchronously;
	// later controllers in the same pass observe its applied mutations.
	Reconcile(rc *Context)
}

// Context carries everything a controller may touch during one pass.
type Context struct {
	// State is the snapshot being reconciled. It is the orchestrator's
	// private copy; controllers mutate it freely.
	State *simv1alpha1.ClusterState

	// Recorder collects the pass's actions and events.
	Recorder *Recorder

	// IDs mints identifiers for created objects.
	IDs *idgen.Generator

	// Clock derives timestamps from the current tick.
	Clock *clock.Clock

	// Log is scoped to the running controller.
	Log logr.Logger
}

// Tick returns the tick currently being computed.
func (rc *Context) Tick() int64 {
	return rc.State.Tick
}

// Now returns the timestamp of the current tick.
func (rc *Context) Now() metav1.Time {
	return rc.Clock.At(rc.State.Tick)
}

// SoftDelete marks the object for deletion without removing it. The garbage
// collector performs the physical removal once dependents are gone.
func (rc *Context) SoftDelete(meta *metav1.ObjectMeta) {
	if meta.DeletionTimestamp == nil {
		now := rc.Now()
		meta.DeletionTimestamp = &now
	}
}

// SoftDeletePod marks the pod for deletion and moves it to Terminating so
// that endpoints and readiness accounting drop it immediately.
func (rc *Context) SoftDeletePod(pod *simv1alpha1.Pod) {
	rc.SoftDelete(&pod.ObjectMeta)
	pod.Status.Phase = simv1alpha1.PodTerminating
	pod.Status.Ready = nil
}

// NewPodFromTemplate stamps a pod out of a workload template. The pod gets a
// fresh UID, the template's labels and spec, and starts Pending.
func (rc *Context) NewPodFromTemplate(tmpl *simv1alpha1.PodTemplateSpec, name string, owner metav1.OwnerReference) simv1alpha1.Pod {
	var spec simv1alpha1.PodSpec
	tmpl.Spec.DeepCopyInto(&spec)

	return simv1alpha1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			UID:               rc.IDs.UID(),
			Labels:            maps.Clone(tmpl.Labels),
			CreationTimestamp: rc.Now(),
			OwnerReferences:   []metav1.OwnerReference{owner},
		},
		Spec: spec,
		Status: simv1alpha1.PodStatus{
			Phase:       simv1alpha1.PodPending,
			CreatedTick: rc.Tick(),
		},
	}
}

// Recorder accumulates the audit trail of one pass: the ordered list of
// controller actions and the ordered list of typed events. Its surface
// follows the upstream event recorder, minus the object reference plumbing
// the simulator does not need.
type Recorder struct {
	clock *clock.Clock
	tick  int64

	actions []simv1alpha1.ControllerAction
	events  []simv1alpha1.SimEvent
}

// NewRecorder returns a recorder for the given tick.
func NewRecorder(c *clock.Clock, tick int64) *Recorder {
	return &Recorder{clock: c, tick: tick}
}

// Actionf appends a controller action to the audit trail.
func (r *Recorder) Actionf(controller, action, format string, args ...any) {
	r.actions = append(r.actions, simv1alpha1.ControllerAction{
		Controller: controller,
		Action:     action,
		Details:    fmt.Sprintf(format, args...),
	})
}

// Eventf appends a typed event about the named object.
func (r *Recorder) Eventf(objectKind, objectName string, eventType simv1alpha1.EventType, reason, format string, args ...any) {
	r.events = append(r.events, simv1alpha1.SimEvent{
		Timestamp:  r.clock.At(r.tick),
		Tick:       r.tick,
		Type:       eventType,
		Reason:     reason,
		ObjectKind: objectKind,
		ObjectName: objectName,
		Message:    fmt.Sprintf(format, args...),
	})
}

// Actions returns the accumulated action list.
func (r *Recorder) Actions() []simv1alpha1.ControllerAction {
	return r.actions
}

// Events returns the accumulated event list.
func (r *Recorder) Events() []simv1alpha1.SimEvent {
	return r.events
}
