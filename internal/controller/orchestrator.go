package controller

import (
	"context"

	"github.com/go-logr/logr"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/clock"
	"github.com/tickwise/clustersim/pkg/idgen"
	"github.com/tickwise/clustersim/pkg/monitoring"
)

// Orchestrator advances the cluster one tick at a time. It owns state
// cloning and the fixed controller order; controllers never see each other's
// uncommitted work because there is none: each runs to completion before the
// next starts.
type Orchestrator struct {
	log   logr.Logger
	clock *clock.Clock
	ids   *idgen.Generator

	pipeline []Controller
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger controllers receive.
func WithLogger(log logr.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithClock sets the logical clock used for all derived timestamps.
func WithClock(c *clock.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithSeed seeds the identifier generator. Two orchestrators with the same
// seed ticking the same scenario mint identical identifiers.
func WithSeed(seed int64) Option {
	return func(o *Orchestrator) { o.ids = idgen.New(seed) }
}

// WithIDGenerator supplies a shared identifier generator. Callers that mint
// UIDs for the initial state can hand the same stream to the orchestrator so
// the two never collide.
func WithIDGenerator(g *idgen.Generator) Option {
	return func(o *Orchestrator) { o.ids = g }
}

// New returns an orchestrator with the fixed reconciliation pipeline.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:   logr.Discard(),
		clock: clock.Default(),
		ids:   idgen.New(1),
		pipeline: []Controller{
			&DeploymentController{},
			&ReplicaSetController{},
			&StatefulSetController{},
			&DaemonSetController{},
			&JobController{},
			&CronJobController{},
			&AutoscalerController{},
			&StorageController{},
			&SchedulerController{},
			&PodLifecycleController{},
			&NodeLifecycleController{},
			&GarbageCollector{},
			&EndpointsController{},
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Tick runs every controller once over a copy of the given snapshot and
// returns the new snapshot together with the pass's actions and events.
//
// Ticks are all-or-nothing: while a prediction checkpoint is pending the
// orchestrator performs no mutation at all and returns the input unchanged.
// Otherwise the input snapshot is never touched; a caller holding the old
// state keeps a consistent picture of the previous tick.
func (o *Orchestrator) Tick(state *simv1alpha1.ClusterState) (*simv1alpha1.ClusterState, []simv1alpha1.ControllerAction, []simv1alpha1.SimEvent) {
	if state.AwaitingPrediction {
		return state, nil, nil
	}

	next := state.DeepCopy()
	rec := NewRecorder(o.clock, next.Tick)

	ctx, span := monitoring.StartTickSpan(context.Background(), next.Tick)
	defer span.End()

	for _, c := range o.pipeline {
		rc := &Context{
			State:    next,
			Recorder: rec,
			IDs:      o.ids,
			Clock:    o.clock,
			Log:      o.log.WithName(c.Name()),
		}
		_, cspan := monitoring.StartControllerSpan(ctx, c.Name())
		c.Reconcile(rc)
		cspan.End()
	}

	next.Tick++
	monitoring.ObserveState(next)
	monitoring.CountEvents(rec.Events())
	return next, rec.Actions(), rec.Events()
}
