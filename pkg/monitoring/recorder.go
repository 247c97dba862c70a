package monitoring

import (
	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// ObserveState rewrites the snapshot gauges from the given cluster state.
// Phases and kinds absent from the snapshot are dropped rather than left at
// their previous values.
func ObserveState(state *simv1alpha1.ClusterState) {
	currentTick.Set(float64(state.Tick))

	podsByPhase.Reset()
	for i := range state.Pods {
		podsByPhase.WithLabelValues(string(state.Pods[i].Status.Phase)).Inc()
	}

	resourcesByKind.Reset()
	setKindCount(simv1alpha1.KindPod, len(state.Pods))
	setKindCount(simv1alpha1.KindReplicaSet, len(state.ReplicaSets))
	setKindCount(simv1alpha1.KindDeployment, len(state.Deployments))
	setKindCount(simv1alpha1.KindStatefulSet, len(state.StatefulSets))
	setKindCount(simv1alpha1.KindDaemonSet, len(state.DaemonSets))
	setKindCount(simv1alpha1.KindJob, len(state.Jobs))
	setKindCount(simv1alpha1.KindCronJob, len(state.CronJobs))
	setKindCount(simv1alpha1.KindNode, len(state.Nodes))
	setKindCount(simv1alpha1.KindService, len(state.Services))
	setKindCount(simv1alpha1.KindHorizontalAutoscaler, len(state.Autoscalers))
	setKindCount(simv1alpha1.KindPersistentVolume, len(state.Volumes))
	setKindCount(simv1alpha1.KindPersistentVolumeClaim, len(state.Claims))
	setKindCount(simv1alpha1.KindStorageClass, len(state.StorageClasses))
	setKindCount(simv1alpha1.KindConfigMap, len(state.ConfigMaps))
	setKindCount(simv1alpha1.KindSecret, len(state.Secrets))
}

func setKindCount(kind string, n int) {
	if n == 0 {
		return
	}
	resourcesByKind.WithLabelValues(kind).Set(float64(n))
}

// CountEvents adds the events from one tick to the cumulative event counter.
func CountEvents(events []simv1alpha1.SimEvent) {
	for i := range events {
		eventsTotal.WithLabelValues(string(events[i].Type)).Inc()
	}
}
