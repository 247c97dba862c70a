package v1alpha1

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

func sampleState() *ClusterState {
	return &ClusterState{
		Tick: 7,
		Pods: []Pod{{
			ObjectMeta: metav1.ObjectMeta{
				Name:   "web-abcde",
				UID:    "pod-uid",
				Labels: map[string]string{"app": "web"},
				OwnerReferences: []metav1.OwnerReference{
					{Kind: KindReplicaSet, Name: "web-12345", UID: "rs-uid", Controller: ptr.To(true)},
				},
			},
			Spec: PodSpec{
				Image:           "nginx:1.25",
				NodeName:        "node-1",
				CompletionTicks: ptr.To[int64](5),
				LivenessProbe:   &Probe{PeriodTicks: 2, FailureThreshold: 3},
			},
			Status: PodStatus{Phase: PodRunning, Ready: ptr.To(true), StartedTick: 3},
		}},
		ReplicaSets: []ReplicaSet{{
			ObjectMeta: metav1.ObjectMeta{Name: "web-12345", UID: "rs-uid"},
			Spec: ReplicaSetSpec{
				Replicas: 1,
				Selector: map[string]string{"app": "web"},
				Template: PodTemplateSpec{
					Labels: map[string]string{"app": "web"},
					Spec:   PodSpec{Image: "nginx:1.25"},
				},
			},
		}},
		Nodes:       []Node{{ObjectMeta: metav1.ObjectMeta{Name: "node-1"}, Status: NodeStatus{Ready: true}}},
		Services:    []Service{{ObjectMeta: metav1.ObjectMeta{Name: "web-svc"}, Status: ServiceStatus{Endpoints: []string{"10.244.1.2"}}}},
		Autoscalers: []HorizontalAutoscaler{{Status: HorizontalAutoscalerStatus{LastScaleTick: ptr.To[int64](4)}}},
	}
}

func TestClusterStateDeepCopy_Equal(t *testing.T) {
	t.Parallel()

	orig := sampleState()
	copied := orig.DeepCopy()
	if diff := cmp.Diff(orig, copied); diff != "" {
		t.Errorf("copy differs from original (-orig +copy):\n%s", diff)
	}
}

func TestClusterStateDeepCopy_Isolated(t *testing.T) {
	t.Parallel()

	orig := sampleState()
	copied := orig.DeepCopy()

	copied.Tick = 99
	copied.Pods[0].Labels["app"] = "mutated"
	copied.Pods[0].OwnerReferences[0].Name = "mutated"
	*copied.Pods[0].Spec.CompletionTicks = 42
	copied.Pods[0].Spec.LivenessProbe.PeriodTicks = 9
	*copied.Pods[0].Status.Ready = false
	copied.ReplicaSets[0].Spec.Selector["app"] = "mutated"
	copied.ReplicaSets[0].Spec.Template.Labels["app"] = "mutated"
	copied.Services[0].Status.Endpoints[0] = "mutated"
	*copied.Autoscalers[0].Status.LastScaleTick = 40

	want := sampleState()
	if diff := cmp.Diff(want, orig); diff != "" {
		t.Errorf("mutating the copy changed the original (-want +got):\n%s", diff)
	}
}

func TestLookupHelpers(t *testing.T) {
	t.Parallel()

	st := sampleState()

	if p := st.PodByName("web-abcde"); p == nil || p.UID != "pod-uid" {
		t.Errorf("PodByName = %v, want pod-uid", p)
	}
	if p := st.PodByName("missing"); p != nil {
		t.Errorf("PodByName(missing) = %v, want nil", p)
	}
	if got := st.PodsOwnedBy("rs-uid"); len(got) != 1 {
		t.Errorf("PodsOwnedBy(rs-uid) returned %d pods, want 1", len(got))
	}
	if got := st.LivePodsOnNode("node-1"); len(got) != 1 {
		t.Errorf("LivePodsOnNode(node-1) returned %d pods, want 1", len(got))
	}
	if n := st.NodeByName("node-1"); n == nil || !n.Status.Ready {
		t.Errorf("NodeByName = %v, want ready node", n)
	}
}
