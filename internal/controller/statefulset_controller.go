package controller

import (
	"fmt"
	"strconv"
	"strings"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/util/metadata"
	"github.com/tickwise/clustersim/pkg/util/status"
)

// StatefulSetController keeps one pod per ordinal. Its defining guarantee is
// total ordering: ordinal k+1 is not created until ordinal k is Running, and
// scale-down removes the highest ordinal first, one per tick.
type StatefulSetController struct{}

// Name implements Controller.
func (c *StatefulSetController) Name() string { return "statefulset" }

// Reconcile implements Controller.
func (c *StatefulSetController) Reconcile(rc *Context) {
	st := rc.State
	for i := range st.StatefulSets {
		sts := &st.StatefulSets[i]
		if sts.DeletionTimestamp != nil {
			continue
		}
		c.reconcileSet(rc, sts)
	}
}

func (c *StatefulSetController) reconcileSet(rc *Context, sts *simv1alpha1.StatefulSet) {
	st := rc.State
	pods := st.LivePodsOwnedBy(sts.UID)

	byOrdinal := map[int]*simv1alpha1.Pod{}
	maxOrdinal := -1
	for _, p := range pods {
		ord, ok := podOrdinal(sts.Name, p.Name)
		if !ok {
			continue
		}
		byOrdinal[ord] = p
		if ord > maxOrdinal {
			maxOrdinal = ord
		}
	}

	desired := int(sts.Spec.Replicas)

	// Scale down from the top, one ordinal per tick.
	if maxOrdinal >= desired {
		p := byOrdinal[maxOrdinal]
		rc.SoftDeletePod(p)
		rc.Recorder.Actionf(c.Name(), "DeletePod", "deleted pod %s of statefulset %s", p.Name, sts.Name)
		rc.Recorder.Eventf(simv1alpha1.KindStatefulSet, sts.Name, simv1alpha1.EventNormal,
			"SuccessfulDelete", "deleted pod %s", p.Name)
		c.updateStatus(rc, sts)
		return
	}

	// Scale up one ordinal per tick, lowest missing first, and only once
	// the previous ordinal is Running.
	for ord := 0; ord < desired; ord++ {
		if byOrdinal[ord] != nil {
			continue
		}
		if ord > 0 {
			prev := byOrdinal[ord-1]
			if prev == nil || prev.Status.Phase != simv1alpha1.PodRunning {
				break
			}
		}
		name := fmt.Sprintf("%s-%d", sts.Name, ord)
		owner := metadata.NewOwnerRef(simv1alpha1.KindStatefulSet, sts.Name, sts.UID)
		pod := rc.NewPodFromTemplate(&sts.Spec.Template, name, owner)
		st.Pods = append(st.Pods, pod)
		rc.Recorder.Actionf(c.Name(), "CreatePod", "created pod %s for statefulset %s", name, sts.Name)
		rc.Recorder.Eventf(simv1alpha1.KindStatefulSet, sts.Name, simv1alpha1.EventNormal,
			"SuccessfulCreate", "created pod %s", name)
		break
	}

	c.updateStatus(rc, sts)
}

func (c *StatefulSetController) updateStatus(rc *Context, sts *simv1alpha1.StatefulSet) {
	counts := status.CountPods(rc.State.LivePodsOwnedBy(sts.UID))
	sts.Status.Replicas = counts.Total
	sts.Status.ReadyReplicas = counts.Ready
}

// podOrdinal extracts the ordinal from "<set>-<n>".
func podOrdinal(setName, podName string) (int, bool) {
	rest, ok := strings.CutPrefix(podName, setName+"-")
	if !ok {
		return 0, false
	}
	ord, err := strconv.Atoi(rest)
	if err != nil || ord < 0 {
		return 0, false
	}
	return ord, true
}
