package controller

import (
	"fmt"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// StorageController binds Pending claims to Available volumes of the same
// storage class, provisions volumes dynamically for known classes, and
// reclaims volumes whose claim went away.
type StorageController struct{}

// Name implements Controller.
func (c *StorageController) Name() string { return "storage" }

// Reconcile implements Controller.
func (c *StorageController) Reconcile(rc *Context) {
	c.bindClaims(rc)
	c.reclaimVolumes(rc)
}

func (c *StorageController) bindClaims(rc *Context) {
	st := rc.State
	for i := range st.Claims {
		claim := &st.Claims[i]
		if claim.DeletionTimestamp != nil || claim.Status.Phase == simv1alpha1.ClaimBound {
			continue
		}

		if vol := c.availableVolume(st, claim.Spec.StorageClassName); vol != nil {
			c.bind(rc, claim, vol)
			continue
		}
		if sc := st.StorageClassByName(claim.Spec.StorageClassName); sc != nil {
			c.provision(rc, claim)
			continue
		}
		rc.Recorder.Eventf(simv1alpha1.KindPersistentVolumeClaim, claim.Name, simv1alpha1.EventWarning,
			"ProvisioningFailed", "no volume available and storageclass %q not found", claim.Spec.StorageClassName)
	}
}

// availableVolume picks the Available volume of the class with the lowest
// name, so binding is deterministic.
func (c *StorageController) availableVolume(st *simv1alpha1.ClusterState, class string) *simv1alpha1.PersistentVolume {
	var candidates []*simv1alpha1.PersistentVolume
	for i := range st.Volumes {
		v := &st.Volumes[i]
		if v.DeletionTimestamp == nil && v.Status.Phase == simv1alpha1.VolumeAvailable && v.Spec.StorageClassName == class {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	return candidates[0]
}

func (c *StorageController) bind(rc *Context, claim *simv1alpha1.PersistentVolumeClaim, vol *simv1alpha1.PersistentVolume) {
	vol.Status.Phase = simv1alpha1.VolumeBound
	vol.Status.ClaimRef = claim.Name
	claim.Status.Phase = simv1alpha1.ClaimBound
	claim.Status.VolumeName = vol.Name
	rc.Recorder.Actionf(c.Name(), "BindVolume", "bound claim %s to volume %s", claim.Name, vol.Name)
	rc.Recorder.Eventf(simv1alpha1.KindPersistentVolumeClaim, claim.Name, simv1alpha1.EventNormal,
		"Bound", "bound to volume %s", vol.Name)
}

func (c *StorageController) provision(rc *Context, claim *simv1alpha1.PersistentVolumeClaim) {
	vol := simv1alpha1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{
			Name:              fmt.Sprintf("pv-%s-%s", claim.Name, rc.IDs.Suffix()),
			UID:               rc.IDs.UID(),
			CreationTimestamp: rc.Now(),
		},
		Spec: simv1alpha1.PersistentVolumeSpec{
			Capacity:         claim.Spec.Request,
			StorageClassName: claim.Spec.StorageClassName,
		},
		Status: simv1alpha1.PersistentVolumeStatus{
			Phase:    simv1alpha1.VolumeBound,
			ClaimRef: claim.Name,
		},
	}
	claim.Status.Phase = simv1alpha1.ClaimBound
	claim.Status.VolumeName = vol.Name
	rc.State.Volumes = append(rc.State.Volumes, vol)
	rc.Recorder.Actionf(c.Name(), "ProvisionVolume", "provisioned volume %s for claim %s (class %s)",
		vol.Name, claim.Name, claim.Spec.StorageClassName)
	rc.Recorder.Eventf(simv1alpha1.KindPersistentVolumeClaim, claim.Name, simv1alpha1.EventNormal,
		"ProvisioningSucceeded", "provisioned volume %s", vol.Name)
}

// reclaimVolumes handles volumes whose claim is deleted or gone: Delete
// classes release the volume for collection, everything else is retained in
// phase Released.
func (c *StorageController) reclaimVolumes(rc *Context) {
	st := rc.State
	for i := range st.Volumes {
		vol := &st.Volumes[i]
		if vol.DeletionTimestamp != nil || vol.Status.Phase != simv1alpha1.VolumeBound {
			continue
		}
		claim := st.ClaimByName(vol.Status.ClaimRef)
		if claim != nil && claim.DeletionTimestamp == nil {
			continue
		}

		policy := simv1alpha1.ReclaimRetain
		if sc := st.StorageClassByName(vol.Spec.StorageClassName); sc != nil {
			policy = sc.EffectiveReclaimPolicy()
		}
		if policy == simv1alpha1.ReclaimDelete {
			rc.SoftDelete(&vol.ObjectMeta)
			rc.Recorder.Actionf(c.Name(), "DeleteVolume", "deleted released volume %s (reclaim policy Delete)", vol.Name)
			rc.Recorder.Eventf(simv1alpha1.KindPersistentVolume, vol.Name, simv1alpha1.EventNormal,
				"VolumeDelete", "volume released and deleted per reclaim policy")
			continue
		}
		vol.Status.Phase = simv1alpha1.VolumeReleased
		rc.Recorder.Actionf(c.Name(), "ReleaseVolume", "retained released volume %s", vol.Name)
		rc.Recorder.Eventf(simv1alpha1.KindPersistentVolume, vol.Name, simv1alpha1.EventNormal,
			"VolumeReleased", "claim %s gone, volume retained", vol.Status.ClaimRef)
	}
}
