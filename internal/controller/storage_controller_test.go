package controller_test

import (
	"strings"
	"testing"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
	"github.com/tickwise/clustersim/pkg/testutil"
)

func TestStorageBindsLowestNamedVolume(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.StorageClass("standard", simv1alpha1.ReclaimRetain),
		testutil.Volume("pv-b", "standard"),
		testutil.Volume("pv-a", "standard"),
		testutil.Claim("data", "standard"),
	)

	st, _, events := advance(t, o, st, 1)

	claim := st.ClaimByName("data")
	if claim.Status.Phase != simv1alpha1.ClaimBound {
		t.Fatalf("claim phase = %s, want Bound", claim.Status.Phase)
	}
	if claim.Status.VolumeName != "pv-a" {
		t.Errorf("bound to %s, want the lowest-named volume pv-a", claim.Status.VolumeName)
	}
	if vol := st.VolumeByName("pv-a"); vol.Status.Phase != simv1alpha1.VolumeBound || vol.Status.ClaimRef != "data" {
		t.Errorf("volume status = %+v, want Bound to data", vol.Status)
	}
	if vol := st.VolumeByName("pv-b"); vol.Status.Phase != simv1alpha1.VolumeAvailable {
		t.Errorf("pv-b phase = %s, want still Available", vol.Status.Phase)
	}
	if len(eventsWithReason(events, "Bound")) != 1 {
		t.Error("missing Bound event")
	}
}

func TestStorageProvisionsForKnownClass(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.StorageClass("fast", simv1alpha1.ReclaimDelete),
		testutil.Claim("cache", "fast"),
	)

	st, _, events := advance(t, o, st, 1)

	claim := st.ClaimByName("cache")
	if claim.Status.Phase != simv1alpha1.ClaimBound {
		t.Fatalf("claim phase = %s, want Bound", claim.Status.Phase)
	}
	if !strings.HasPrefix(claim.Status.VolumeName, "pv-cache-") {
		t.Errorf("volume name = %q, want provisioned pv-cache-* volume", claim.Status.VolumeName)
	}
	vol := st.VolumeByName(claim.Status.VolumeName)
	if vol == nil || vol.Status.Phase != simv1alpha1.VolumeBound {
		t.Fatalf("provisioned volume missing or unbound")
	}
	if vol.Spec.StorageClassName != "fast" {
		t.Errorf("provisioned class = %s, want fast", vol.Spec.StorageClassName)
	}
	if len(eventsWithReason(events, "ProvisioningSucceeded")) != 1 {
		t.Error("missing ProvisioningSucceeded event")
	}
}

func TestStorageUnknownClassStaysPending(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.Claim("orphan", "nonexistent"),
	)

	st, _, events := advance(t, o, st, 3)

	if got := st.ClaimByName("orphan").Status.Phase; got != simv1alpha1.ClaimPending {
		t.Errorf("claim phase = %s, want Pending", got)
	}
	if len(st.Volumes) != 0 {
		t.Error("volume provisioned for an unknown class")
	}
	// Warned every tick while unbound.
	if got := len(eventsWithReason(events, "ProvisioningFailed")); got != 3 {
		t.Errorf("%d ProvisioningFailed warnings over 3 ticks, want 3", got)
	}
}

func TestStorageReclaimPolicies(t *testing.T) {
	t.Parallel()

	o := newOrch()
	st := testutil.State(
		testutil.Node("node-1"),
		testutil.StorageClass("keep", simv1alpha1.ReclaimRetain),
		testutil.StorageClass("drop", simv1alpha1.ReclaimDelete),
		testutil.Volume("pv-keep", "keep"),
		testutil.Volume("pv-drop", "drop"),
		testutil.Claim("claim-keep", "keep"),
		testutil.Claim("claim-drop", "drop"),
	)

	st, _, _ = advance(t, o, st, 1)
	for _, name := range []string{"claim-keep", "claim-drop"} {
		if st.ClaimByName(name).Status.Phase != simv1alpha1.ClaimBound {
			t.Fatalf("claim %s did not bind", name)
		}
	}

	// Delete both claims. The Delete-class volume is collected, the
	// Retain-class one survives in phase Released.
	now := st.Claims[0].CreationTimestamp
	for i := range st.Claims {
		st.Claims[i].DeletionTimestamp = &now
	}

	st, _, events := advance(t, o, st, 2)

	if vol := st.VolumeByName("pv-drop"); vol != nil {
		t.Errorf("pv-drop survived (phase %s), want deleted", vol.Status.Phase)
	}
	vol := st.VolumeByName("pv-keep")
	if vol == nil {
		t.Fatal("pv-keep was collected despite Retain policy")
	}
	if vol.Status.Phase != simv1alpha1.VolumeReleased {
		t.Errorf("pv-keep phase = %s, want Released", vol.Status.Phase)
	}
	if len(eventsWithReason(events, "VolumeReleased")) != 1 {
		t.Error("missing VolumeReleased event")
	}
	if len(eventsWithReason(events, "VolumeDelete")) != 1 {
		t.Error("missing VolumeDelete event")
	}
}
