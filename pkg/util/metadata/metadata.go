// Package metadata provides owner-reference and label-selector helpers shared
// by every controller.
package metadata

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/utils/ptr"

	simv1alpha1 "github.com/tickwise/clustersim/api/v1alpha1"
)

// NewOwnerRef returns the single controller owner reference a child carries.
func NewOwnerRef(kind, name string, uid types.UID) metav1.OwnerReference {
	return metav1.OwnerReference{
		APIVersion: simv1alpha1.GroupVersion,
		Kind:       kind,
		Name:       name,
		UID:        uid,
		Controller: ptr.To(true),
	}
}

// ControllerOf returns the object's controlling owner reference, or nil for
// an orphan.
func ControllerOf(meta *metav1.ObjectMeta) *metav1.OwnerReference {
	for i := range meta.OwnerReferences {
		ref := &meta.OwnerReferences[i]
		if ref.Controller != nil && *ref.Controller {
			return ref
		}
	}
	if len(meta.OwnerReferences) > 0 {
		return &meta.OwnerReferences[0]
	}
	return nil
}

// IsOwnedBy reports whether the object carries an owner reference to uid.
func IsOwnedBy(meta *metav1.ObjectMeta, uid types.UID) bool {
	for i := range meta.OwnerReferences {
		if meta.OwnerReferences[i].UID == uid {
			return true
		}
	}
	return false
}

// IsOrphan reports whether the object has no owner reference at all.
func IsOrphan(meta *metav1.ObjectMeta) bool {
	return len(meta.OwnerReferences) == 0
}

// SelectorMatches reports whether the selector map matches the given labels.
// An empty selector matches nothing, mirroring Kubernetes services: a
// selectorless service never picks up pods by accident.
func SelectorMatches(selector, lbls map[string]string) bool {
	if len(selector) == 0 {
		return false
	}
	return labels.SelectorFromSet(selector).Matches(labels.Set(lbls))
}
