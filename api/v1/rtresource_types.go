/*
Copyright 2025 The Critical-RT Authors

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

package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// RTResourceSpec describes one real-time critical workload group.
//
// Ownership of the spec is split between two writers: the scale adapter in
// this repository sets ReplicaCount and nothing else, while the provisioning
// controller that schedules the pods owns Namespace, CPU, Memory, Criticality
// and Image. Updates issued here must round-trip the provisioning-owned
// fields unchanged.
type RTResourceSpec struct {
	// Namespace is the logical namespace the workload's pods are deployed
	// into. Carried inside the spec in addition to the object namespace
	// because the provisioning controller reads it from the spec alone.
	// +kubebuilder:validation:MinLength=1
	Namespace string `json:"namespace"`

	// ReplicaCount is the desired number of replicas for the workload.
	// This is the only field the scale adapter writes.
	// +kubebuilder:validation:Minimum=0
	ReplicaCount int32 `json:"replicaCount"`

	// CPU is the per-replica CPU requirement, e.g. "700m".
	CPU string `json:"cpu"`

	// Memory is the per-replica memory requirement, e.g. "200Mi".
	Memory string `json:"memory"`

	// Criticality is the priority class marker consumed by the real-time
	// scheduler.
	// +kubebuilder:validation:Minimum=0
	Criticality int `json:"criticality"`

	// Image is the container image reference for the workload.
	Image string `json:"image"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:shortName=rt
// +kubebuilder:printcolumn:name="Replicas",type=integer,JSONPath=".spec.replicaCount"
// +kubebuilder:printcolumn:name="Criticality",type=integer,JSONPath=".spec.criticality"
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=".metadata.creationTimestamp"

// RTResource is the Schema for the rtresources API.
type RTResource struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec RTResourceSpec `json:"spec"`
}

// RTResourceList contains a list of RTResource objects.
// +kubebuilder:object:root=true
type RTResourceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []RTResource `json:"items"`
}

// Kind is the kind name registered for RTResource.
const Kind = "RTResource"

func init() {
	SchemeBuilder.Register(&RTResource{}, &RTResourceList{})
}

// DeepCopyInto copies the receiver into out. The spec is rebuilt
// field-by-field so the copy shares no state with the original.
func (r *RTResource) DeepCopyInto(out *RTResource) {
	out.TypeMeta = r.TypeMeta
	r.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	out.Spec = RTResourceSpec{
		Namespace:    r.Spec.Namespace,
		ReplicaCount: r.Spec.ReplicaCount,
		CPU:          r.Spec.CPU,
		Memory:       r.Spec.Memory,
		Criticality:  r.Spec.Criticality,
		Image:        r.Spec.Image,
	}
}

// DeepCopy returns an independent copy of the receiver.
func (r *RTResource) DeepCopy() *RTResource {
	if r == nil {
		return nil
	}
	out := new(RTResource)
	r.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (r *RTResource) DeepCopyObject() runtime.Object {
	return r.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (l *RTResourceList) DeepCopyInto(out *RTResourceList) {
	out.TypeMeta = l.TypeMeta
	l.ListMeta.DeepCopyInto(&out.ListMeta)
	if l.Items != nil {
		out.Items = make([]RTResource, len(l.Items))
		for i := range l.Items {
			l.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns an independent copy of the receiver.
func (l *RTResourceList) DeepCopy() *RTResourceList {
	if l == nil {
		return nil
	}
	out := new(RTResourceList)
	l.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (l *RTResourceList) DeepCopyObject() runtime.Object {
	return l.DeepCopy()
}
