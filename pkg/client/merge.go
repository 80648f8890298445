package client

import (
	rtv1 "github.com/critical-rt/rtresource-scaler/api/v1"
)

// PreserveUnownedFields returns a copy of incoming with the fields owned by
// other writers taken from existing: the optimistic-concurrency
// resourceVersion plus the provisioning-controller spec fields (cpu, memory,
// image, criticality and the inner namespace). ReplicaCount and the object
// identity are kept from incoming.
//
// Neither argument is mutated.
func PreserveUnownedFields(existing, incoming *rtv1.RTResource) *rtv1.RTResource {
	merged := incoming.DeepCopy()
	merged.ResourceVersion = existing.ResourceVersion
	merged.Spec.CPU = existing.Spec.CPU
	merged.Spec.Memory = existing.Spec.Memory
	merged.Spec.Image = existing.Spec.Image
	merged.Spec.Criticality = existing.Spec.Criticality
	merged.Spec.Namespace = existing.Spec.Namespace
	return merged
}
