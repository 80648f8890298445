package scaler

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ServiceLabelKey is the label on the upstream decision object that carries
// the workload name. The key is fixed by the decision loop (a Knative-based
// autoscaler) and is the only accepted identity source for the name half of
// an RTResource identity.
const ServiceLabelKey = "serving.knative.dev/service"

// Target identifies one RTResource.
type Target struct {
	Name      string
	Namespace string
}

// TargetFor derives the RTResource identity from an upstream decision
// object: the name from its service label, the namespace copied verbatim.
func TargetFor(obj metav1.Object) (Target, error) {
	name := obj.GetLabels()[ServiceLabelKey]
	if name == "" {
		return Target{}, fmt.Errorf("object %s/%s has no %s label",
			obj.GetNamespace(), obj.GetName(), ServiceLabelKey)
	}
	return Target{Name: name, Namespace: obj.GetNamespace()}, nil
}
