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

// Package scaler bridges an external autoscaling decision loop to the
// RTResource API. Each call projects one desired replica count onto the
// target object; failures are logged and swallowed so the decision loop
// never blocks on the resource store.
package scaler

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	rtv1 "github.com/critical-rt/rtresource-scaler/api/v1"
	"github.com/critical-rt/rtresource-scaler/pkg/client"
	"github.com/critical-rt/rtresource-scaler/pkg/config"
)

// ScaleUnknown is the sentinel the decision loop emits while it has not yet
// computed a desired scale for a target. Scale passes it through without
// touching the cluster.
const ScaleUnknown = -1

// Scaler applies desired replica counts to RTResource objects. It keeps no
// state between calls; every invocation is one independent read-modify-write
// through the client.
type Scaler struct {
	rtClient client.Interface
	profiles config.Profiles
}

// Option configures a Scaler.
type Option func(*Scaler)

// WithProfiles supplies per-namespace provisioning profiles stamped onto an
// RTResource when the adapter creates it for the first time. The update path
// is unaffected: there the live object's fields always win.
func WithProfiles(profiles config.Profiles) Option {
	return func(s *Scaler) {
		s.profiles = profiles
	}
}

// NewScaler returns a Scaler writing through the given client.
func NewScaler(rtClient client.Interface, opts ...Option) *Scaler {
	s := &Scaler{rtClient: rtClient}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scale applies desiredScale to the target's RTResource and returns
// desiredScale unchanged. The error return is a diagnostic only: a non-nil
// value reports a remote failure that has already been logged and swallowed.
// Callers that only care about the pass-through value may ignore it; the
// next tick of the decision loop re-attempts the write.
func (s *Scaler) Scale(ctx context.Context, target Target, desiredScale int32) (int32, error) {
	if desiredScale == ScaleUnknown {
		return desiredScale, nil
	}

	rt := &rtv1.RTResource{
		TypeMeta: metav1.TypeMeta{
			Kind:       rtv1.Kind,
			APIVersion: rtv1.GroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      target.Name,
			Namespace: target.Namespace,
		},
		Spec: rtv1.RTResourceSpec{
			ReplicaCount: desiredScale,
		},
	}
	if profile, ok := s.profiles.For(target.Namespace); ok && !profile.IsZero() {
		// Initial values for the create path only. If the object already
		// exists, CreateOrUpdate re-reads these fields from it.
		rt.Spec.Namespace = target.Namespace
		profile.Apply(&rt.Spec)
	}

	if err := s.rtClient.CreateOrUpdate(ctx, rt); err != nil {
		logf.FromContext(ctx).Error(err, "failed to apply desired scale",
			"name", target.Name,
			"namespace", target.Namespace,
			"desiredScale", desiredScale)
		recordApplyFailure(target, err)
		return desiredScale, err
	}

	recordDesiredReplicas(target, desiredScale)
	return desiredScale, nil
}
