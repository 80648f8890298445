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

// Package client provides a typed REST client for RTResource objects.
package client

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	"k8s.io/client-go/rest"

	rtv1 "github.com/critical-rt/rtresource-scaler/api/v1"
)

// Interface is the contract for RTResource CRUD against the cluster API.
//
// All calls are single synchronous round trips. None of them retry; a
// Conflict from Update propagates to the caller unchanged.
type Interface interface {
	// Get fetches the RTResource with the given identity. Returns a
	// NotFound API error when no such object exists.
	Get(ctx context.Context, name, namespace string) (*rtv1.RTResource, error)

	// Create submits the full object. Fails with AlreadyExists if the
	// identity is taken.
	Create(ctx context.Context, rt *rtv1.RTResource) error

	// Update submits a full replacement. The server enforces optimistic
	// concurrency on the object's resourceVersion and fails with Conflict
	// when it is stale.
	Update(ctx context.Context, rt *rtv1.RTResource) error

	// CreateOrUpdate performs a single read-modify-write: Get, then either
	// Update (preserving the fields owned by the provisioning controller)
	// or Create when the object is absent. It is not safe against
	// concurrent writers between the read and the write; the losing writer
	// observes a Conflict.
	CreateOrUpdate(ctx context.Context, rt *rtv1.RTResource) error
}

// Scheme holds the RTResource types for codec negotiation.
var Scheme = runtime.NewScheme()

// Codecs is the codec factory for Scheme.
var Codecs serializer.CodecFactory

func init() {
	if err := rtv1.AddToScheme(Scheme); err != nil {
		panic(fmt.Sprintf("failed to register rtgroup types: %v", err))
	}
	metav1.AddToGroupVersion(Scheme, rtv1.GroupVersion)
	Codecs = serializer.NewCodecFactory(Scheme)
}

type rtResourceClient struct {
	restClient rest.Interface
}

// NewForConfig builds an RTResource client from the given REST config.
// The config is copied before mutation; the returned client is the sole
// owner of the derived configuration.
func NewForConfig(config *rest.Config) (Interface, error) {
	cfg := rest.CopyConfig(config)
	cfg.GroupVersion = &rtv1.GroupVersion
	cfg.APIPath = "/apis"
	cfg.NegotiatedSerializer = Codecs.WithoutConversion()

	restClient, err := rest.RESTClientFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("building REST client for %s: %w", rtv1.GroupVersion, err)
	}
	return New(restClient), nil
}

// New wraps an existing REST client. Intended for tests and for callers
// that manage transport construction themselves.
func New(restClient rest.Interface) Interface {
	return &rtResourceClient{restClient: restClient}
}

func (c *rtResourceClient) Get(ctx context.Context, name, namespace string) (*rtv1.RTResource, error) {
	result := &rtv1.RTResource{}
	err := c.restClient.Get().
		Namespace(namespace).
		Resource(rtv1.Resource).
		Name(name).
		Do(ctx).
		Into(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *rtResourceClient) Create(ctx context.Context, rt *rtv1.RTResource) error {
	result := &rtv1.RTResource{}
	return c.restClient.Post().
		Namespace(rt.Namespace).
		Resource(rtv1.Resource).
		Body(rt).
		Do(ctx).
		Into(result)
}

func (c *rtResourceClient) Update(ctx context.Context, rt *rtv1.RTResource) error {
	result := &rtv1.RTResource{}
	return c.restClient.Put().
		Namespace(rt.Namespace).
		Resource(rtv1.Resource).
		Name(rt.Name).
		Body(rt).
		Do(ctx).
		Into(result)
}

func (c *rtResourceClient) CreateOrUpdate(ctx context.Context, rt *rtv1.RTResource) error {
	existing, err := c.Get(ctx, rt.Name, rt.Namespace)
	switch {
	case err == nil:
		return c.Update(ctx, PreserveUnownedFields(existing, rt))
	case errors.IsNotFound(err):
		return c.Create(ctx, rt)
	default:
		// Get failed for a reason other than absence. Writing blind here
		// could clobber the provisioning controller's fields, so surface
		// the error instead.
		return err
	}
}
