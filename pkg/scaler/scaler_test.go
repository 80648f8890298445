package scaler

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	rtv1 "github.com/critical-rt/rtresource-scaler/api/v1"
	"github.com/critical-rt/rtresource-scaler/pkg/config"
)

// fakeRTClient records every object handed to CreateOrUpdate and returns a
// configurable error.
type fakeRTClient struct {
	applied        []*rtv1.RTResource
	createOrUpdate error
}

func (f *fakeRTClient) Get(ctx context.Context, name, namespace string) (*rtv1.RTResource, error) {
	return nil, apierrors.NewNotFound(rtv1.GroupVersion.WithResource(rtv1.Resource).GroupResource(), name)
}

func (f *fakeRTClient) Create(ctx context.Context, rt *rtv1.RTResource) error {
	return nil
}

func (f *fakeRTClient) Update(ctx context.Context, rt *rtv1.RTResource) error {
	return nil
}

func (f *fakeRTClient) CreateOrUpdate(ctx context.Context, rt *rtv1.RTResource) error {
	f.applied = append(f.applied, rt.DeepCopy())
	return f.createOrUpdate
}

var _ = Describe("Scale", func() {
	var (
		ctx      context.Context
		rtClient *fakeRTClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		rtClient = &fakeRTClient{}
	})

	Context("when the decision loop has not computed a scale yet", func() {
		It("passes the sentinel through without any remote call", func() {
			s := NewScaler(rtClient)

			got, err := s.Scale(ctx, Target{Name: "svc-a", Namespace: "default"}, ScaleUnknown)

			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(int32(ScaleUnknown)))
			Expect(rtClient.applied).To(BeEmpty())
		})
	})

	Context("when a scale is requested", func() {
		It("submits one RTResource carrying only identity and replica count", func() {
			s := NewScaler(rtClient)

			got, err := s.Scale(ctx, Target{Name: "svc-a", Namespace: "default"}, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(int32(3)))
			Expect(rtClient.applied).To(HaveLen(1))

			rt := rtClient.applied[0]
			Expect(rt.Name).To(Equal("svc-a"))
			Expect(rt.Namespace).To(Equal("default"))
			Expect(rt.Kind).To(Equal("RTResource"))
			Expect(rt.APIVersion).To(Equal("rtgroup.critical.com/v1"))
			Expect(rt.Spec.ReplicaCount).To(Equal(int32(3)))
			Expect(rt.Spec.CPU).To(BeEmpty())
			Expect(rt.Spec.Memory).To(BeEmpty())
			Expect(rt.Spec.Image).To(BeEmpty())
			Expect(rt.Spec.Criticality).To(BeZero())
		})

		It("is idempotent across repeated identical requests", func() {
			s := NewScaler(rtClient)

			for i := 0; i < 2; i++ {
				got, err := s.Scale(ctx, Target{Name: "svc-b", Namespace: "default"}, 4)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(int32(4)))
			}

			Expect(rtClient.applied).To(HaveLen(2))
			Expect(rtClient.applied[0].Spec.ReplicaCount).To(Equal(rtClient.applied[1].Spec.ReplicaCount))
		})

		It("records the applied value in the desired-replicas gauge", func() {
			s := NewScaler(rtClient)

			_, err := s.Scale(ctx, Target{Name: "svc-gauge", Namespace: "metrics"}, 7)
			Expect(err).NotTo(HaveOccurred())

			value := testutil.ToFloat64(desiredReplicasGauge.WithLabelValues("svc-gauge", "metrics"))
			Expect(value).To(Equal(7.0))
		})
	})

	Context("when the resource store rejects the write", func() {
		var conflict error

		BeforeEach(func() {
			conflict = apierrors.NewConflict(
				rtv1.GroupVersion.WithResource(rtv1.Resource).GroupResource(),
				"svc-c",
				fmt.Errorf("the object has been modified"),
			)
			rtClient.createOrUpdate = conflict
		})

		It("still returns the desired value and surfaces the error as a diagnostic", func() {
			s := NewScaler(rtClient)

			got, err := s.Scale(ctx, Target{Name: "svc-c", Namespace: "default"}, 5)

			Expect(got).To(Equal(int32(5)))
			Expect(err).To(MatchError(conflict))
		})

		It("counts the swallowed failure by API reason", func() {
			s := NewScaler(rtClient)

			before := testutil.ToFloat64(applyFailuresCounter.WithLabelValues("svc-c", "default", "Conflict"))
			_, _ = s.Scale(ctx, Target{Name: "svc-c", Namespace: "default"}, 5)
			after := testutil.ToFloat64(applyFailuresCounter.WithLabelValues("svc-c", "default", "Conflict"))

			Expect(after - before).To(Equal(1.0))
		})
	})

	Context("when provisioning profiles are configured", func() {
		It("stamps the namespace profile onto the built object", func() {
			profiles := config.Profiles{
				"default": {CPU: "700m", Memory: "200Mi", Criticality: 2, Image: "nginx:latest"},
			}
			s := NewScaler(rtClient, WithProfiles(profiles))

			_, err := s.Scale(ctx, Target{Name: "svc-d", Namespace: "default"}, 2)
			Expect(err).NotTo(HaveOccurred())

			Expect(rtClient.applied).To(HaveLen(1))
			rt := rtClient.applied[0]
			Expect(rt.Spec.ReplicaCount).To(Equal(int32(2)))
			Expect(rt.Spec.CPU).To(Equal("700m"))
			Expect(rt.Spec.Memory).To(Equal("200Mi"))
			Expect(rt.Spec.Criticality).To(Equal(2))
			Expect(rt.Spec.Image).To(Equal("nginx:latest"))
			Expect(rt.Spec.Namespace).To(Equal("default"))
		})

		It("leaves the object bare for namespaces without a profile", func() {
			profiles := config.Profiles{
				"other": {Namespace: "other", CPU: "250m"},
			}
			s := NewScaler(rtClient, WithProfiles(profiles))

			_, err := s.Scale(ctx, Target{Name: "svc-e", Namespace: "default"}, 1)
			Expect(err).NotTo(HaveOccurred())

			rt := rtClient.applied[0]
			Expect(rt.Spec.CPU).To(BeEmpty())
			Expect(rt.Spec.Namespace).To(BeEmpty())
		})
	})
})

var _ = Describe("TargetFor", func() {
	It("derives the name from the service label and copies the namespace", func() {
		obj := &metav1.ObjectMeta{
			Name:      "svc-a-deadbeef",
			Namespace: "default",
			Labels:    map[string]string{ServiceLabelKey: "svc-a"},
		}

		target, err := TargetFor(obj)

		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(Target{Name: "svc-a", Namespace: "default"}))
	})

	It("rejects objects without the service label", func() {
		obj := &metav1.ObjectMeta{Name: "svc-a-deadbeef", Namespace: "default"}

		_, err := TargetFor(obj)

		Expect(err).To(MatchError(ContainSubstring(ServiceLabelKey)))
	})
})
