package scaler

import (
	"github.com/prometheus/client_golang/prometheus"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	desiredReplicasGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rt_scaler_desired_replicas",
			Help: "Last desired replica count successfully applied per RTResource.",
		},
		[]string{"name", "namespace"},
	)

	applyFailuresCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rt_scaler_apply_failures_total",
			Help: "Swallowed scale-apply failures per RTResource, by API error reason.",
		},
		[]string{"name", "namespace", "reason"},
	)
)

func init() {
	metrics.Registry.MustRegister(desiredReplicasGauge, applyFailuresCounter)
}

func recordDesiredReplicas(target Target, desiredScale int32) {
	desiredReplicasGauge.WithLabelValues(target.Name, target.Namespace).Set(float64(desiredScale))
}

func recordApplyFailure(target Target, err error) {
	reason := string(apierrors.ReasonForError(err))
	if reason == "" {
		reason = "Unknown"
	}
	applyFailuresCounter.WithLabelValues(target.Name, target.Namespace, reason).Inc()
}
