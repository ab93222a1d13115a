package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	classifyTotal    *prometheus.CounterVec
	classifyDuration *prometheus.HistogramVec
	classifyInFlight prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	classifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "classify_total",
			Help:      "Total queued classifications by resulting document type.",
		},
		[]string{"service", "document_type", "status"},
	)
	classifyDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "classify_duration_seconds",
			Help:      "Queued classification duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	classifyInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "classify_in_flight",
			Help:        "Number of in-flight queued classifications.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)

	registry.MustRegister(classifyTotal, classifyDuration, classifyInFlight)

	return &WorkerMetrics{
		registry:         registry,
		classifyTotal:    classifyTotal,
		classifyDuration: classifyDuration,
		classifyInFlight: classifyInFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartClassification() {
	m.classifyInFlight.Inc()
}

// FinishClassification records docType as "none" when err is set.
func (m *WorkerMetrics) FinishClassification(service, docType string, duration time.Duration, err error) {
	m.classifyInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
		docType = "none"
	}
	m.classifyTotal.WithLabelValues(service, docType, status).Inc()
	m.classifyDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}
