// Package metrics provides Prometheus-based metrics recording for the
// navigation engine: state activations, detector probes, and initial-state
// resolutions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives engine observations. The Prometheus implementation below
// is the production recorder; Noop disables recording.
type Recorder interface {
	ObserveActivation(state string)
	ObserveRemoval(state string)
	ObserveProbe(state string, success bool)
	ObserveResolution(mode, outcome string, duration time.Duration)
}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	activationsTotal   *prometheus.CounterVec
	removalsTotal      *prometheus.CounterVec
	probesTotal        *prometheus.CounterVec
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder registered on reg. A nil registerer
// uses the default Prometheus registry.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		activationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navigator_state_activations_total",
				Help: "Total number of state activations by state name",
			},
			[]string{"state"},
		),
		removalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navigator_state_removals_total",
				Help: "Total number of state removals by state name",
			},
			[]string{"state"},
		),
		probesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navigator_probes_total",
				Help: "Total number of detector probes by state and result",
			},
			[]string{"state", "result"},
		),
		resolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navigator_resolutions_total",
				Help: "Total number of initial-state resolutions by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		resolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "navigator_resolution_duration_seconds",
				Help:    "Duration of initial-state resolutions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
	}
}

// ObserveActivation records one state activation.
func (p *PrometheusRecorder) ObserveActivation(state string) {
	p.activationsTotal.WithLabelValues(state).Inc()
}

// ObserveRemoval records one state removal.
func (p *PrometheusRecorder) ObserveRemoval(state string) {
	p.removalsTotal.WithLabelValues(state).Inc()
}

// ObserveProbe records one detector probe.
func (p *PrometheusRecorder) ObserveProbe(state string, success bool) {
	result := "miss"
	if success {
		result = "found"
	}
	p.probesTotal.WithLabelValues(state, result).Inc()
}

// ObserveResolution records one initial-state resolution.
func (p *PrometheusRecorder) ObserveResolution(mode, outcome string, duration time.Duration) {
	p.resolutionsTotal.WithLabelValues(mode, outcome).Inc()
	p.resolutionDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// Noop is a Recorder that discards all observations.
type Noop struct{}

// ObserveActivation implements Recorder.
func (Noop) ObserveActivation(string) {}

// ObserveRemoval implements Recorder.
func (Noop) ObserveRemoval(string) {}

// ObserveProbe implements Recorder.
func (Noop) ObserveProbe(string, bool) {}

// ObserveResolution implements Recorder.
func (Noop) ObserveResolution(string, string, time.Duration) {}
