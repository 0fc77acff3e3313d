// Package metrics exposes body-tracking counters and gauges as Prometheus
// collectors. Serving them is left to the host application.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the tracker's collectors.
type Metrics struct {
	FramesProcessed    prometheus.Counter
	ActiveChanges      prometheus.Counter
	SkeletonMapErrors  prometheus.Counter
	TrackedBodies      prometheus.Gauge
	ActiveBodyID       prometheus.Gauge
	SelectionsByPolicy *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg. A nil reg gets a
// fresh private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bodytrack_frames_processed_total",
			Help: "Total body frames processed",
		}),
		ActiveChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bodytrack_active_changes_total",
			Help: "Total changes of the active body",
		}),
		SkeletonMapErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bodytrack_skeleton_map_errors_total",
			Help: "Skeleton mappings rejected for incomplete or invalid joints",
		}),
		TrackedBodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bodytrack_tracked_bodies",
			Help: "Bodies in the latest frame",
		}),
		ActiveBodyID: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bodytrack_active_body_id",
			Help: "Active body id (-1 when none)",
		}),
		SelectionsByPolicy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bodytrack_selections_total",
			Help: "Frames whose active body came from each policy",
		}, []string{"policy"}),
	}
	m.ActiveBodyID.Set(-1)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	reg.MustRegister(
		m.FramesProcessed,
		m.ActiveChanges,
		m.SkeletonMapErrors,
		m.TrackedBodies,
		m.ActiveBodyID,
		m.SelectionsByPolicy,
	)
	return m
}

// ObserveFrame records one processed frame.
func (m *Metrics) ObserveFrame(bodies int, activeID int, policy string) {
	if m == nil {
		return
	}
	m.FramesProcessed.Inc()
	m.TrackedBodies.Set(float64(bodies))
	m.ActiveBodyID.Set(float64(activeID))
	if policy != "" {
		m.SelectionsByPolicy.WithLabelValues(policy).Inc()
	}
}

// ObserveActiveChange records a change of active body.
func (m *Metrics) ObserveActiveChange() {
	if m == nil {
		return
	}
	m.ActiveChanges.Inc()
}

// ObserveMapError records a rejected skeleton.
func (m *Metrics) ObserveMapError() {
	if m == nil {
		return
	}
	m.SkeletonMapErrors.Inc()
}

// Handler serves the collectors in the Prometheus exposition format. It is
// nil when the registerer passed to New cannot gather.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return nil
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
