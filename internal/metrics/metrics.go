// Package metrics exposes Prometheus collectors for the analysis pipeline and
// the HTTP layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zmood"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Analysis holds the collectors updated by the analyze service.
type Analysis struct {
	Total          *prometheus.CounterVec
	Failures       *prometheus.CounterVec
	Duration       prometheus.Histogram
	HistoryEntries prometheus.Gauge
}

// NewAnalysis creates and registers the analysis collectors on reg.
func NewAnalysis(reg prometheus.Registerer) *Analysis {
	m := &Analysis{
		Total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "total",
			Help:      "Completed analyses by scoring path and dominant emotion.",
		}, []string{"path", "dominant_emotion"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "failures_total",
			Help:      "Rejected or failed analyses by reason.",
		}, []string{"reason"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Time spent scoring a single text.",
			Buckets:   prometheus.DefBuckets,
		}),
		HistoryEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "entries",
			Help:      "Entries currently retained in the history store.",
		}),
	}

	reg.MustRegister(m.Total, m.Failures, m.Duration, m.HistoryEntries)
	return m
}

// ObserveSuccess records a completed analysis.
func (m *Analysis) ObserveSuccess(path, dominant string, seconds float64, entries int) {
	if m == nil {
		return
	}
	m.Total.WithLabelValues(path, dominant).Inc()
	m.Duration.Observe(seconds)
	m.HistoryEntries.Set(float64(entries))
}

// ObserveFailure records a rejected or failed analysis.
func (m *Analysis) ObserveFailure(reason string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(reason).Inc()
}

// SetEntries updates the history gauge.
func (m *Analysis) SetEntries(entries int) {
	if m == nil {
		return
	}
	m.HistoryEntries.Set(float64(entries))
}
