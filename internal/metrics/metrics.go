// Package metrics exposes prometheus collectors for the refresh
// pipeline. Collectors register on the registry passed to New, so tests
// can use a private registry while the binary uses the default one.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	refreshTotal    *prometheus.CounterVec
	sourceErrors    *prometheus.CounterVec
	refreshDuration prometheus.Summary
	tournamentCount prometheus.Gauge
	lastSuccessTS   prometheus.Gauge
}

// New builds and registers the collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{}

	m.refreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sandcal",
		Name:      "refresh_total",
		Help:      "Number of refresh runs by outcome",
	}, []string{"status"})
	m.sourceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sandcal",
		Name:      "source_errors_total",
		Help:      "Number of failed source fetches by source",
	}, []string{"source"})
	m.refreshDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "sandcal",
		Name:      "refresh_duration_seconds",
		Help:      "Wall-clock duration of refresh runs",
	})
	m.tournamentCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sandcal",
		Name:      "tournaments",
		Help:      "Number of tournaments in the current cache document",
	})
	m.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sandcal",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful refresh",
	})

	reg.MustRegister(
		m.refreshTotal, m.sourceErrors,
		m.refreshDuration, m.tournamentCount, m.lastSuccessTS,
	)
	return m
}

// ObserveRefresh records one completed refresh run.
func (m *Metrics) ObserveRefresh(duration time.Duration, tournaments int, sourceErrors map[string]string) {
	if m == nil {
		return
	}
	status := "success"
	if len(sourceErrors) > 0 {
		status = "partial"
	}
	m.refreshTotal.WithLabelValues(status).Inc()
	for source := range sourceErrors {
		m.sourceErrors.WithLabelValues(source).Inc()
	}
	m.refreshDuration.Observe(duration.Seconds())
	m.tournamentCount.Set(float64(tournaments))
	m.lastSuccessTS.Set(float64(time.Now().Unix()))
}

// ObserveFailure records a refresh that produced no cache update.
func (m *Metrics) ObserveFailure() {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues("failure").Inc()
}
