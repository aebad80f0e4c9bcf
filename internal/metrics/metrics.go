package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the triage service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	assessmentsTotal   *prometheus.CounterVec
	assessmentDuration *prometheus.HistogramVec
	fallbacksTotal     *prometheus.CounterVec

	refreshesTotal *prometheus.CounterVec
	viewStale      prometheus.Gauge
	remoteFallback *prometheus.CounterVec

	admissionsTotal *prometheus.CounterVec
	dischargesTotal prometheus.Counter
}

// New creates the collectors and registers them with reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		assessmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_assessments_total",
				Help: "Total number of triage assessments by source and risk level",
			},
			[]string{"source", "risk_level"},
		),
		assessmentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triage_assessment_duration_seconds",
				Help:    "Duration of triage assessments in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 15.0},
			},
			[]string{"source"},
		),
		fallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_rule_fallbacks_total",
				Help: "Total number of assessments that fell back to the keyword rules",
			},
			[]string{"reason"},
		),
		refreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_refreshes_total",
				Help: "Total number of dashboard polls by outcome",
			},
			[]string{"outcome"},
		),
		viewStale: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_view_stale",
				Help: "1 when the dashboard view is not backed by a fresh remote snapshot",
			},
		),
		remoteFallback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_local_fallbacks_total",
				Help: "Total number of dashboard actions served by the local store",
			},
			[]string{"action"},
		),
		admissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patients_admitted_total",
				Help: "Total number of admitted patients by risk level",
			},
			[]string{"risk_level"},
		),
		dischargesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "patients_discharged_total",
				Help: "Total number of discharged patients",
			},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.assessmentsTotal,
		m.assessmentDuration,
		m.fallbacksTotal,
		m.refreshesTotal,
		m.viewStale,
		m.remoteFallback,
		m.admissionsTotal,
		m.dischargesTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordAssessment records a finished triage assessment
func (m *Metrics) RecordAssessment(source, riskLevel string, d time.Duration) {
	if m == nil {
		return
	}
	m.assessmentsTotal.WithLabelValues(source, riskLevel).Inc()
	m.assessmentDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordRuleFallback counts an LLM failure answered by the rules
func (m *Metrics) RecordRuleFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordRefresh counts a dashboard poll outcome: applied, discarded or failed
func (m *Metrics) RecordRefresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshesTotal.WithLabelValues(outcome).Inc()
}

// SetViewStale flags whether the dashboard view is stale
func (m *Metrics) SetViewStale(stale bool) {
	if m == nil {
		return
	}
	if stale {
		m.viewStale.Set(1)
		return
	}
	m.viewStale.Set(0)
}

// RecordLocalFallback counts a dashboard action answered by the local store
func (m *Metrics) RecordLocalFallback(action string) {
	if m == nil {
		return
	}
	m.remoteFallback.WithLabelValues(action).Inc()
}

// RecordAdmission counts an admitted patient
func (m *Metrics) RecordAdmission(riskLevel string) {
	if m == nil {
		return
	}
	m.admissionsTotal.WithLabelValues(riskLevel).Inc()
}

// RecordDischarge counts a discharged patient
func (m *Metrics) RecordDischarge() {
	if m == nil {
		return
	}
	m.dischargesTotal.Inc()
}
