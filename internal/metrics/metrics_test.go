package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordAssessment("rules", "CRITICAL", 900*time.Millisecond)
	m.RecordAssessment("rules", "CRITICAL", time.Second)
	m.RecordRuleFallback("timeout")
	m.RecordRefresh("failed")
	m.SetViewStale(true)
	m.RecordDischarge()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assessmentsTotal.WithLabelValues("rules", "CRITICAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacksTotal.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshesTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.viewStale))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dischargesTotal))

	m.SetViewStale(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.viewStale))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/patients", 200, time.Millisecond)
		m.RecordAssessment("ai", "STABLE", time.Millisecond)
		m.RecordRuleFallback("parse")
		m.RecordRefresh("applied")
		m.SetViewStale(true)
		m.RecordLocalFallback("discharge")
		m.RecordAdmission("URGENT")
		m.RecordDischarge()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordHTTPRequest("GET", "/patients", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `http_requests_total{method="GET",path="/patients",status_code="200"} 1`))
}
