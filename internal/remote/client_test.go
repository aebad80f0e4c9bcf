package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guru03-coder/MediVerse/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: time.Second}, zerolog.Nop())
}

func TestClient_Reads(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/dashboard/stats":
			_, _ = w.Write([]byte(`{"departments":{"Cardiology":{"id":"cardio_1","active_doctors":3,"wait_time":15,"status":"active"}},"queue":{"high_risk_waiting":2}}`))
		case "/dashboard/analytics":
			_, _ = w.Write([]byte(`{"risk_distribution":[{"name":"CRITICAL","value":12}],"model_accuracy":[{"name":"Precision","value":94}]}`))
		case "/patients":
			_, _ = w.Write([]byte(`[{"id":"p9","patient_code":"P-9999","risk_level":"URGENT","assigned_department":"Neurology","created_at":"2025-03-10T14:00:00Z"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Departments[models.Cardiology].ActiveDoctors)
	assert.Equal(t, 2, stats.Queue.HighRiskWaiting)

	analytics, err := c.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, analytics.RiskDistribution[0].Value)

	patients, err := c.Patients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "P-9999", patients[0].PatientCode)
	assert.Equal(t, models.RiskUrgent, patients[0].RiskLevel)
}

func TestClient_Failures(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"db down"}`))
		})
		_, err := c.Stats(context.Background())
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("malformed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		})
		_, err := c.Patients(context.Background())
		assert.ErrorIs(t, err, ErrMalformedBody)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := New(Config{BaseURL: srv.URL}, zerolog.Nop())
		_, err := c.Analytics(context.Background())
		assert.ErrorIs(t, err, ErrUnreachable)
	})
}

func TestClient_Mutations(t *testing.T) {
	var gotDoctor models.AddDoctorRequest
	var dischargePath string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		switch r.URL.Path {
		case "/doctor/add":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotDoctor))
			_, _ = w.Write([]byte(`{"success":true}`))
		case "/patients/P-1024/discharge":
			dischargePath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	require.NoError(t, c.AddDoctor(ctx, models.AddDoctorRequest{Name: "Dr. Who", DepartmentID: "cardio_1"}))
	assert.Equal(t, "cardio_1", gotDoctor.DepartmentID)

	require.NoError(t, c.DischargePatient(ctx, "P-1024"))
	assert.Equal(t, "/patients/P-1024/discharge", dischargePath)

	assert.ErrorIs(t, c.DischargePatient(ctx, "missing"), ErrUnexpectedStatus)
}

func TestClient_Predict(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"risk_level":"High","confidence":0.87,"recommended_dept":"Cardiology","safety_advice":"Stay seated."}`))
	})

	p, err := c.Predict(context.Background(), models.PredictRequest{
		PatientID:     "P-1",
		BloodPressure: "120/80",
		HeartRate:     95,
		Symptoms:      "chest tightness",
	})
	require.NoError(t, err)

	assert.Equal(t, "120/80", got["Blood Pressure"])
	assert.Equal(t, 95.0, got["Heart Rate"])
	assert.Equal(t, models.RiskUrgent, p.RiskLevel)
	assert.InDelta(t, 87.0, p.Confidence, 1e-9)
	assert.Equal(t, models.SourceRemote, p.Source)
	assert.Equal(t, "Stay seated.", p.SafetyAdvice)
}

func TestClient_PredictRejectsInvalid(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"risk_level":"PURPLE","confidence":0.5,"recommended_dept":"General"}`))
	})

	_, err := c.Predict(context.Background(), models.PredictRequest{Symptoms: "x"})
	assert.ErrorIs(t, err, ErrMalformedBody)
}
