package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guru03-coder/MediVerse/internal/intake"
	"github.com/guru03-coder/MediVerse/internal/metrics"
	"github.com/guru03-coder/MediVerse/internal/models"
	"github.com/guru03-coder/MediVerse/internal/store"
	"github.com/guru03-coder/MediVerse/internal/triage"
)

// Handler serves the triage service endpoints from the clinical store
type Handler struct {
	store    *store.Store
	assessor triage.Assessor
	insights *triage.InsightGenerator
	intake   *intake.Service
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewHandler creates a new API handler
func NewHandler(st *store.Store, assessor triage.Assessor, insights *triage.InsightGenerator, intakeSvc *intake.Service, m *metrics.Metrics, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    st,
		assessor: assessor,
		insights: insights,
		intake:   intakeSvc,
		metrics:  m,
		logger:   logger,
	}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))

	e.GET("/dashboard/stats", h.GetStats)
	e.GET("/dashboard/analytics", h.GetAnalytics)

	e.GET("/patients", h.ListPatients)
	e.GET("/patients/queue", h.Queue)
	e.POST("/patients/:id/discharge", h.DischargePatient)
	e.GET("/patients/:id/insight", h.PatientInsight)

	e.GET("/departments/:id/doctors", h.ListDoctors)
	e.GET("/availability", h.GetAvailability)
	e.POST("/availability", h.SetAvailability)
	e.POST("/doctor/add", h.AddDoctor)
	e.POST("/doctor/:id/activate", h.ActivateDoctor)

	e.POST("/predict", h.Predict)
	e.POST("/intake", h.Intake)
	e.POST("/intake/sos", h.SOS)
}

// Health reports liveness
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.GetStats())
}

func (h *Handler) GetAnalytics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.GetAnalytics())
}

func (h *Handler) ListPatients(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.GetPatients())
}

// Queue lists waiting patients in the order they should be seen
func (h *Handler) Queue(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Queue())
}

// DischargePatient accepts a patient id or patient code
func (h *Handler) DischargePatient(c echo.Context) error {
	id := c.Param("id")
	if !h.store.DischargePatient(id) {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	h.metrics.RecordDischarge()
	h.logger.Info().Str("patient_id", id).Msg("patient discharged")
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": id})
}

// PatientInsight returns an LLM-written clinical note for a waiting patient
func (h *Handler) PatientInsight(c echo.Context) error {
	p, ok := h.store.Patient(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"patient_id": p.ID,
		"insight":    h.insights.Insight(c.Request().Context(), p),
	})
}

// ListDoctors lists a department's doctors, on duty or not. id may be a department name.
func (h *Handler) ListDoctors(c echo.Context) error {
	if _, ok := h.store.Department(c.Param("id")); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "department not found")
	}
	doctors := h.store.Doctors(c.Param("id"))
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) GetAvailability(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Availability())
}

// SetAvailability marks a department as accepting patients or full.
// Patients recommended to a full department are admitted to General.
func (h *Handler) SetAvailability(c echo.Context) error {
	var req models.AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.IsAvailable == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_available is required")
	}
	if !h.store.SetAvailability(req.Dept, *req.IsAvailable) {
		return echo.NewHTTPError(http.StatusNotFound, "department not found")
	}
	h.logger.Info().Str("department", req.Dept).Bool("available", *req.IsAvailable).Msg("department availability changed")
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"availability": h.store.Availability(),
	})
}

// AddDoctor adds an off-duty doctor; department_id may also be a department name
func (h *Handler) AddDoctor(c echo.Context) error {
	var req models.AddDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doc, ok := h.store.HireDoctor(req.DepartmentID, req.Name)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required and department_id must name a known department")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) ActivateDoctor(c echo.Context) error {
	if !h.store.ActivateDoctor(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": c.Param("id")})
}

// Predict triages one request. Confidence is returned as a fraction.
func (h *Handler) Predict(c echo.Context) error {
	var req models.PredictRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	vitals := models.Vitals{BloodPressure: req.BloodPressure}
	if req.HeartRate > 0 {
		vitals.HeartRate = strconv.Itoa(req.HeartRate)
	}
	if req.Temperature > 0 {
		vitals.Temperature = strconv.FormatFloat(req.Temperature, 'f', -1, 64)
	}

	p := h.assessor.Assess(c.Request().Context(), req.Symptoms, vitals)
	return c.JSON(http.StatusOK, p.Response())
}

// Intake triages an intake form and admits the patient
func (h *Handler) Intake(c echo.Context) error {
	var form intake.Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.intake.Submit(c.Request().Context(), form))
}

// SOS admits an emergency without classification. An empty body is allowed.
func (h *Handler) SOS(c echo.Context) error {
	var form intake.Form
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&form); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, h.intake.SOS(form))
}
