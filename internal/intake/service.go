package intake

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/guru03-coder/MediVerse/internal/metrics"
	"github.com/guru03-coder/MediVerse/internal/models"
	"github.com/guru03-coder/MediVerse/internal/store"
	"github.com/guru03-coder/MediVerse/internal/triage"
)

// Values used when an SOS is raised without identifying the patient
const (
	SOSPatientCode = "EMERGENCY"
	SOSPatientName = "Unknown"
	sosReasoning   = "SOS override. Immediate assessment required."

	// PredictionServiceDown is the error attached to a failed remote prediction
	PredictionServiceDown = "Could not connect to prediction service"
)

const defaultTimeout = 30 * time.Second

// Form is a completed patient intake form. Vitals are kept as typed.
type Form struct {
	PatientCode string        `json:"patient_id"`
	Name        string        `json:"name"`
	Age         int           `json:"age"`
	Gender      string        `json:"gender"`
	Symptoms    string        `json:"symptoms"`
	Vitals      models.Vitals `json:"vitals"`
}

// Result is what the triage result page shows
type Result struct {
	PatientCode string            `json:"patient_id"`
	PatientName string            `json:"patient_name"`
	Prediction  models.Prediction `json:"prediction"`
	Vitals      models.Vitals     `json:"vitals"`
	SOS         bool              `json:"sos,omitempty"`
	Patient     *models.Patient   `json:"patient,omitempty"`
}

// Predictor is a remote prediction service
type Predictor interface {
	Predict(ctx context.Context, req models.PredictRequest) (models.Prediction, error)
}

// Admitter puts a triaged patient into the queue
type Admitter interface {
	Admit(a store.Admission) models.Patient
}

// Config contains configuration for the intake service
type Config struct {
	// Admit controls whether triaged patients join the queue
	Admit   bool
	Timeout time.Duration
}

// Service turns intake forms and SOS calls into triage results
type Service struct {
	assessor  triage.Assessor
	predictor Predictor
	admitter  Admitter
	config    Config
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewService creates an intake service. When predictor is non-nil it is used
// instead of the local assessor; admitter may be nil when Admit is false.
func NewService(assessor triage.Assessor, predictor Predictor, admitter Admitter, config Config, logger zerolog.Logger, m *metrics.Metrics) *Service {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	return &Service{
		assessor:  assessor,
		predictor: predictor,
		admitter:  admitter,
		config:    config,
		logger:    logger.With().Str("component", "intake").Logger(),
		metrics:   m,
	}
}

// Submit triages a form. It always produces a result; a failed remote
// prediction is reported as the ERROR risk level.
func (s *Service) Submit(ctx context.Context, form Form) Result {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var prediction models.Prediction
	if s.predictor != nil {
		p, err := s.predictor.Predict(ctx, predictRequest(form))
		if err != nil {
			s.logger.Error().Err(err).Str("patient_id", form.PatientCode).Msg("prediction failed")
			p = models.ErrorPrediction(PredictionServiceDown)
		}
		prediction = p
	} else {
		prediction = s.assessor.Assess(ctx, form.Symptoms, form.Vitals)
	}

	result := Result{
		PatientCode: form.PatientCode,
		PatientName: form.Name,
		Prediction:  prediction,
		Vitals:      form.Vitals.Display(),
	}
	s.admit(&result, form, false)

	s.logger.Info().
		Str("patient_id", result.PatientCode).
		Str("risk_level", string(prediction.RiskLevel)).
		Str("source", string(prediction.Source)).
		Msg("intake triaged")
	return result
}

// SOS raises an emergency without calling any classifier
func (s *Service) SOS(form Form) Result {
	if strings.TrimSpace(form.PatientCode) == "" {
		form.PatientCode = SOSPatientCode
	}
	if strings.TrimSpace(form.Name) == "" {
		form.Name = SOSPatientName
	}

	result := Result{
		PatientCode: form.PatientCode,
		PatientName: form.Name,
		Prediction: models.Prediction{
			RiskLevel:       models.RiskCritical,
			Confidence:      100,
			RecommendedDept: models.General,
			Reasoning:       sosReasoning,
			Source:          models.SourceSOS,
		},
		Vitals: form.Vitals.Display(),
		SOS:    true,
	}
	s.metrics.RecordAssessment(string(models.SourceSOS), string(models.RiskCritical), 0)
	s.admit(&result, form, true)

	s.logger.Warn().Str("patient_id", result.PatientCode).Msg("SOS raised")
	return result
}

func (s *Service) admit(result *Result, form Form, sos bool) {
	if !s.config.Admit || s.admitter == nil {
		return
	}
	vitals := form.Vitals
	if sos {
		// an SOS is stored the way it was shown
		vitals = result.Vitals
	}
	p := s.admitter.Admit(store.Admission{
		PatientCode: form.PatientCode,
		Name:        form.Name,
		Age:         form.Age,
		Gender:      form.Gender,
		Symptoms:    form.Symptoms,
		Vitals:      &vitals,
		Prediction:  result.Prediction,
		SOS:         sos,
	})
	result.Patient = &p
	s.metrics.RecordAdmission(string(p.RiskLevel))
}

// predictRequest maps the form onto the column names of the prediction
// service. Unparseable numbers are sent as zero.
func predictRequest(f Form) models.PredictRequest {
	hr, _ := strconv.Atoi(strings.TrimSpace(f.Vitals.HeartRate))
	temp, _ := strconv.ParseFloat(strings.TrimSpace(f.Vitals.Temperature), 64)
	return models.PredictRequest{
		PatientID:     f.PatientCode,
		Name:          f.Name,
		Age:           f.Age,
		BloodPressure: f.Vitals.BloodPressure,
		HeartRate:     hr,
		Temperature:   temp,
		Gender:        f.Gender,
		Symptoms:      f.Symptoms,
	}
}
