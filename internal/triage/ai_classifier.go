package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guru03-coder/MediVerse/internal/ai"
	"github.com/guru03-coder/MediVerse/internal/models"
)

const defaultModelTimeout = 10 * time.Second

const assessmentPrompt = `Act as an expert triage nurse system.
Analyze these symptoms: %q and vitals: %s.
Return a JSON object ONLY with the following structure (no markdown, no backticks):
{
    "riskLevel": "CRITICAL" | "URGENT" | "STABLE",
    "confidence": number (0-100),
    "recommendedDept": %s,
    "reasoning": "Short clinical explanation (max 10 words)"
}`

// AIClassifier asks an LLM for a structured prediction and validates the reply strictly
type AIClassifier struct {
	model   ai.Model
	timeout time.Duration
}

// NewAIClassifier creates a classifier backed by model
func NewAIClassifier(model ai.Model, config ClassifierConfig) *AIClassifier {
	timeout := config.ModelTimeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &AIClassifier{model: model, timeout: timeout}
}

// Classify implements the Classifier interface. It makes exactly one model call.
func (c *AIClassifier) Classify(ctx context.Context, symptoms string, vitals models.Vitals) (models.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.ProcessText(ctx, BuildAssessmentPrompt(symptoms, vitals))
	if err != nil {
		return models.Prediction{}, fmt.Errorf("model %s: %w", c.model.Name(), err)
	}

	return ParseModelPrediction(resp.Content)
}

// BuildAssessmentPrompt renders the prompt sent to the model
func BuildAssessmentPrompt(symptoms string, vitals models.Vitals) string {
	vitalsJSON, err := json.Marshal(vitals)
	if err != nil {
		vitalsJSON = []byte("{}")
	}

	depts := make([]string, len(models.Departments))
	for i, d := range models.Departments {
		depts[i] = fmt.Sprintf("%q", d)
	}

	return fmt.Sprintf(assessmentPrompt, symptoms, vitalsJSON, strings.Join(depts, " | "))
}

type modelPrediction struct {
	RiskLevel       *string  `json:"riskLevel"`
	Confidence      *float64 `json:"confidence"`
	RecommendedDept *string  `json:"recommendedDept"`
	Reasoning       *string  `json:"reasoning"`
}

// ParseModelPrediction validates a model reply. Markdown fences are tolerated;
// unknown or missing fields, wrong types, unknown enumerations and
// out-of-range confidences are all rejected with ErrInvalidPrediction.
func ParseModelPrediction(content string) (models.Prediction, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(ai.ExtractJSON(content))))
	dec.DisallowUnknownFields()

	var raw modelPrediction
	if err := dec.Decode(&raw); err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.Prediction{}, fmt.Errorf("%w: trailing data after object", ErrInvalidPrediction)
	}

	switch {
	case raw.RiskLevel == nil:
		return models.Prediction{}, fmt.Errorf("%w: riskLevel is missing", ErrInvalidPrediction)
	case raw.Confidence == nil:
		return models.Prediction{}, fmt.Errorf("%w: confidence is missing", ErrInvalidPrediction)
	case raw.RecommendedDept == nil:
		return models.Prediction{}, fmt.Errorf("%w: recommendedDept is missing", ErrInvalidPrediction)
	case raw.Reasoning == nil || strings.TrimSpace(*raw.Reasoning) == "":
		return models.Prediction{}, fmt.Errorf("%w: reasoning is missing", ErrInvalidPrediction)
	}

	risk, err := models.ParseRiskLevel(*raw.RiskLevel)
	if err != nil || !risk.Assessed() {
		return models.Prediction{}, fmt.Errorf("%w: riskLevel %q", ErrInvalidPrediction, *raw.RiskLevel)
	}

	dept, err := models.ParseDepartment(*raw.RecommendedDept)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}

	// the prompt asks for a percentage, so 1 means 1%
	confidence, err := models.ValidatePercent(*raw.Confidence)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}

	return models.Prediction{
		RiskLevel:       risk,
		Confidence:      confidence,
		RecommendedDept: dept,
		Reasoning:       strings.TrimSpace(*raw.Reasoning),
		Source:          models.SourceAI,
	}, nil
}
