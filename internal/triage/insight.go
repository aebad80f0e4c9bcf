package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/guru03-coder/MediVerse/internal/ai"
	"github.com/guru03-coder/MediVerse/internal/models"
)

// Messages returned in place of an insight
const (
	InsightUnavailable = "AI Service Unavailable: Missing API Key."
	InsightFailed      = "AI Analysis failed due to an error."
)

const insightPrompt = `Act as an expert triage nurse assistant. Analyze this patient case:

- Symptoms: %s
- Vitals: %s
- Age/Gender: %s / %s
- Assigned Risk: %s

Provide a concise response (max 3 bullet points) with:
1. Potential Differential Diagnosis (Top 2)
2. Recommended Immediate Nursing Action
3. Justification for the Risk Level

Format as clear Markdown.`

// InsightGenerator produces a short markdown note for clinicians about one patient
type InsightGenerator struct {
	model   ai.Model
	timeout time.Duration
	logger  zerolog.Logger
}

// NewInsightGenerator creates a generator. model may be nil.
func NewInsightGenerator(model ai.Model, timeout time.Duration, logger zerolog.Logger) *InsightGenerator {
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &InsightGenerator{model: model, timeout: timeout, logger: logger}
}

// Insight never fails; problems are reported in the returned text
func (g *InsightGenerator) Insight(ctx context.Context, p models.Patient) string {
	if g.model == nil {
		return InsightUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.ProcessText(ctx, buildInsightPrompt(p))
	if err != nil {
		g.logger.Error().Err(err).Str("patient_id", p.ID).Msg("insight generation failed")
		return InsightFailed
	}
	return strings.TrimSpace(resp.Content)
}

func buildInsightPrompt(p models.Patient) string {
	vitals := "N/A"
	if p.Vitals != nil {
		v := p.Vitals.Display()
		vitals = fmt.Sprintf("HR %s, BP %s, SpO2 %s, Temp %s", v.HeartRate, v.BloodPressure, v.SpO2, v.Temperature)
	}
	return fmt.Sprintf(insightPrompt,
		orNA(p.Symptoms),
		vitals,
		orNA(ageText(p.Age)),
		orNA(p.Gender),
		orNA(string(p.RiskLevel)),
	)
}

func ageText(age int) string {
	if age <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", age)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
