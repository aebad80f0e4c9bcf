package triage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/guru03-coder/MediVerse/internal/ai"
	"github.com/guru03-coder/MediVerse/internal/metrics"
	"github.com/guru03-coder/MediVerse/internal/models"
)

// Fallback reasons reported to metrics and logs
const (
	reasonNotConfigured = "not_configured"
	reasonTimeout       = "timeout"
	reasonInvalid       = "invalid_response"
	reasonUnavailable   = "unavailable"
	reasonAPIError      = "api_error"
)

// FallbackAssessor tries the model classifier first and answers with the
// keyword rules whenever that fails.
type FallbackAssessor struct {
	primary Classifier
	rules   *RuleBasedClassifier
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewFallbackAssessor wires an assessor. primary may be nil when no model is configured.
func NewFallbackAssessor(primary Classifier, rules *RuleBasedClassifier, logger zerolog.Logger, m *metrics.Metrics) *FallbackAssessor {
	return &FallbackAssessor{
		primary: primary,
		rules:   rules,
		logger:  logger.With().Str("component", "triage").Logger(),
		metrics: m,
	}
}

// Assess implements Assessor
func (a *FallbackAssessor) Assess(ctx context.Context, symptoms string, vitals models.Vitals) models.Prediction {
	start := time.Now()

	if a.primary != nil {
		p, err := a.primary.Classify(ctx, symptoms, vitals)
		if err == nil {
			a.metrics.RecordAssessment(string(p.Source), string(p.RiskLevel), time.Since(start))
			return p
		}
		reason := fallbackReason(err)
		a.logger.Warn().Err(err).Str("reason", reason).Msg("model assessment failed, using rules")
		a.metrics.RecordRuleFallback(reason)
	} else {
		a.logger.Warn().Str("reason", reasonNotConfigured).Msg("no model configured, using rules")
		a.metrics.RecordRuleFallback(reasonNotConfigured)
	}

	p, err := a.rules.Classify(ctx, symptoms, vitals)
	if err != nil {
		// caller went away while the delay ran; still answer
		p = a.rules.Match(symptoms)
	}
	a.metrics.RecordAssessment(string(p.Source), string(p.RiskLevel), time.Since(start))
	return p
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPrediction), errors.Is(err, ai.ErrEmptyResponse), errors.Is(err, ai.ErrBlocked):
		return reasonInvalid
	case errors.Is(err, ai.ErrContextDeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, ai.ErrModelUnavailable), errors.Is(err, ai.ErrRateLimitExceeded):
		return reasonUnavailable
	}
	return reasonAPIError
}
