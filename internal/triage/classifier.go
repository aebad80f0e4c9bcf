package triage

import (
	"context"
	"errors"
	"time"

	"github.com/guru03-coder/MediVerse/internal/models"
)

// ErrInvalidPrediction is returned when a model reply cannot be turned into a Prediction
var ErrInvalidPrediction = errors.New("invalid prediction")

// Classifier maps presenting symptoms and vitals to a prediction
type Classifier interface {
	// Classify returns a prediction or an error when it could not produce one
	Classify(ctx context.Context, symptoms string, vitals models.Vitals) (models.Prediction, error)
}

// Assessor is the contract used by callers that need an answer no matter what.
// Assess never fails; a broken model path degrades to the keyword rules.
type Assessor interface {
	Assess(ctx context.Context, symptoms string, vitals models.Vitals) models.Prediction
}

// ClassifierConfig contains configuration options for the classifiers
type ClassifierConfig struct {
	// MinLatency and MaxLatency bound the simulated delay before a rule result.
	// Both zero disables the delay.
	MinLatency time.Duration
	MaxLatency time.Duration

	// ModelTimeout bounds a single LLM call
	ModelTimeout time.Duration
}
