package main

import (
	"github.com/rs/zerolog"

	"github.com/guru03-coder/MediVerse/internal/ai"
	"github.com/guru03-coder/MediVerse/internal/config"
	"github.com/guru03-coder/MediVerse/internal/metrics"
	"github.com/guru03-coder/MediVerse/internal/remote"
	"github.com/guru03-coder/MediVerse/internal/triage"
)

// newModel returns nil when no API key is configured or the model cannot be
// built; triage then runs on rules alone.
func newModel(cfg *config.Config, logger zerolog.Logger) ai.Model {
	key := cfg.ModelAPIKey()
	if key == "" {
		logger.Warn().Msg("no AI model API key configured, using rule-based triage only")
		return nil
	}

	modelType, err := ai.ParseModelType(cfg.AIModelType)
	if err != nil {
		logger.Warn().Err(err).Msg("unknown AI model type, using rule-based triage only")
		return nil
	}

	model, err := ai.GetModel(modelType, ai.ModelConfig{
		APIKey:    key,
		Endpoint:  cfg.AIModelEndpoint,
		ModelName: cfg.AIModelName,
		Timeout:   cfg.AITimeout(),
	})
	if err != nil {
		logger.Warn().Err(err).Str("model_type", string(modelType)).Msg("failed to create AI model")
		return nil
	}

	logger.Info().Str("model_type", string(model.Type())).Str("model", model.Name()).Msg("AI model configured")
	return model
}

func newAssessor(model ai.Model, cc triage.ClassifierConfig, logger zerolog.Logger, m *metrics.Metrics) *triage.FallbackAssessor {
	var primary triage.Classifier
	if model != nil {
		primary = triage.NewAIClassifier(model, cc)
	}
	return triage.NewFallbackAssessor(primary, triage.NewRuleBasedClassifier(cc), logger, m)
}

func newRemote(cfg *config.Config, logger zerolog.Logger) *remote.Client {
	return remote.New(remote.Config{
		BaseURL: cfg.RemoteAPIURL,
		Timeout: cfg.RemoteTimeout(),
	}, logger)
}
