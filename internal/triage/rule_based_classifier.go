package triage

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/guru03-coder/MediVerse/internal/models"
)

// rule maps a set of symptom keywords onto a fixed prediction
type rule struct {
	keywords   []string
	risk       models.RiskLevel
	confidence float64
	dept       models.DepartmentName
	reasoning  string
}

// Rules are checked in order and the first match wins
var defaultRules = []rule{
	{
		keywords:   []string{"chest", "heart"},
		risk:       models.RiskCritical,
		confidence: 95,
		dept:       models.Cardiology,
		reasoning:  "Potential acute coronary syndrome suspected.",
	},
	{
		keywords:   []string{"head", "vision", "stroke"},
		risk:       models.RiskCritical,
		confidence: 92,
		dept:       models.Neurology,
		reasoning:  "Neurological deficit, rule out CVA.",
	},
	{
		keywords:   []string{"bone", "fracture", "leg", "arm"},
		risk:       models.RiskUrgent,
		confidence: 88,
		dept:       models.Orthopedics,
		reasoning:  "Trauma detected, imaging required.",
	},
}

var stableRule = rule{
	risk:       models.RiskStable,
	confidence: 75,
	dept:       models.General,
	reasoning:  "Vitals stable, routine monitoring.",
}

// RuleBasedClassifier implements a deterministic keyword classifier
type RuleBasedClassifier struct {
	rules      []rule
	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRuleBasedClassifier creates a new rule-based classifier
func NewRuleBasedClassifier(config ClassifierConfig) *RuleBasedClassifier {
	if config.MaxLatency < config.MinLatency {
		config.MaxLatency = config.MinLatency
	}
	return &RuleBasedClassifier{
		rules:      defaultRules,
		minLatency: config.MinLatency,
		maxLatency: config.MaxLatency,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Match returns the rule prediction for symptoms without any delay
func (c *RuleBasedClassifier) Match(symptoms string) models.Prediction {
	s := strings.ToLower(symptoms)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(s, kw) {
				return r.prediction()
			}
		}
	}
	return stableRule.prediction()
}

// Classify implements the Classifier interface. It waits for the configured
// latency first and returns ctx.Err() if the context ends while waiting.
func (c *RuleBasedClassifier) Classify(ctx context.Context, symptoms string, _ models.Vitals) (models.Prediction, error) {
	if d := c.latency(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.Prediction{}, ctx.Err()
		case <-timer.C:
		}
	}
	return c.Match(symptoms), nil
}

func (c *RuleBasedClassifier) latency() time.Duration {
	if c.maxLatency <= 0 {
		return 0
	}
	span := c.maxLatency - c.minLatency
	if span <= 0 {
		return c.minLatency
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minLatency + time.Duration(c.rnd.Int63n(int64(span)+1))
}

func (r rule) prediction() models.Prediction {
	return models.Prediction{
		RiskLevel:       r.risk,
		Confidence:      r.confidence,
		RecommendedDept: r.dept,
		Reasoning:       r.reasoning,
		Source:          models.SourceRules,
	}
}
