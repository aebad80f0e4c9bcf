package models

import (
	"fmt"
)

// Response converts p to its /predict wire form
func (p Prediction) Response() PredictResponse {
	return PredictResponse{
		RiskLevel:       string(p.RiskLevel),
		Confidence:      ConfidenceFraction(p.Confidence),
		RecommendedDept: string(p.RecommendedDept),
		Reasoning:       p.Reasoning,
		SafetyAdvice:    p.SafetyAdvice,
	}
}

// Prediction validates a /predict response and converts it to a Prediction
func (r PredictResponse) Prediction() (Prediction, error) {
	risk, err := ParseRiskLevel(r.RiskLevel)
	if err != nil {
		return Prediction{}, err
	}
	if risk == RiskError {
		return Prediction{}, fmt.Errorf("prediction service reported an error risk level")
	}

	dept, err := ParseDepartment(r.RecommendedDept)
	if err != nil {
		return Prediction{}, err
	}

	confidence, err := NormalizeConfidence(r.Confidence)
	if err != nil {
		return Prediction{}, err
	}

	return Prediction{
		RiskLevel:       risk,
		Confidence:      confidence,
		RecommendedDept: dept,
		Reasoning:       r.Reasoning,
		SafetyAdvice:    r.SafetyAdvice,
		Source:          SourceRemote,
	}, nil
}
