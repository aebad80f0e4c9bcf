package models

import (
	"fmt"
	"strings"
)

// RiskLevel represents the urgency assigned to a patient by triage
type RiskLevel string

const (
	// RiskCritical represents life-threatening cases requiring immediate intervention
	RiskCritical RiskLevel = "CRITICAL"

	// RiskUrgent represents cases that need prompt care but are not immediately life-threatening
	RiskUrgent RiskLevel = "URGENT"

	// RiskStable represents cases suitable for routine monitoring
	RiskStable RiskLevel = "STABLE"

	// RiskError marks a patient whose assessment failed and must be reassessed manually
	RiskError RiskLevel = "ERROR"
)

// ParseRiskLevel maps a risk label onto a RiskLevel. Besides the canonical
// names it accepts the High/Medium/Low labels used by the legacy model service.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return RiskCritical, nil
	case "URGENT", "HIGH", "MEDIUM":
		return RiskUrgent, nil
	case "STABLE", "LOW":
		return RiskStable, nil
	case "ERROR":
		return RiskError, nil
	}
	return "", fmt.Errorf("unknown risk level %q", s)
}

// Valid reports whether r is one of the defined levels
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskCritical, RiskUrgent, RiskStable, RiskError:
		return true
	}
	return false
}

// Assessed reports whether r is the outcome of a successful assessment.
// ERROR patients are excluded from risk-based statistics.
func (r RiskLevel) Assessed() bool {
	return r.Valid() && r != RiskError
}

// Priority returns the queue weight of the level; higher is seen first
func (r RiskLevel) Priority() int {
	switch r {
	case RiskCritical:
		return 3
	case RiskUrgent:
		return 2
	case RiskStable:
		return 0
	}
	return -1
}

// DepartmentName identifies a hospital department
type DepartmentName string

const (
	Cardiology  DepartmentName = "Cardiology"
	Neurology   DepartmentName = "Neurology"
	Orthopedics DepartmentName = "Orthopedics"
	General     DepartmentName = "General"
	Pediatrics  DepartmentName = "Pediatrics"
)

// Departments lists every department a prediction may recommend
var Departments = []DepartmentName{Cardiology, Neurology, Orthopedics, General, Pediatrics}

// ParseDepartment matches s case-insensitively against the known departments
func ParseDepartment(s string) (DepartmentName, error) {
	s = strings.TrimSpace(s)
	for _, d := range Departments {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown department %q", s)
}

// VitalPlaceholder is rendered in place of a vital sign that was not captured
const VitalPlaceholder = "--"

// Vitals holds the vital signs exactly as they were entered on the intake form
type Vitals struct {
	HeartRate     string `json:"hr"`
	BloodPressure string `json:"bp"`
	SpO2          string `json:"spo2,omitempty"`
	Temperature   string `json:"temp"`
}

// Display returns a copy of v with every missing value replaced by the placeholder
func (v Vitals) Display() Vitals {
	return Vitals{
		HeartRate:     orPlaceholder(v.HeartRate),
		BloodPressure: orPlaceholder(v.BloodPressure),
		SpO2:          orPlaceholder(v.SpO2),
		Temperature:   orPlaceholder(v.Temperature),
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return VitalPlaceholder
	}
	return s
}

// PredictionSource records which path produced a prediction
type PredictionSource string

const (
	SourceAI     PredictionSource = "ai"
	SourceRules  PredictionSource = "rules"
	SourceRemote PredictionSource = "remote"
	SourceSOS    PredictionSource = "sos"
	SourceError  PredictionSource = "error"
)

// Prediction is the outcome of a single triage assessment.
// Confidence is always a percentage in [0, 100].
type Prediction struct {
	RiskLevel       RiskLevel        `json:"risk_level"`
	Confidence      float64          `json:"confidence"`
	RecommendedDept DepartmentName   `json:"recommended_dept,omitempty"`
	Reasoning       string           `json:"reasoning,omitempty"`
	SafetyAdvice    string           `json:"safety_advice,omitempty"`
	Source          PredictionSource `json:"source"`
	Error           string           `json:"error,omitempty"`
}

// ErrorPrediction builds the sentinel prediction shown when an assessment could not be made
func ErrorPrediction(reason string) Prediction {
	return Prediction{
		RiskLevel: RiskError,
		Reasoning: "System error. Please reassess manually.",
		Source:    SourceError,
		Error:     reason,
	}
}

// NormalizeConfidence converts an inbound confidence to a percentage.
// Values in [0, 1] are treated as fractions, values in (1, 100] as percentages.
func NormalizeConfidence(v float64) (float64, error) {
	switch {
	case v >= 0 && v <= 1:
		return v * 100, nil
	case v > 1 && v <= 100:
		return v, nil
	}
	return 0, fmt.Errorf("confidence %v out of range", v)
}

// ValidatePercent checks a confidence that is a percentage by contract
func ValidatePercent(v float64) (float64, error) {
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("confidence %v out of range", v)
	}
	return v, nil
}

// ConfidenceFraction converts a percentage confidence to the [0, 1] wire form
func ConfidenceFraction(percent float64) float64 {
	return percent / 100
}
