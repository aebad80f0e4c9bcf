package models

import (
	"time"
)

// DepartmentStatus is the scheduling status of a department
type DepartmentStatus string

const (
	StatusActive DepartmentStatus = "active"
	StatusClosed DepartmentStatus = "closed"
)

// Department is a hospital department as held by the clinical store.
// AvgServiceMinutes is the time one doctor spends per patient.
type Department struct {
	ID                string         `json:"id"`
	Name              DepartmentName `json:"name"`
	AvgServiceMinutes int            `json:"avg_service_time"`
	Available         bool           `json:"is_available"`
}

// Doctor belongs to a department and only counts toward staffing once active
type Doctor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DepartmentID string    `json:"department_id"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Patient is an entry in the active triage queue
type Patient struct {
	ID                 string         `json:"id"`
	PatientCode        string         `json:"patient_code"`
	Name               string         `json:"name,omitempty"`
	Age                int            `json:"age,omitempty"`
	Gender             string         `json:"gender,omitempty"`
	Symptoms           string         `json:"symptoms,omitempty"`
	RiskLevel          RiskLevel      `json:"risk_level"`
	Confidence         float64        `json:"confidence,omitempty"`
	RecommendedDept    DepartmentName `json:"recommended_department,omitempty"`
	AssignedDepartment DepartmentName `json:"assigned_department"`
	Vitals             *Vitals        `json:"vitals,omitempty"`
	SOS                bool           `json:"sos,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// DepartmentView is the per-department entry of the dashboard stats
type DepartmentView struct {
	ID              string           `json:"id"`
	ActiveDoctors   int              `json:"active_doctors"`
	WaitTime        int              `json:"wait_time"`
	Status          DepartmentStatus `json:"status"`
	WaitingPatients int              `json:"waiting_patients"`
	Available       bool             `json:"is_available"`
}

// QueueStats summarises the waiting queue
type QueueStats struct {
	HighRiskWaiting int `json:"high_risk_waiting"`
	TotalWaiting    int `json:"total_waiting"`
}

// Stats is the dashboard stats payload
type Stats struct {
	Departments map[DepartmentName]DepartmentView `json:"departments"`
	Queue       QueueStats                        `json:"queue"`
}

// Summary holds the headline figures derived from Stats
type Summary struct {
	TotalDepartments   int     `json:"total_departments"`
	TotalActiveDoctors int     `json:"total_active_doctors"`
	AverageWaitTime    float64 `json:"average_wait_time"`
	HighRiskWaiting    int     `json:"high_risk_waiting"`
}

// Summary derives the headline figures from the per-department entries
func (s Stats) Summary() Summary {
	sum := Summary{
		TotalDepartments: len(s.Departments),
		HighRiskWaiting:  s.Queue.HighRiskWaiting,
	}
	if len(s.Departments) == 0 {
		return sum
	}
	wait := 0
	for _, d := range s.Departments {
		sum.TotalActiveDoctors += d.ActiveDoctors
		wait += d.WaitTime
	}
	sum.AverageWaitTime = float64(wait) / float64(len(s.Departments))
	return sum
}

// ChartPoint is a single labelled value of a chart series
type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Analytics is the dashboard analytics bundle
type Analytics struct {
	RiskDistribution  []ChartPoint `json:"risk_distribution"`
	DepartmentLoad    []ChartPoint `json:"department_load"`
	PatientAttendance []ChartPoint `json:"patient_attendance"`
	Discharges        []ChartPoint `json:"discharges"`
	ModelAccuracy     []ChartPoint `json:"model_accuracy"`
}

// PredictRequest is the body of POST /predict. Field names follow the
// column names the prediction service was trained on.
type PredictRequest struct {
	PatientID     string  `json:"Patient_ID"`
	Name          string  `json:"Name"`
	Age           int     `json:"Age"`
	BloodPressure string  `json:"Blood Pressure"`
	HeartRate     int     `json:"Heart Rate"`
	Temperature   float64 `json:"Temperature"`
	Gender        string  `json:"Gender"`
	Symptoms      string  `json:"Symptoms"`
}

// PredictResponse is the body returned by POST /predict. Confidence is a fraction in [0, 1].
type PredictResponse struct {
	RiskLevel       string  `json:"risk_level"`
	Confidence      float64 `json:"confidence"`
	RecommendedDept string  `json:"recommended_dept"`
	Reasoning       string  `json:"reasoning,omitempty"`
	SafetyAdvice    string  `json:"safety_advice,omitempty"`
}

// AvailabilityRequest is the body of POST /availability
type AvailabilityRequest struct {
	Dept        string `json:"dept"`
	IsAvailable *bool  `json:"is_available"`
}

// AddDoctorRequest is the body of POST /doctor/add
type AddDoctorRequest struct {
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
}
