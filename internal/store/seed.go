package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/guru03-coder/MediVerse/internal/models"
)

type seedDepartment struct {
	dept    models.Department
	doctors []string
}

var seedDepartments = []seedDepartment{
	{
		dept:    models.Department{ID: "cardio_1", Name: models.Cardiology, AvgServiceMinutes: 15},
		doctors: []string{"Dr. Asha Menon", "Dr. Rahul Verma", "Dr. Leena Iyer"},
	},
	{
		dept:    models.Department{ID: "neuro_1", Name: models.Neurology, AvgServiceMinutes: 25},
		doctors: []string{"Dr. Farhan Qureshi", "Dr. Meera Pillai"},
	},
	{
		dept:    models.Department{ID: "ortho_1", Name: models.Orthopedics, AvgServiceMinutes: 10},
		doctors: []string{"Dr. Vikram Rao", "Dr. Sneha Kulkarni", "Dr. Arjun Nair", "Dr. Kavya Reddy"},
	},
	{
		dept:    models.Department{ID: "gen_1", Name: models.General, AvgServiceMinutes: 5},
		doctors: []string{"Dr. Priya Shah", "Dr. Karan Gill", "Dr. Nisha Das", "Dr. Omar Khan", "Dr. Ritu Bose"},
	},
	// staffed by nobody until a doctor is activated, so it reports closed
	{
		dept: models.Department{ID: "peds_1", Name: models.Pediatrics, AvgServiceMinutes: 15},
	},
}

type seedPatient struct {
	id   string
	code string
	risk models.RiskLevel
	dept models.DepartmentName
	age  time.Duration
}

var seedPatients = []seedPatient{
	{id: "p1", code: "P-1024", risk: models.RiskCritical, dept: models.Cardiology, age: 5 * time.Minute},
	{id: "p2", code: "P-1025", risk: models.RiskUrgent, dept: models.Neurology, age: 12 * time.Minute},
	{id: "p3", code: "P-1026", risk: models.RiskStable, dept: models.General, age: 20 * time.Minute},
}

func (s *Store) seed() {
	now := s.now()

	for _, sd := range seedDepartments {
		dept := sd.dept
		dept.Available = true
		s.departments = append(s.departments, dept)
		for _, name := range sd.doctors {
			s.doctors = append(s.doctors, models.Doctor{
				ID:           uuid.NewString(),
				Name:         name,
				DepartmentID: sd.dept.ID,
				Active:       true,
				CreatedAt:    now,
			})
		}
	}

	if s.skipPatients {
		return
	}
	for _, sp := range seedPatients {
		s.patients = append(s.patients, models.Patient{
			ID:                 sp.id,
			PatientCode:        sp.code,
			RiskLevel:          sp.risk,
			RecommendedDept:    sp.dept,
			AssignedDepartment: sp.dept,
			CreatedAt:          now.Add(-sp.age),
		})
	}
}
