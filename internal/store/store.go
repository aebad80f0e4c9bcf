package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guru03-coder/MediVerse/internal/models"
)

// Store is the in-process clinical data set: departments, doctors and the
// active patient queue. All aggregate views are derived on read.
// A Store is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	skipPatients bool

	departments []models.Department
	doctors     []models.Doctor
	patients    []models.Patient
	discharged  []dischargeRecord
}

type dischargeRecord struct {
	patient models.Patient
	at      time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithoutPatients seeds departments and doctors but leaves the queue empty
func WithoutPatients() Option {
	return func(s *Store) {
		s.skipPatients = true
	}
}

// New returns a store seeded with the demo departments, doctors and patients
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	return s
}

// Snapshot is a consistent copy of every read view
type Snapshot struct {
	Stats     models.Stats     `json:"stats"`
	Analytics models.Analytics `json:"analytics"`
	Patients  []models.Patient `json:"patients"`
}

// Snapshot returns stats, analytics and patients computed under one lock
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Stats:     s.statsLocked(),
		Analytics: s.analyticsLocked(),
		Patients:  s.patientsLocked(),
	}
}

// GetPatients returns the active patients, most recent first
func (s *Store) GetPatients() []models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patientsLocked()
}

func (s *Store) patientsLocked() []models.Patient {
	out := make([]models.Patient, len(s.patients))
	for i, p := range s.patients {
		out[i] = clonePatient(p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Patient looks up an active patient by id or patient code
func (s *Store) Patient(id string) (models.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOfPatient(id); i >= 0 {
		return clonePatient(s.patients[i]), true
	}
	return models.Patient{}, false
}

// Queue returns the active patients in the order they should be seen:
// highest risk first, then earliest arrival.
func (s *Store) Queue() []models.Patient {
	s.mu.RLock()
	out := make([]models.Patient, len(s.patients))
	for i, p := range s.patients {
		out[i] = clonePatient(p)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].RiskLevel.Priority(), out[j].RiskLevel.Priority()
		if pi != pj {
			return pi > pj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// DischargePatient removes the patient with the given id or patient code from
// the active list. It returns false when no such patient is waiting, so a
// repeated call is a no-op.
func (s *Store) DischargePatient(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfPatient(id)
	if i < 0 {
		return false
	}
	s.discharged = append(s.discharged, dischargeRecord{patient: s.patients[i], at: s.now()})
	s.patients = append(s.patients[:i], s.patients[i+1:]...)
	return true
}

func (s *Store) indexOfPatient(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i, p := range s.patients {
		if p.ID == id || p.PatientCode == id {
			return i
		}
	}
	return -1
}

// AddDoctor appends an inactive doctor to the department. department may be
// a department name or id. It returns false for an unknown department or a
// blank name.
func (s *Store) AddDoctor(department, name string) bool {
	_, ok := s.HireDoctor(department, name)
	return ok
}

// HireDoctor is AddDoctor returning the created record
func (s *Store) HireDoctor(department, name string) (models.Doctor, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Doctor{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dept, ok := s.departmentLocked(department)
	if !ok {
		return models.Doctor{}, false
	}
	doc := models.Doctor{
		ID:           uuid.NewString(),
		Name:         name,
		DepartmentID: dept.ID,
		CreatedAt:    s.now(),
	}
	s.doctors = append(s.doctors, doc)
	return doc, true
}

// ActivateDoctor marks a doctor as on duty. It returns false for an unknown id.
// Activating an active doctor is a successful no-op.
func (s *Store) ActivateDoctor(doctorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doctors {
		if s.doctors[i].ID == doctorID {
			s.doctors[i].Active = true
			return true
		}
	}
	return false
}

// Doctors lists the doctors of a department, active or not
func (s *Store) Doctors(department string) []models.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dept, ok := s.departmentLocked(department)
	if !ok {
		return nil
	}
	var out []models.Doctor
	for _, d := range s.doctors {
		if d.DepartmentID == dept.ID {
			out = append(out, d)
		}
	}
	return out
}

// Department looks a department up by name or id
func (s *Store) Department(department string) (models.Department, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.departmentLocked(department)
}

func (s *Store) departmentLocked(key string) (models.Department, bool) {
	key = strings.TrimSpace(key)
	for _, d := range s.departments {
		if strings.EqualFold(string(d.Name), key) || d.ID == key {
			return d, true
		}
	}
	return models.Department{}, false
}

func (s *Store) activeDoctorsLocked(deptID string) int {
	n := 0
	for _, d := range s.doctors {
		if d.DepartmentID == deptID && d.Active {
			n++
		}
	}
	return n
}

// Admission is a triaged patient about to join the queue
type Admission struct {
	PatientCode string
	Name        string
	Age         int
	Gender      string
	Symptoms    string
	Vitals      *models.Vitals
	Prediction  models.Prediction
	SOS         bool
}

// Availability reports which departments currently accept new patients
func (s *Store) Availability() map[models.DepartmentName]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.DepartmentName]bool, len(s.departments))
	for _, d := range s.departments {
		out[d.Name] = d.Available
	}
	return out
}

// SetAvailability marks a department, by name or id, as accepting patients or
// full. It returns false for an unknown department.
func (s *Store) SetAvailability(department string, available bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(department)
	for i := range s.departments {
		d := &s.departments[i]
		if strings.EqualFold(string(d.Name), key) || d.ID == key {
			d.Available = available
			return true
		}
	}
	return false
}

// Admit adds a patient to the queue. The patient is assigned the recommended
// department unless it is unknown, unavailable or has no active doctor, in
// which case the patient is routed to General.
func (s *Store) Admit(a Admission) models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	assigned := models.General
	if dept, ok := s.departmentLocked(string(a.Prediction.RecommendedDept)); ok &&
		dept.Available && s.activeDoctorsLocked(dept.ID) > 0 {
		assigned = dept.Name
	}

	code := strings.TrimSpace(a.PatientCode)
	if code == "" {
		code = newPatientCode()
	}

	p := models.Patient{
		ID:                 uuid.NewString(),
		PatientCode:        code,
		Name:               a.Name,
		Age:                a.Age,
		Gender:             a.Gender,
		Symptoms:           a.Symptoms,
		RiskLevel:          a.Prediction.RiskLevel,
		Confidence:         a.Prediction.Confidence,
		RecommendedDept:    a.Prediction.RecommendedDept,
		AssignedDepartment: assigned,
		SOS:                a.SOS,
		CreatedAt:          s.now(),
	}
	if a.Vitals != nil {
		v := *a.Vitals
		p.Vitals = &v
	}

	s.patients = append(s.patients, p)
	return clonePatient(p)
}

func newPatientCode() string {
	return "P-" + strings.ToUpper(uuid.NewString()[:4])
}

func clonePatient(p models.Patient) models.Patient {
	if p.Vitals != nil {
		v := *p.Vitals
		p.Vitals = &v
	}
	return p
}
