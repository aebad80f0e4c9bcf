package dashboard

import (
	"context"
	"strings"

	"github.com/guru03-coder/MediVerse/internal/models"
)

// DischargePatient discharges through the remote service and falls back to
// the local store on any failure.
func (s *Syncer) DischargePatient(ctx context.Context, id string) bool {
	if s.remote != nil {
		err := s.remote.DischargePatient(ctx, id)
		if err == nil {
			return true
		}
		s.logger.Warn().Err(err).Str("patient_id", id).Msg("remote discharge failed, using local store")
		s.metrics.RecordLocalFallback("discharge")
	}
	ok := s.local.DischargePatient(id)
	if ok {
		s.metrics.RecordDischarge()
	}
	return ok
}

// AddDoctor adds an inactive doctor through the remote service and falls back
// to the local store on any failure. department is a department name or id.
func (s *Syncer) AddDoctor(ctx context.Context, department, name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}

	if s.remote != nil {
		deptID := department
		if d, ok := s.local.Department(department); ok {
			deptID = d.ID
		}
		err := s.remote.AddDoctor(ctx, models.AddDoctorRequest{Name: name, DepartmentID: deptID})
		if err == nil {
			return true
		}
		s.logger.Warn().Err(err).Str("department", department).Msg("remote add doctor failed, using local store")
		s.metrics.RecordLocalFallback("add_doctor")
	}
	return s.local.AddDoctor(department, name)
}
