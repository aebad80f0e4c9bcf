package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/guru03-coder/MediVerse/internal/models"
)

// attendanceWindow limits the hourly charts to the last day
const attendanceWindow = 24 * time.Hour

// modelAccuracy is a fixed figure reported by the offline model evaluation
var modelAccuracy = []models.ChartPoint{
	{Name: "Precision", Value: 94},
	{Name: "Recall", Value: 92},
	{Name: "F1 Score", Value: 93},
}

// GetStats returns per-department staffing and the queue counters
func (s *Store) GetStats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

func (s *Store) statsLocked() models.Stats {
	waiting := make(map[models.DepartmentName]int, len(s.departments))
	high := 0
	for _, p := range s.patients {
		waiting[p.AssignedDepartment]++
		if p.RiskLevel == models.RiskCritical {
			high++
		}
	}

	stats := models.Stats{
		Departments: make(map[models.DepartmentName]models.DepartmentView, len(s.departments)),
		Queue: models.QueueStats{
			HighRiskWaiting: high,
			TotalWaiting:    len(s.patients),
		},
	}
	for _, d := range s.departments {
		active := s.activeDoctorsLocked(d.ID)
		status := models.StatusActive
		wait := 0
		if active == 0 {
			status = models.StatusClosed
		} else {
			wait = waiting[d.Name] * d.AvgServiceMinutes / active
		}
		stats.Departments[d.Name] = models.DepartmentView{
			ID:              d.ID,
			ActiveDoctors:   active,
			WaitTime:        wait,
			Status:          status,
			WaitingPatients: waiting[d.Name],
			Available:       d.Available,
		}
	}
	return stats
}

// GetAnalytics returns the chart series of the dashboard
func (s *Store) GetAnalytics() models.Analytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyticsLocked()
}

func (s *Store) analyticsLocked() models.Analytics {
	risk := map[models.RiskLevel]int{}
	load := map[models.DepartmentName]int{}
	for _, p := range s.patients {
		if p.RiskLevel.Assessed() {
			risk[p.RiskLevel]++
		}
		load[p.AssignedDepartment]++
	}

	a := models.Analytics{
		ModelAccuracy: append([]models.ChartPoint(nil), modelAccuracy...),
	}
	for _, r := range []models.RiskLevel{models.RiskCritical, models.RiskUrgent, models.RiskStable} {
		a.RiskDistribution = append(a.RiskDistribution, models.ChartPoint{Name: string(r), Value: risk[r]})
	}
	for _, d := range s.departments {
		a.DepartmentLoad = append(a.DepartmentLoad, models.ChartPoint{Name: string(d.Name), Value: load[d.Name]})
	}

	now := s.now()
	arrivals := make([]time.Time, 0, len(s.patients)+len(s.discharged))
	departures := make([]time.Time, 0, len(s.discharged))
	for _, p := range s.patients {
		arrivals = append(arrivals, p.CreatedAt)
	}
	for _, d := range s.discharged {
		arrivals = append(arrivals, d.patient.CreatedAt)
		departures = append(departures, d.at)
	}
	a.PatientAttendance = hourly(arrivals, now)
	a.Discharges = hourly(departures, now)
	return a
}

// hourly counts events per clock hour over the last day, oldest hour first.
// Hours without events are left out.
func hourly(events []time.Time, now time.Time) []models.ChartPoint {
	counts := map[time.Time]int{}
	for _, t := range events {
		if now.Sub(t) > attendanceWindow || t.After(now) {
			continue
		}
		counts[time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())]++
	}

	hours := make([]time.Time, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	points := make([]models.ChartPoint, 0, len(hours))
	for _, h := range hours {
		points = append(points, models.ChartPoint{Name: fmt.Sprintf("%02d:00", h.Hour()), Value: counts[h]})
	}
	return points
}
