package store

import (
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guru03-coder/MediVerse/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)}
	return New(append([]Option{WithClock(clock.Now)}, opts...)...), clock
}

func highRiskCount(patients []models.Patient) int {
	n := 0
	for _, p := range patients {
		if p.RiskLevel == models.RiskCritical {
			n++
		}
	}
	return n
}

func TestNew_SeededStats(t *testing.T) {
	s, _ := newTestStore(t)
	stats := s.GetStats()

	require.Len(t, stats.Departments, 5)
	assert.Equal(t, models.DepartmentView{ID: "cardio_1", ActiveDoctors: 3, WaitTime: 5, Status: models.StatusActive, WaitingPatients: 1, Available: true}, stats.Departments[models.Cardiology])
	assert.Equal(t, 2, stats.Departments[models.Neurology].ActiveDoctors)
	assert.Equal(t, 4, stats.Departments[models.Orthopedics].ActiveDoctors)
	assert.Equal(t, 5, stats.Departments[models.General].ActiveDoctors)
	assert.Equal(t, models.StatusClosed, stats.Departments[models.Pediatrics].Status)

	assert.Equal(t, 1, stats.Queue.HighRiskWaiting)
	assert.Equal(t, 3, stats.Queue.TotalWaiting)

	sum := stats.Summary()
	assert.Equal(t, 5, sum.TotalDepartments)
	assert.Equal(t, 14, sum.TotalActiveDoctors)
	// 15/3 + 25/2 + 0 + 5/5 + closed
	assert.InDelta(t, 3.6, sum.AverageWaitTime, 1e-9)
}

func TestGetStats_WaitTimeFollowsQueue(t *testing.T) {
	s, _ := newTestStore(t, WithoutPatients())
	assert.Equal(t, 0, s.GetStats().Departments[models.Neurology].WaitTime)

	admit := func() models.Patient {
		return s.Admit(Admission{Prediction: models.Prediction{RiskLevel: models.RiskUrgent, RecommendedDept: models.Neurology}})
	}
	first := admit()
	assert.Equal(t, 12, s.GetStats().Departments[models.Neurology].WaitTime) // 1*25/2
	admit()
	admit()
	assert.Equal(t, 37, s.GetStats().Departments[models.Neurology].WaitTime) // 3*25/2

	require.True(t, s.AddDoctor("Neurology", "Dr. Third"))
	docs := s.Doctors("Neurology")
	require.True(t, s.ActivateDoctor(docs[len(docs)-1].ID))
	assert.Equal(t, 25, s.GetStats().Departments[models.Neurology].WaitTime) // 3*25/3

	require.True(t, s.DischargePatient(first.ID))
	assert.Equal(t, 16, s.GetStats().Departments[models.Neurology].WaitTime) // 2*25/3
}

func TestGetStats_ClosedDepartmentHasNoWait(t *testing.T) {
	s, _ := newTestStore(t)
	peds := s.GetStats().Departments[models.Pediatrics]
	assert.Equal(t, models.StatusClosed, peds.Status)
	assert.Equal(t, 0, peds.WaitTime)
}

func TestSetAvailability(t *testing.T) {
	s, _ := newTestStore(t)

	avail := s.Availability()
	require.Len(t, avail, 5)
	for name, ok := range avail {
		assert.True(t, ok, name)
	}

	assert.True(t, s.SetAvailability("Cardiology", false))
	assert.True(t, s.SetAvailability("neuro_1", false))
	assert.False(t, s.SetAvailability("Dermatology", false))

	avail = s.Availability()
	assert.False(t, avail[models.Cardiology])
	assert.False(t, avail[models.Neurology])
	assert.True(t, avail[models.General])
	assert.False(t, s.GetStats().Departments[models.Cardiology].Available)

	// a full department sends new patients to General
	p := s.Admit(Admission{Prediction: models.Prediction{RiskLevel: models.RiskCritical, RecommendedDept: models.Cardiology}})
	assert.Equal(t, models.General, p.AssignedDepartment)
	assert.Equal(t, models.Cardiology, p.RecommendedDept)

	require.True(t, s.SetAvailability("Cardiology", true))
	p = s.Admit(Admission{Prediction: models.Prediction{RiskLevel: models.RiskCritical, RecommendedDept: models.Cardiology}})
	assert.Equal(t, models.Cardiology, p.AssignedDepartment)
}

func TestGetPatients_MostRecentFirst(t *testing.T) {
	s, clock := newTestStore(t)

	patients := s.GetPatients()
	require.Len(t, patients, 3)
	assert.Equal(t, []string{"P-1024", "P-1025", "P-1026"},
		[]string{patients[0].PatientCode, patients[1].PatientCode, patients[2].PatientCode})

	clock.Advance(time.Minute)
	admitted := s.Admit(Admission{Prediction: models.Prediction{RiskLevel: models.RiskStable, RecommendedDept: models.General}})
	assert.Equal(t, admitted.ID, s.GetPatients()[0].ID)
}

func TestDischargePatient_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)

	assert.True(t, s.DischargePatient("p1"))
	assert.False(t, s.DischargePatient("p1"))

	for _, p := range s.GetPatients() {
		assert.NotEqual(t, "p1", p.ID)
	}
	assert.Equal(t, 0, s.GetStats().Queue.HighRiskWaiting)

	assert.False(t, s.DischargePatient("nope"))
	assert.False(t, s.DischargePatient(""))
	assert.Len(t, s.GetPatients(), 2)
}

func TestDischargePatient_ByPatientCode(t *testing.T) {
	s, _ := newTestStore(t)

	assert.True(t, s.DischargePatient("P-1025"))
	_, ok := s.Patient("p2")
	assert.False(t, ok)
}

func TestAddDoctor(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.GetStats()

	assert.False(t, s.AddDoctor("Dermatology", "Dr. House"))
	assert.False(t, s.AddDoctor("Cardiology", "   "))
	assert.Equal(t, before, s.GetStats())
	assert.Len(t, s.Doctors("Cardiology"), 3)

	assert.True(t, s.AddDoctor("Cardiology", "Dr. New"))
	assert.Len(t, s.Doctors("Cardiology"), 4)
	// new doctors start off duty
	assert.Equal(t, 3, s.GetStats().Departments[models.Cardiology].ActiveDoctors)

	assert.True(t, s.AddDoctor("ortho_1", "Dr. By Id"))
	assert.Len(t, s.Doctors(string(models.Orthopedics)), 5)
}

func TestActivateDoctor_OpensDepartment(t *testing.T) {
	s, _ := newTestStore(t)

	doc, ok := s.HireDoctor("Pediatrics", "Dr. Child")
	require.True(t, ok)
	assert.False(t, doc.Active)
	assert.Equal(t, "peds_1", doc.DepartmentID)

	routed := s.Admit(Admission{Prediction: models.Prediction{RiskLevel: models.RiskUrgent, RecommendedDept: models.Pediatrics}})
	assert.Equal(t, models.General, routed.AssignedDepartment)
	assert.Equal(t, models.Pediatrics, routed.RecommendedDept)

	assert.True(t, s.ActivateDoctor(doc.ID))
	assert.False(t, s.ActivateDoctor("missing"))

	view := s.GetStats().Departments[models.Pediatrics]
	assert.Equal(t, 1, view.ActiveDoctors)
	assert.Equal(t, models.StatusActive, view.Status)

	admitted := s.Admit(Admission{Prediction: models.Prediction{RiskLevel: models.RiskUrgent, RecommendedDept: models.Pediatrics}})
	assert.Equal(t, models.Pediatrics, admitted.AssignedDepartment)
}

func TestAdmit(t *testing.T) {
	s, _ := newTestStore(t, WithoutPatients())
	require.Empty(t, s.GetPatients())

	p := s.Admit(Admission{
		Name:       "Jane",
		Symptoms:   "Severe headache with vision loss",
		Vitals:     &models.Vitals{HeartRate: "88"},
		Prediction: models.Prediction{RiskLevel: models.RiskCritical, Confidence: 92, RecommendedDept: models.Neurology},
	})
	assert.NotEmpty(t, p.ID)
	assert.Regexp(t, regexp.MustCompile(`^P-[0-9A-F]{4}$`), p.PatientCode)
	assert.Equal(t, models.Neurology, p.AssignedDepartment)
	assert.Equal(t, 92.0, p.Confidence)

	// the caller's vitals are copied
	p.Vitals.HeartRate = "0"
	stored, ok := s.Patient(p.ID)
	require.True(t, ok)
	assert.Equal(t, "88", stored.Vitals.HeartRate)

	coded := s.Admit(Admission{PatientCode: "EMERGENCY", Prediction: models.Prediction{RiskLevel: models.RiskCritical, RecommendedDept: "Dermatology"}})
	assert.Equal(t, "EMERGENCY", coded.PatientCode)
	assert.Equal(t, models.General, coded.AssignedDepartment)
}

func TestQueue_PriorityThenArrival(t *testing.T) {
	s, clock := newTestStore(t, WithoutPatients())

	admit := func(r models.RiskLevel) models.Patient {
		clock.Advance(time.Minute)
		return s.Admit(Admission{Prediction: models.Prediction{RiskLevel: r, RecommendedDept: models.General}})
	}
	stable := admit(models.RiskStable)
	urgent1 := admit(models.RiskUrgent)
	errored := admit(models.RiskError)
	critical := admit(models.RiskCritical)
	urgent2 := admit(models.RiskUrgent)

	var got []string
	for _, p := range s.Queue() {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{critical.ID, urgent1.ID, urgent2.ID, stable.ID, errored.ID}, got)
}

func TestGetAnalytics(t *testing.T) {
	s, clock := newTestStore(t)

	s.Admit(Admission{Prediction: models.ErrorPrediction("boom")})
	clock.Advance(time.Hour)
	require.True(t, s.DischargePatient("p3"))

	a := s.GetAnalytics()
	assert.Equal(t, []models.ChartPoint{
		{Name: "CRITICAL", Value: 1},
		{Name: "URGENT", Value: 1},
		{Name: "STABLE", Value: 0},
	}, a.RiskDistribution)

	load := map[string]int{}
	for _, pt := range a.DepartmentLoad {
		load[pt.Name] = pt.Value
	}
	assert.Equal(t, 1, load["Cardiology"])
	assert.Equal(t, 1, load["General"], "the ERROR patient still occupies a bed")
	assert.Equal(t, 0, load["Pediatrics"])

	assert.Equal(t, []models.ChartPoint{{Name: "14:00", Value: 4}}, a.PatientAttendance)
	assert.Equal(t, []models.ChartPoint{{Name: "15:00", Value: 1}}, a.Discharges)
	assert.Equal(t, "Precision", a.ModelAccuracy[0].Name)
	assert.Equal(t, 94, a.ModelAccuracy[0].Value)
}

func TestSnapshot_Consistent(t *testing.T) {
	s, _ := newTestStore(t)
	snap := s.Snapshot()

	assert.Equal(t, s.GetStats(), snap.Stats)
	assert.Equal(t, s.GetPatients(), snap.Patients)
	assert.Equal(t, highRiskCount(snap.Patients), snap.Stats.Queue.HighRiskWaiting)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			risk := models.RiskStable
			if i%2 == 0 {
				risk = models.RiskCritical
			}
			s.Admit(Admission{PatientCode: fmt.Sprintf("C-%d", i), Prediction: models.Prediction{RiskLevel: risk, RecommendedDept: models.Cardiology}})
		}(i)
		go func(i int) {
			defer wg.Done()
			s.AddDoctor("General", fmt.Sprintf("Dr. %d", i))
		}(i)
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			assert.Equal(t, highRiskCount(snap.Patients), snap.Stats.Queue.HighRiskWaiting)
		}()
	}
	wg.Wait()

	for i := 0; i < 20; i += 2 {
		assert.True(t, s.DischargePatient(fmt.Sprintf("C-%d", i)))
	}

	patients := s.GetPatients()
	assert.Len(t, patients, 13)
	assert.Equal(t, highRiskCount(patients), s.GetStats().Queue.HighRiskWaiting)
	assert.Len(t, s.Doctors("General"), 25)
}
