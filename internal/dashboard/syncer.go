package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/guru03-coder/MediVerse/internal/metrics"
	"github.com/guru03-coder/MediVerse/internal/models"
	"github.com/guru03-coder/MediVerse/internal/store"
)

// Source tells where the data of a View came from
type Source string

const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
	SourceMock  Source = "mock"
)

// ErrNoRemote is reported when the syncer runs without a remote service
var ErrNoRemote = errors.New("no remote service configured")

const (
	defaultInterval    = 5 * time.Second
	defaultPollTimeout = 4 * time.Second
)

// View is what a dashboard renders
type View struct {
	Stats       models.Stats     `json:"stats"`
	Analytics   models.Analytics `json:"analytics"`
	Patients    []models.Patient `json:"patients"`
	Source      Source           `json:"source"`
	Generation  uint64           `json:"generation"`
	LastSuccess time.Time        `json:"last_success,omitempty"`
	Stale       bool             `json:"stale"`
	LastError   string           `json:"last_error,omitempty"`
}

// Remote is the part of the remote service the syncer talks to
type Remote interface {
	Stats(ctx context.Context) (models.Stats, error)
	Analytics(ctx context.Context) (models.Analytics, error)
	Patients(ctx context.Context) ([]models.Patient, error)
	DischargePatient(ctx context.Context, id string) error
	AddDoctor(ctx context.Context, req models.AddDoctorRequest) error
}

// Local is the in-process store used when the remote service is unavailable
type Local interface {
	Snapshot() store.Snapshot
	DischargePatient(id string) bool
	AddDoctor(department, name string) bool
	Department(department string) (models.Department, bool)
}

// Config contains the polling settings
type Config struct {
	Interval    time.Duration
	PollTimeout time.Duration
}

// Syncer keeps a dashboard View in step with the remote service, falling back
// to the snapshot cache and then the local store.
type Syncer struct {
	remote  Remote
	local   Local
	cache   SnapshotCache
	cfg     Config
	logger  zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	gen atomic.Uint64
	wg  sync.WaitGroup

	mu   sync.RWMutex
	view View
	// generation of the last poll that changed the view, live or not
	written  uint64
	everLive bool
}

// NewSyncer wires a syncer. remote and cache may be nil.
func NewSyncer(remote Remote, local Local, cache SnapshotCache, cfg Config, logger zerolog.Logger, m *metrics.Metrics) *Syncer {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	return &Syncer{
		remote:  remote,
		local:   local,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.With().Str("component", "dashboard").Logger(),
		metrics: m,
		now:     time.Now,
	}
}

// View returns a copy of the current view
func (s *Syncer) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.view
	v.Patients = append([]models.Patient(nil), s.view.Patients...)
	return v
}

// Refresh runs one poll. Its outcome is written only when no newer poll has
// written the view in the meantime. On failure the previous live view is
// kept and marked stale.
func (s *Syncer) Refresh(ctx context.Context) error {
	gen := s.gen.Add(1)

	if s.remote == nil {
		s.fallback(ctx, gen, ErrNoRemote)
		return ErrNoRemote
	}

	snap, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Uint64("generation", gen).Msg("dashboard refresh failed")
		s.fallback(ctx, gen, err)
		return err
	}

	if !s.apply(gen, snap) {
		s.logger.Debug().Uint64("generation", gen).Msg("discarding out-of-order snapshot")
		s.metrics.RecordRefresh("discarded")
		return nil
	}
	s.metrics.RecordRefresh("applied")
	s.metrics.SetViewStale(false)

	if s.cache != nil {
		if err := s.cache.Save(ctx, snap); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache snapshot")
		}
	}
	return nil
}

// fetch loads all three views; a snapshot is only usable when every call succeeded
func (s *Syncer) fetch(ctx context.Context) (store.Snapshot, error) {
	stats, err := s.remote.Stats(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}
	analytics, err := s.remote.Analytics(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}
	patients, err := s.remote.Patients(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}
	return store.Snapshot{Stats: stats, Analytics: analytics, Patients: patients}, nil
}

func (s *Syncer) apply(gen uint64, snap store.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.written {
		return false
	}
	s.written = gen
	s.everLive = true
	s.view = View{
		Stats:       snap.Stats,
		Analytics:   snap.Analytics,
		Patients:    snap.Patients,
		Source:      SourceLive,
		Generation:  gen,
		LastSuccess: s.now(),
	}
	return true
}

func (s *Syncer) fallback(ctx context.Context, gen uint64, cause error) {
	// shutting down; leave the view as it is
	if errors.Is(ctx.Err(), context.Canceled) {
		return
	}
	if s.remote != nil {
		s.metrics.RecordRefresh("failed")
	}

	s.mu.RLock()
	everLive := s.everLive
	s.mu.RUnlock()

	var snap store.Snapshot
	var src Source
	if !everLive {
		snap, src = s.seed(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.written {
		return
	}
	s.written = gen

	stale := s.remote != nil
	s.metrics.SetViewStale(stale)

	if s.everLive {
		s.view.Stale = true
		s.view.LastError = cause.Error()
		return
	}
	s.view = View{
		Stats:      snap.Stats,
		Analytics:  snap.Analytics,
		Patients:   snap.Patients,
		Source:     src,
		Generation: gen,
		Stale:      stale,
	}
	if stale {
		s.view.LastError = cause.Error()
	}
}

// seed picks the cached snapshot when there is one, otherwise the local store
func (s *Syncer) seed(ctx context.Context) (store.Snapshot, Source) {
	if s.cache != nil {
		snap, err := s.cache.Load(ctx)
		if err == nil {
			return snap, SourceCache
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("failed to read cached snapshot")
		}
	}
	return s.local.Snapshot(), SourceMock
}

// Run refreshes immediately and then on every interval until ctx is done.
// Each poll gets its own timeout. Run returns once in-flight polls finished.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Syncer) poll(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pollCtx, cancel := context.WithTimeout(ctx, s.cfg.PollTimeout)
		defer cancel()
		_ = s.Refresh(pollCtx)
	}()
}
