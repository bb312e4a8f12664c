package service

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"tamper_monitor"
	"tamper_monitor/internal/logger"
	"tamper_monitor/internal/models"
	"tamper_monitor/internal/repository"

	"github.com/google/uuid"
)

// ----------- Simulation constants -----------
const (
	DefaultInterval = 4 * time.Second

	okThreshold   = 0.65 // r < 0.65 → OK
	warnThreshold = 0.9  // r < 0.9  → WARNING, else TAMPER DETECTED

	simulatedValueMax = 200.0
	manualValueMax    = 100.0

	eventIDPrefix = "ev_"

	sourceSimulator = "simulator"
	sourceManual    = "manual"
)

func defaultRand() float64 { return rand.Float64() }

// SimulatorService owns the recurring generation timer. cancel is nil while
// stopped; only Start and Stop touch it.
type SimulatorService struct {
	history  repository.HistoryRepo
	notifier *Notifier
	metrics  *Metrics
	log      *logger.Logger
	rand     func() float64
	now      func() time.Time
	interval time.Duration

	// transition is held for the whole of Start and Stop so that running
	// state changes are published in the order they happen.
	transition sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSimulatorService(history repository.HistoryRepo, notifier *Notifier, opts Options) *SimulatorService {
	opts = opts.withDefaults()
	return &SimulatorService{
		history:  history,
		notifier: notifier,
		metrics:  opts.Metrics,
		log:      opts.Log,
		rand:     opts.Rand,
		now:      time.Now,
		interval: opts.Interval,
	}
}

// classify buckets a uniform draw into a status.
func classify(r float64) string {
	switch {
	case r < okThreshold:
		return tamper_monitor.StatusOK
	case r < warnThreshold:
		return tamper_monitor.StatusWarn
	default:
		return tamper_monitor.StatusTamper
	}
}

// formatValue renders a reading with one fractional digit.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func newEventID() string {
	return eventIDPrefix + uuid.NewString()
}

// GenerateOne creates a random event, stores it and announces the change.
func (s *SimulatorService) GenerateOne(ctx context.Context) (models.Event, error) {
	status := classify(s.rand())
	ev := models.Event{
		ID:     newEventID(),
		Ts:     models.NowTimestamp(s.now()),
		Status: status,
		Value:  formatValue(s.rand() * simulatedValueMax),
	}
	if status == tamper_monitor.StatusTamper {
		ev.Note = tamper_monitor.TamperNote
	}

	if err := s.history.Add(ctx, ev); err != nil {
		return models.Event{}, err
	}
	s.metrics.EventAdded(ev.Status, sourceSimulator)
	s.notifier.historyChanged()
	return ev, nil
}

// Start generates one event right away and then one per interval until Stop.
// A zero interval selects the configured default. It returns false, doing
// nothing, when the simulation is already running.
func (s *SimulatorService) Start(interval time.Duration) bool {
	if interval <= 0 {
		interval = s.interval
	}

	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	first, done := make(chan struct{}), make(chan struct{})
	s.cancel, s.done = cancel, done
	go s.run(ctx, interval, first, done)
	s.mu.Unlock()

	<-first

	if s.log != nil {
		s.log.Infow("simulation_started", "interval", interval)
	}
	s.metrics.SimulationTransition(true)
	s.notifier.simulationChanged(true)
	return true
}

// Stop cancels the timer and waits for the loop to exit. It returns false
// when the simulation was not running.
func (s *SimulatorService) Stop() bool {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return false
	}
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	cancel()
	<-done

	if s.log != nil {
		s.log.Infow("simulation_stopped")
	}
	s.metrics.SimulationTransition(false)
	s.notifier.simulationChanged(false)
	return true
}

// Running reports whether the timer is active.
func (s *SimulatorService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// run generates once, signals first, then ticks at the given interval until
// ctx is canceled.
func (s *SimulatorService) run(ctx context.Context, interval time.Duration, first, done chan<- struct{}) {
	defer close(done)
	s.tick(ctx)
	close(first)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *SimulatorService) tick(ctx context.Context) {
	if _, err := s.GenerateOne(ctx); err != nil && s.log != nil {
		s.log.Errorw("simulation_tick_failed", "err", err)
	}
}
