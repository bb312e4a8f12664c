package service

import (
	"context"
	"io"
	"time"

	"tamper_monitor/internal/logger"
	"tamper_monitor/internal/models"
	"tamper_monitor/internal/repository"
)

// EventLog exposes the history table: filtering plus per-row actions.
type EventLog interface {
	List(ctx context.Context, f TableFilter) []models.Event
	Rows(ctx context.Context, f TableFilter) []TableRow
	Resolve(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	AddManual(ctx context.Context, in ManualEntry, onAdded func(models.Event)) (models.Event, error)
}

// Simulator generates synthetic events, once or on a recurring timer.
type Simulator interface {
	GenerateOne(ctx context.Context) (models.Event, error)
	Start(interval time.Duration) bool
	Stop() bool
	Running() bool
}

// Charts maps recent history to a severity series.
type Charts interface {
	Chart(ctx context.Context) ChartData
}

// Exporter writes the whole history as CSV.
type Exporter interface {
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
}

// Notifications is the in-process publish/subscribe channel for
// history_changed and simulation_changed.
type Notifications interface {
	Subscribe(fn func(Notification)) (unsubscribe func())
	Publish(n Notification)
}

// Service aggregates all sub-services.
type Service struct {
	EventLog
	Simulator
	Charts
	Exporter
	Notifications
}

// Options carries the optional collaborators of NewService.
type Options struct {
	// Location is used to display timestamps. Defaults to time.Local.
	Location *time.Location
	// Rand returns uniform values in [0,1). Defaults to math/rand/v2.
	Rand func() float64
	// Interval is the simulation period used when Start is called with a
	// zero interval. Defaults to DefaultInterval.
	Interval time.Duration
	Metrics *Metrics
	Log     *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Rand == nil {
		o.Rand = defaultRand
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	opts = opts.withDefaults()
	notifier := NewNotifier()

	if hooked, ok := repos.History.(interface{ OnSave(func(int)) }); ok && opts.Metrics != nil {
		hooked.OnSave(opts.Metrics.HistorySize)
	}

	return &Service{
		EventLog:      NewEventLogService(repos.History, notifier, opts),
		Simulator:     NewSimulatorService(repos.History, notifier, opts),
		Charts:        NewChartService(repos.History, opts.Location),
		Exporter:      NewExportService(repos.History),
		Notifications: notifier,
	}
}
