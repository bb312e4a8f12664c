package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tamper_monitor"
	"tamper_monitor/internal/logger"
	"tamper_monitor/internal/models"
	"tamper_monitor/internal/repository"
)

const emptyNotePlaceholder = "-"

// ErrStatusRequired is returned by AddManual when no status was given.
var ErrStatusRequired = errors.New("status is required")

type EventLogService struct {
	history  repository.HistoryRepo
	notifier *Notifier
	metrics  *Metrics
	log      *logger.Logger
	loc      *time.Location
	rand     func() float64
	now      func() time.Time
}

func NewEventLogService(history repository.HistoryRepo, notifier *Notifier, opts Options) *EventLogService {
	opts = opts.withDefaults()
	return &EventLogService{
		history:  history,
		notifier: notifier,
		metrics:  opts.Metrics,
		log:      opts.Log,
		loc:      opts.Location,
		rand:     opts.Rand,
		now:      time.Now,
	}
}

// List applies the text filter, then the status filter, then the limit.
// History order (newest first) is preserved.
func (s *EventLogService) List(ctx context.Context, f TableFilter) []models.Event {
	items := s.history.Load(ctx)

	if q := strings.ToLower(f.Q); q != "" {
		items = filterEvents(items, func(e models.Event) bool {
			return strings.Contains(strings.ToLower(s.searchText(e)), q)
		})
	}
	if f.Status != "" {
		items = filterEvents(items, func(e models.Event) bool { return e.Status == f.Status })
	}
	if f.Limit > 0 && f.Limit < len(items) {
		items = items[:f.Limit]
	}
	return items
}

// Rows is List shaped for display.
func (s *EventLogService) Rows(ctx context.Context, f TableFilter) []TableRow {
	items := s.List(ctx, f)
	rows := make([]TableRow, 0, len(items))
	for _, e := range items {
		note := e.Note
		if note == "" {
			note = emptyNotePlaceholder
		}
		rows = append(rows, TableRow{
			ID:        e.ID,
			Timestamp: displayTimestamp(e, s.loc),
			Status:    e.Status,
			Value:     e.Value,
			Note:      note,
			Resolved:  e.Resolved,
			Severity:  tamper_monitor.Severity(e.Status),
		})
	}
	return rows
}

// Resolve marks the event as resolved. It reports false when no event has
// that id.
func (s *EventLogService) Resolve(ctx context.Context, id string) (bool, error) {
	found, err := s.history.Resolve(ctx, id)
	if err != nil || !found {
		return false, err
	}
	s.notifier.historyChanged()
	return true, nil
}

// Delete removes the event. Callers are expected to have confirmed the
// action with the user.
func (s *EventLogService) Delete(ctx context.Context, id string) error {
	if err := s.history.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.historyChanged()
	return nil
}

// AddManual stores a hand-entered event. Blank values get a random reading
// in [0,100); onAdded, if set, receives the stored event.
func (s *EventLogService) AddManual(ctx context.Context, in ManualEntry, onAdded func(models.Event)) (models.Event, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return models.Event{}, ErrStatusRequired
	}
	value := strings.TrimSpace(in.Value)
	if value == "" {
		value = formatValue(s.rand() * manualValueMax)
	}

	ev := models.Event{
		ID:     newEventID(),
		Ts:     models.NowTimestamp(s.now()),
		Status: status,
		Value:  value,
		Note:   in.Note,
	}
	if err := s.history.Add(ctx, ev); err != nil {
		return models.Event{}, err
	}
	s.metrics.EventAdded(ev.Status, sourceManual)
	if onAdded != nil {
		onAdded(ev)
	}
	s.notifier.historyChanged()
	return ev, nil
}

func (s *EventLogService) searchText(e models.Event) string {
	return e.Status + e.Value + e.Note + displayTimestamp(e, s.loc)
}

func filterEvents(in []models.Event, keep func(models.Event) bool) []models.Event {
	out := make([]models.Event, 0, len(in))
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
