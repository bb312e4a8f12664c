package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tamper_monitor"
	"tamper_monitor/internal/logger"
	"tamper_monitor/internal/models"
)

// HistoryKV keeps the whole history as one JSON array under a single key.
// Every mutation is load, modify, save; mu serialises those cycles inside
// this process. Other processes sharing the store are last-write-wins.
type HistoryKV struct {
	kv     KVStore
	key    string
	log    *logger.Logger
	mu     sync.Mutex
	onSave func(size int)
}

func NewHistoryKV(kv KVStore, key string, log *logger.Logger) *HistoryKV {
	if key == "" {
		key = tamper_monitor.DefaultStorageKey
	}
	return &HistoryKV{kv: kv, key: key, log: log}
}

var _ HistoryRepo = (*HistoryKV)(nil)

// OnSave registers a hook called with the history length after every save.
func (r *HistoryKV) OnSave(fn func(size int)) {
	r.mu.Lock()
	r.onSave = fn
	r.mu.Unlock()
}

// Key returns the storage key the history is kept under.
func (r *HistoryKV) Key() string { return r.key }

// Load returns the stored history. A missing, unreadable or malformed blob
// yields an empty history; the cause is logged, never returned.
func (r *HistoryKV) Load(ctx context.Context) []models.Event {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		r.warn("history_load_failed", err)
		return []models.Event{}
	}
	if !ok || raw == "" {
		return []models.Event{}
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		r.warn("history_parse_failed", err)
		return []models.Event{}
	}
	if events == nil {
		events = []models.Event{}
	}
	return events
}

// Save overwrites the stored history. Write errors are returned as-is.
func (r *HistoryKV) Save(ctx context.Context, events []models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, events)
}

// Add prepends e and drops everything past HistoryCap.
func (r *HistoryKV) Add(ctx context.Context, e models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.Load(ctx)
	h = append([]models.Event{e}, h...)
	if len(h) > tamper_monitor.HistoryCap {
		h = h[:tamper_monitor.HistoryCap]
	}
	return r.save(ctx, h)
}

// Delete removes every event with the given id. Unknown ids are a no-op.
func (r *HistoryKV) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.Load(ctx)
	kept := h[:0]
	for _, e := range h {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(h) {
		return nil
	}
	return r.save(ctx, kept)
}

// Update replaces the event with e.ID by e. Fields are not merged.
// Unknown ids are a no-op.
func (r *HistoryKV) Update(ctx context.Context, e models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.Load(ctx)
	found := false
	for i := range h {
		if h[i].ID == e.ID {
			h[i] = e
			found = true
		}
	}
	if !found {
		return nil
	}
	return r.save(ctx, h)
}

// Resolve marks the event with the given id as resolved within a single
// load-modify-save cycle. It reports false when no event has that id.
func (r *HistoryKV) Resolve(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.Load(ctx)
	found := false
	for i := range h {
		if h[i].ID == id {
			h[i].Resolved = true
			found = true
		}
	}
	if !found {
		return false, nil
	}
	if err := r.save(ctx, h); err != nil {
		return false, err
	}
	return true, nil
}

// Find looks up a single event by id.
func (r *HistoryKV) Find(ctx context.Context, id string) (models.Event, bool) {
	for _, e := range r.Load(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}

func (r *HistoryKV) save(ctx context.Context, events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	b, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(b)); err != nil {
		return err
	}
	if r.onSave != nil {
		r.onSave(len(events))
	}
	return nil
}

func (r *HistoryKV) warn(msg string, err error) {
	if r.log != nil {
		r.log.Warnw(msg, "err", err, "key", r.key)
	}
}
