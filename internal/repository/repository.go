package repository

import (
	"context"

	"tamper_monitor/internal/logger"
	"tamper_monitor/internal/models"
)

// KVStore is the persistent key-value namespace the history lives in.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// HistoryRepo is the event store: one ordered, capped list of events,
// newest first.
type HistoryRepo interface {
	Load(ctx context.Context) []models.Event
	Save(ctx context.Context, events []models.Event) error
	Add(ctx context.Context, e models.Event) error
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, e models.Event) error
	Resolve(ctx context.Context, id string) (bool, error)
	Find(ctx context.Context, id string) (models.Event, bool)
}

type Repository struct {
	KV      KVStore
	History HistoryRepo
}

func NewRepository(kv KVStore, storageKey string, log *logger.Logger) *Repository {
	return &Repository{
		KV:      kv,
		History: NewHistoryKV(kv, storageKey, log),
	}
}
