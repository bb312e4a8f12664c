package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// KVSQLite stores string values by key in the kv_store table.
type KVSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVSQLite(db *sql.DB) *KVSQLite {
	return &KVSQLite{db: db, now: time.Now}
}

var _ KVStore = (*KVSQLite)(nil)

const (
	upsertValueSQL = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectValueSQL = `SELECT value FROM kv_store WHERE key=?`
)

// Get returns the value stored under key. ok is false when the key is absent.
func (r *KVSQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	if err := r.db.QueryRowContext(ctx, selectValueSQL, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set overwrites the value stored under key.
func (r *KVSQLite) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, upsertValueSQL, key, value, r.now().UTC())
	return err
}
