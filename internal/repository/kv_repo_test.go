package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"tamper_monitor/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestKVSQLite_Get_Found(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := repository.NewKVSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key=?`)).
		WithArgs("tamper_history_v1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))

	v, ok, err := repo.Get(ctx(t), "tamper_history_v1")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("Get = (%q, %v, %v); want ([], true, nil)", v, ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestKVSQLite_Get_MissingKey(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := repository.NewKVSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key=?`)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, ok, err := repo.Get(ctx(t), "nope")
	if err != nil {
		t.Fatalf("missing key should not be an error: %v", err)
	}
	if ok || v != "" {
		t.Fatalf("Get = (%q, %v); want (\"\", false)", v, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestKVSQLite_Get_DBError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := repository.NewKVSQLite(db)

	mock.ExpectQuery("SELECT value FROM kv_store").WillReturnError(errors.New("disk gone"))

	if _, _, err := repo.Get(ctx(t), "k"); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestKVSQLite_Set_Upserts(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := repository.NewKVSQLite(db)

	mock.ExpectExec("INSERT INTO kv_store \\(key, value, updated_at\\)").
		WithArgs("k", `[{"id":"a"}]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Set(ctx(t), "k", `[{"id":"a"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestKVSQLite_Set_PropagatesError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := repository.NewKVSQLite(db)

	mock.ExpectExec("INSERT INTO kv_store").WillReturnError(errors.New("quota exceeded"))

	if err := repo.Set(ctx(t), "k", "v"); err == nil || err.Error() != "quota exceeded" {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestKVMemory_GetSet(t *testing.T) {
	t.Parallel()
	kv := repository.NewKVMemory()

	if _, ok, _ := kv.Get(ctx(t), "k"); ok {
		t.Fatalf("fresh store should be empty")
	}
	if err := kv.Set(ctx(t), "k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = kv.Set(ctx(t), "k", "v2")
	v, ok, err := kv.Get(ctx(t), "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("Get = (%q, %v, %v)", v, ok, err)
	}
}
