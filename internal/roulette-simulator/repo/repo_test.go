package repo

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := m.Save(ctx, "alice", 100); err != nil {
		t.Fatalf("save: %v", err)
	}
	saved, err := m.Save(ctx, "alice", 87.5)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved != (game.User{Username: "alice", Balance: 87.5}) {
		t.Errorf("unexpected saved user %+v", saved)
	}

	got, err := m.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Balance != 87.5 {
		t.Errorf("expected last saved balance 87.5, got %v", got.Balance)
	}
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPostgres_EnsureSchema(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewPostgres(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgres_Get(t *testing.T) {
	db, mock := newMockDB(t)
	query := regexp.QuoteMeta(`SELECT username, balance FROM users WHERE username=$1`)

	mock.ExpectQuery(query).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "balance"}).AddRow("alice", 42.5))
	mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(query).WithArgs("bob").WillReturnError(errors.New("connection reset"))

	p := NewPostgres(db)
	ctx := context.Background()

	u, err := p.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != (game.User{Username: "alice", Balance: 42.5}) {
		t.Errorf("unexpected user %+v", u)
	}

	if _, err := p.Get(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = p.Get(ctx, "bob")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected driver error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgres_Save(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users(username, balance) VALUES($1,$2)`)).
		WithArgs("alice", 150.0).
		WillReturnRows(sqlmock.NewRows([]string{"username", "balance"}).AddRow("alice", 150.0))

	u, err := NewPostgres(db).Save(context.Background(), "alice", 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != (game.User{Username: "alice", Balance: 150}) {
		t.Errorf("unexpected user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedis_Unreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	s := NewRedis(rdb)
	ctx := context.Background()

	if _, err := s.Get(ctx, "alice"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected connection error, got %v", err)
	}
	if _, err := s.Save(ctx, "alice", 1); err == nil {
		t.Error("expected connection error on save")
	}
}

func TestKeyUser(t *testing.T) {
	if got := keyUser("alice"); got != "roulette:user:alice" {
		t.Errorf("unexpected key %q", got)
	}
}
