package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

const schema = `CREATE TABLE IF NOT EXISTS users (
	username   TEXT PRIMARY KEY,
	balance    DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres implementa Store na tabela users
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria a tabela users se ainda não existir
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, username string) (game.User, error) {
	var u game.User
	err := p.db.QueryRowContext(ctx,
		`SELECT username, balance FROM users WHERE username=$1`, username).Scan(&u.Username, &u.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return game.User{}, fmt.Errorf("get %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return game.User{}, fmt.Errorf("get %q: %w", username, err)
	}
	return u, nil
}

// Save faz upsert do saldo e devolve a linha gravada
func (p *Postgres) Save(ctx context.Context, username string, balance float64) (game.User, error) {
	var u game.User
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO users(username, balance) VALUES($1,$2)
		 ON CONFLICT (username) DO UPDATE SET balance = EXCLUDED.balance, updated_at = now()
		 RETURNING username, balance`, username, balance).Scan(&u.Username, &u.Balance)
	if err != nil {
		return game.User{}, fmt.Errorf("save %q: %w", username, err)
	}
	return u, nil
}
