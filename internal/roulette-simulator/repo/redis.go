package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

// Redis guarda cada usuário como JSON na chave "roulette:user:{username}", sem TTL.
type Redis struct{ R *redis.Client }

func NewRedis(r *redis.Client) *Redis { return &Redis{R: r} }

func keyUser(username string) string { return "roulette:user:" + username }

func (s *Redis) Get(ctx context.Context, username string) (game.User, error) {
	b, err := s.R.Get(ctx, keyUser(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.User{}, fmt.Errorf("get %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return game.User{}, fmt.Errorf("get %q: %w", username, err)
	}

	var u game.User
	if err := json.Unmarshal(b, &u); err != nil {
		return game.User{}, fmt.Errorf("decode %q: %w", username, err)
	}
	return u, nil
}

func (s *Redis) Save(ctx context.Context, username string, balance float64) (game.User, error) {
	u := game.User{Username: username, Balance: balance}
	b, err := json.Marshal(u)
	if err != nil {
		return game.User{}, err
	}
	if err := s.R.Set(ctx, keyUser(username), b, 0).Err(); err != nil {
		return game.User{}, fmt.Errorf("save %q: %w", username, err)
	}
	return u, nil
}
