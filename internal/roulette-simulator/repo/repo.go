package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

var ErrNotFound = errors.New("user not found")

// Store guarda o saldo de cada usuário do simulador.
type Store interface {
	Get(ctx context.Context, username string) (game.User, error)
	Save(ctx context.Context, username string, balance float64) (game.User, error)
}

// Memory mantém os saldos em um map; serve para dev local e testes.
type Memory struct {
	mu    sync.RWMutex
	users map[string]float64
}

func NewMemory() *Memory { return &Memory{users: make(map[string]float64)} }

func (m *Memory) Get(_ context.Context, username string) (game.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bal, ok := m.users[username]
	if !ok {
		return game.User{}, fmt.Errorf("get %q: %w", username, ErrNotFound)
	}
	return game.User{Username: username, Balance: bal}, nil
}

func (m *Memory) Save(_ context.Context, username string, balance float64) (game.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[username] = balance
	return game.User{Username: username, Balance: balance}, nil
}
