// Package session conduz uma partida: carrega o jogador, registra a aposta,
// gira a roleta, calcula o prêmio e grava o novo saldo.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

var (
	ErrNotStarted          = errors.New("session not started")
	ErrNoBet               = errors.New("no bet placed")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// API é o subconjunto do client da roleta usado pela sessão.
type API interface {
	GetRouletteResult(ctx context.Context) (*game.GameResult, error)
	CalculatePrize(ctx context.Context, req game.BetRequest) (*game.BetResult, error)
	SaveUserBalance(ctx context.Context, username string, amount float64) (json.RawMessage, error)
	GetUserBalance(ctx context.Context, username string) (game.User, bool, error)
}

// Round é o resumo de um giro.
type Round struct {
	Bet     game.Bet
	Result  game.GameResult
	Outcome game.BetResult
	Before  float64
	After   float64
}

// Session guarda o estado da partida entre as chamadas.
type Session struct {
	api API
	log *zap.Logger

	User       *game.User
	CurrentBet *game.Bet
	LastResult *game.GameResult
}

func New(api API, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{api: api, log: log}
}

// Start carrega o saldo do jogador. Usuário inexistente começa com initialBalance.
func (s *Session) Start(ctx context.Context, username string, initialBalance float64) (game.User, error) {
	u, found, err := s.api.GetUserBalance(ctx, username)
	if err != nil {
		return game.User{}, fmt.Errorf("load user %q: %w", username, err)
	}
	if !found {
		s.log.Info("new player", zap.String("username", username), zap.Float64("balance", initialBalance))
		u = game.User{Username: username, Balance: initialBalance}
	}

	s.User = &u
	s.CurrentBet = nil
	s.LastResult = nil
	return u, nil
}

// PlaceBet registra a aposta do próximo giro.
func (s *Session) PlaceBet(b game.Bet) error {
	if s.User == nil {
		return ErrNotStarted
	}
	if b.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", game.ErrInvalidBet)
	}
	if b.Amount > s.User.Balance {
		return fmt.Errorf("%w: bet %.2f, balance %.2f", ErrInsufficientBalance, b.Amount, s.User.Balance)
	}
	s.CurrentBet = &b
	return nil
}

// Spin gira a roleta, avalia a aposta e grava o saldo resultante.
// O saldo só muda localmente depois que o servidor aceita a gravação.
func (s *Session) Spin(ctx context.Context) (Round, error) {
	if s.User == nil {
		return Round{}, ErrNotStarted
	}
	if s.CurrentBet == nil {
		return Round{}, ErrNoBet
	}
	bet := *s.CurrentBet

	res, err := s.api.GetRouletteResult(ctx)
	if err != nil {
		return Round{}, fmt.Errorf("spin: %w", err)
	}

	outcome, err := s.api.CalculatePrize(ctx, bet.Request(res))
	if err != nil {
		return Round{}, fmt.Errorf("calculate prize: %w", err)
	}

	before := s.User.Balance
	after := before - bet.Amount
	if outcome.Won {
		after += outcome.Prize
	}

	if _, err := s.api.SaveUserBalance(ctx, s.User.Username, after); err != nil {
		return Round{}, fmt.Errorf("save balance: %w", err)
	}

	s.User.Balance = after
	s.LastResult = res
	s.CurrentBet = nil

	s.log.Debug("round finished",
		zap.String("username", s.User.Username),
		zap.Int("number", res.Number),
		zap.Bool("won", outcome.Won),
		zap.Float64("balance", after))

	return Round{Bet: bet, Result: *res, Outcome: *outcome, Before: before, After: after}, nil
}
