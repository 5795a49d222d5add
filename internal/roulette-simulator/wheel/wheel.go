package wheel

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

// Multiplicadores pagos sobre o valor apostado quando a aposta ganha.
const (
	PayoutColor        = 2
	PayoutEvenOddColor = 4
	PayoutNumberColor  = 36
)

// Source devolve um inteiro uniforme em [0, n).
type Source func(n int64) (int64, error)

// CryptoSource usa crypto/rand; rand.Int já faz a amostragem sem viés de módulo.
func CryptoSource(n int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, fmt.Errorf("generate random number: %w", err)
	}
	return v.Int64(), nil
}

// Wheel sorteia números da roda europeia e avalia apostas.
type Wheel struct {
	src Source
}

func New(src Source) *Wheel {
	if src == nil {
		src = CryptoSource
	}
	return &Wheel{src: src}
}

// Spin sorteia uma casa de 0 a 36.
func (w *Wheel) Spin() (game.GameResult, error) {
	n, err := w.src(game.MaxNumber + 1)
	if err != nil {
		return game.GameResult{}, err
	}
	return game.ResultFor(int(n)), nil
}

// Evaluate decide se a aposta ganhou contra o resultado que veio no pedido.
// A cor informada em resultColor precisa bater com a cor do número.
func (w *Wheel) Evaluate(req game.BetRequest) (game.BetResult, error) {
	if err := req.Validate(); err != nil {
		return game.BetResult{}, err
	}

	result := game.ResultFor(*req.ResultNumber)
	if req.ResultColor != nil && game.Color(*req.ResultColor) != result.Color {
		return game.BetResult{}, fmt.Errorf("%w: resultColor %s does not match number %d (%s)",
			game.ErrInvalidBet, *req.ResultColor, result.Number, result.Color)
	}

	colorHit := game.Color(*req.Color) == result.Color

	var won bool
	var payout float64
	switch game.BetType(req.Type) {
	case game.BetColor:
		won, payout = colorHit, PayoutColor
	case game.BetEvenOddColor:
		won, payout = colorHit && game.Parity(*req.Parity) == result.Parity, PayoutEvenOddColor
	case game.BetNumberColor:
		won, payout = colorHit && *req.Number == result.Number, PayoutNumberColor
	}

	if !won {
		return game.BetResult{Won: false, Prize: 0}, nil
	}
	return game.BetResult{Won: true, Prize: req.BetAmount * payout}, nil
}
