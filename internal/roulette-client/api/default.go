package api

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/radieske/roulette-client/internal/shared/config"
	"github.com/radieske/roulette-client/pkg/contracts/game"
)

// Um único Client por processo, criado na primeira chamada.
var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Configure cria o Client do processo com as opções informadas.
// Só a primeira chamada (de Configure ou Default) define a configuração;
// as seguintes devolvem o mesmo Client e ignoram opts.
func Configure(opts ...Option) *Client {
	defaultOnce.Do(func() {
		cfg := config.LoadFor("roulette-client")
		defaultClient = New(cfg.APIURL, opts...)
	})
	return defaultClient
}

// Default devolve o Client do processo, criando-o com a configuração do ambiente se preciso.
func Default() *Client { return Configure() }

func GetRouletteResult(ctx context.Context) (*game.GameResult, error) {
	return Default().GetRouletteResult(ctx)
}

func CalculatePrize(ctx context.Context, req game.BetRequest) (*game.BetResult, error) {
	return Default().CalculatePrize(ctx, req)
}

func SaveUserBalance(ctx context.Context, username string, amount float64) (json.RawMessage, error) {
	return Default().SaveUserBalance(ctx, username, amount)
}

func GetUserBalance(ctx context.Context, username string) (game.User, bool, error) {
	return Default().GetUserBalance(ctx, username)
}
