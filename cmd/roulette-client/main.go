package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/roulette-client/internal/roulette-client/api"
	"github.com/radieske/roulette-client/internal/roulette-client/session"
	"github.com/radieske/roulette-client/internal/roulette-client/translate"
	"github.com/radieske/roulette-client/internal/shared/config"
	"github.com/radieske/roulette-client/internal/shared/logger"
	"github.com/radieske/roulette-client/internal/shared/metrics"
	"github.com/radieske/roulette-client/pkg/contracts/game"
)

func main() {
	user := flag.String("user", "", "nome do jogador")
	betType := flag.String("bet", string(game.BetColor), "tipo de aposta: color, even-odd-color, number-color")
	value := flag.String("value", "red", "valor apostado: cor, paridade ou número conforme -bet")
	color := flag.String("color", "", "cor para apostas even-odd-color e number-color")
	amount := flag.Float64("amount", 10, "valor da aposta")
	start := flag.Float64("start", 1000, "saldo inicial de um jogador novo")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "usage: roulette-client -user NAME [-bet TYPE -value V -color C -amount N]")
		os.Exit(2)
	}

	cfg := config.LoadFor("roulette-client")

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// O client do processo é configurado uma vez, aqui, antes de qualquer chamada
	client := api.Configure(api.WithLogger(log), api.WithMetrics(prometheus.DefaultRegisterer))
	if cfg.MetricsPort != "" {
		metrics.StartMetricsServer(cfg.MetricsPort, nil)
	}

	bet := buildBet(game.BetType(*betType), *value, *color, *amount)

	ctx := context.Background()
	s := session.New(client, log)

	u, err := s.Start(ctx, *user, *start)
	if err != nil {
		log.Fatal("start session", zap.Error(err))
	}
	fmt.Printf("%s: saldo %.2f\n", u.Username, u.Balance)

	if err := s.PlaceBet(bet); err != nil {
		log.Fatal("place bet", zap.Error(err))
	}

	round, err := s.Spin(ctx)
	if err != nil {
		log.Fatal("spin", zap.Error(err))
	}

	fmt.Printf("número %d, %s, %s\n",
		round.Result.Number,
		translate.Color(round.Result.Color),
		translate.Parity(round.Result.Parity))
	if round.Outcome.Won {
		fmt.Printf("ganhou %.2f\n", round.Outcome.Prize)
	} else {
		fmt.Println("perdeu")
	}
	fmt.Printf("saldo: %.2f -> %.2f\n", round.Before, round.After)
}

// buildBet monta a aposta a partir das flags; number-color aceita o número em -value.
func buildBet(t game.BetType, value, color string, amount float64) game.Bet {
	b := game.Bet{Type: t, Amount: amount, Value: game.TextValue(value)}
	if t == game.BetNumberColor {
		if n, err := strconv.Atoi(value); err == nil {
			b.Value = game.NumberValue(n)
		}
		if color == "" {
			if n, ok := b.Value.Number(); ok {
				color = string(game.ColorOf(n))
			}
		}
	}
	if color != "" {
		c := game.Color(color)
		b.Color = &c
	}
	return b
}
