package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/roulette-client/internal/shared/kafka"
	"github.com/radieske/roulette-client/pkg/contracts/events"
	"github.com/radieske/roulette-client/pkg/contracts/game"
)

// Publisher avisa o resto da plataforma sobre giros e saldos gravados.
type Publisher interface {
	PublishSpin(ctx context.Context, r game.GameResult) error
	PublishBalance(ctx context.Context, u game.User) error
}

// Nop descarta os eventos; usado quando KAFKA_BROKERS não está definido.
type Nop struct{}

func (Nop) PublishSpin(context.Context, game.GameResult) error { return nil }
func (Nop) PublishBalance(context.Context, game.User) error { return nil }

// messageWriter é o pedaço do *kafka.Writer usado aqui.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	spins    messageWriter
	balances messageWriter
	log      *zap.Logger
}

// NewKafkaPublisher abre um writer por tópico.
// Erros de publicação voltam para quem chamou, que decide onde registrá-los.
func NewKafkaPublisher(brokers, spinTopic, balanceTopic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		spins:    kafka.NewWriter(brokers, spinTopic),
		balances: kafka.NewWriter(brokers, balanceTopic),
		log:      log,
	}
}

func (p *KafkaPublisher) PublishSpin(ctx context.Context, r game.GameResult) error {
	e := events.RouletteSpun{
		SpinID: uuid.NewString(),
		Number: r.Number,
		Color:  string(r.Color),
		Parity: string(r.Parity),
		Ts:     time.Now().UTC(),
	}
	if err := kafka.WriteJSON(ctx, p.spins, e.SpinID, e); err != nil {
		return fmt.Errorf("publish spin %s: %w", e.SpinID, err)
	}
	p.log.Debug("published spin", zap.String("spin_id", e.SpinID), zap.Int("number", r.Number))
	return nil
}

// PublishBalance usa o username como chave para manter a ordem por usuário na partição.
func (p *KafkaPublisher) PublishBalance(ctx context.Context, u game.User) error {
	e := events.BalanceSaved{
		EventID:  uuid.NewString(),
		Username: u.Username,
		Balance:  u.Balance,
		Ts:       time.Now().UTC(),
	}
	if err := kafka.WriteJSON(ctx, p.balances, u.Username, e); err != nil {
		return fmt.Errorf("publish balance %q: %w", u.Username, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	err := p.spins.Close()
	if berr := p.balances.Close(); err == nil {
		err = berr
	}
	return err
}
