package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

// Métricas Prometheus do simulador
type Metrics struct {
	spins  *prometheus.CounterVec
	bets   *prometheus.CounterVec
	prizes prometheus.Counter
}

// NewMetrics cria e registra as métricas no registry informado
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		spins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roulette_simulator_spins_total",
			Help: "Giros sorteados, por cor",
		}, []string{"color"}),
		bets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roulette_simulator_bets_total",
			Help: "Apostas avaliadas, por tipo e resultado",
		}, []string{"type", "outcome"}),
		prizes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roulette_simulator_prizes_paid_total",
			Help: "Soma dos prêmios pagos",
		}),
	}
	reg.MustRegister(m.spins, m.bets, m.prizes)
	return m
}

func (m *Metrics) observeSpin(r game.GameResult) {
	if m == nil {
		return
	}
	m.spins.WithLabelValues(string(r.Color)).Inc()
}

func (m *Metrics) observeBet(betType string, res game.BetResult) {
	if m == nil {
		return
	}
	outcome := "lost"
	if res.Won {
		outcome = "won"
		m.prizes.Add(res.Prize)
	}
	m.bets.WithLabelValues(betType, outcome).Inc()
}
