package api

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// instrument embrulha o transporte com as métricas do client.
// Registrar duas vezes no mesmo registry reaproveita os coletores existentes.
func instrument(reg prometheus.Registerer, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	requests := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roulette_client_requests_total",
		Help: "Chamadas feitas à API da roleta, por método e status",
	}, []string{"method", "code"}))

	duration := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roulette_client_request_duration_seconds",
		Help:    "Latência das chamadas à API da roleta",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "code"}))

	return promhttp.InstrumentRoundTripperCounter(requests,
		promhttp.InstrumentRoundTripperDuration(duration, next))
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
