package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/roulette-client/internal/roulette-simulator/producer"
	"github.com/radieske/roulette-client/internal/roulette-simulator/repo"
	"github.com/radieske/roulette-client/internal/roulette-simulator/wheel"
	"github.com/radieske/roulette-client/internal/shared/cache"
	"github.com/radieske/roulette-client/internal/shared/config"
	"github.com/radieske/roulette-client/internal/shared/db"
	"github.com/radieske/roulette-client/internal/shared/logger"
	"github.com/radieske/roulette-client/internal/shared/metrics"

	shttp "github.com/radieske/roulette-client/internal/roulette-simulator/http"
)

func main() {
	cfg := config.LoadFor("roulette-simulator")

	// Inicializa logger estruturado
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("store", cfg.StoreDriver))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Backend de saldos conforme STORE_DRIVER
	var store repo.Store
	health := func(context.Context) error { return nil }
	switch cfg.StoreDriver {
	case "postgres":
		pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("postgres connect", zap.Error(err))
		}
		defer pg.Close()
		p := repo.NewPostgres(pg)
		if err := p.EnsureSchema(ctx); err != nil {
			log.Fatal("postgres schema", zap.Error(err))
		}
		store, health = p, pg.PingContext
	case "redis":
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		store = repo.NewRedis(rdb)
		health = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		store = repo.NewMemory()
	}

	// Eventos vão para o Kafka só quando há brokers configurados
	var publ producer.Publisher = producer.Nop{}
	if cfg.KafkaBrokers != "" {
		kp := producer.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicRouletteSpun, cfg.TopicBalanceSaved, log)
		defer kp.Close()
		publ = kp
	}

	api := shttp.NewServer(log, wheel.New(wheel.CryptoSource), store, publ, shttp.NewMetrics(prometheus.DefaultRegisterer))

	// Servidor de métricas e health check
	if cfg.MetricsPort != "" {
		metrics.StartMetricsServer(cfg.MetricsPort, health)
		log.Info("metrics/health listening", zap.String("addr", ":"+cfg.MetricsPort))
	}

	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
