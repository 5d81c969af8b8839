package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	wrepo "github.com/bigmoneygaming/campaign-bet-platform/internal/settlement-worker/repo"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/settlement-worker/worker"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/config"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/db"
	skafka "github.com/bigmoneygaming/campaign-bet-platform/internal/shared/kafka"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/logger"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("settlement-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres para leitura das apostas pending e escrita dos resultados
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka consumer: eventos game_finished (consumer group settlement)
	reader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicGameFinished, "settlement")
	defer reader.Close()

	// Kafka producers: resumo bets_settled e DLQ
	settledWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetsSettled)
	defer settledWriter.Close()

	dlqWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicGameFinishedDLQ)
	defer dlqWriter.Close()

	// Métricas Prometheus para monitoramento da liquidação
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_games_consumed_total", Help: "eventos game_finished consumidos"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_bets_settled_total", Help: "apostas liquidadas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, settled, errorsBy)

	w := &worker.Worker{
		Log:        log,
		Reader:     reader,
		Repo:       wrepo.NewPostgres(pg),
		Writer:     settledWriter,
		DLQWriter:  dlqWriter,
		OnConsumed: func() { consumed.Inc() },
		OnSettled:  func(n int) { settled.Add(float64(n)) },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicGameFinished),
		zap.String("publish", cfg.TopicBetsSettled),
	)
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal("worker", zap.Error(err))
	}
}
