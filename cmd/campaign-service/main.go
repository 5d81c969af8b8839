package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	chttp "github.com/bigmoneygaming/campaign-bet-platform/internal/campaign-service/http"
	kpub "github.com/bigmoneygaming/campaign-bet-platform/internal/campaign-service/producer"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign-service/repo"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/config"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/db"
	skafka "github.com/bigmoneygaming/campaign-bet-platform/internal/shared/kafka"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/logger"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("campaign-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic game_finished)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicGameFinished)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicGameFinished)

	// HTTP público (API administrativa)
	api := chttp.NewServer(log, repository, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("campaign-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
