package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/bet-service/guard"
	bhttp "github.com/bigmoneygaming/campaign-bet-platform/internal/bet-service/http"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/bet-service/repo"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/cache"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/config"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/db"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/logger"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("bet-service", cfg.Env)
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

	// Redis (cache de estado de campanha escrito pelo campaign-monitor)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// deps
	repository := repo.NewPostgres(pg)
	cg := guard.NewCampaignGuard(rdb)

	// HTTP público (API do usuário)
	api := bhttp.NewServer(log, repository, cg)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("bet-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
