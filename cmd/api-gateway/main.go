package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/gateway"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/config"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/logger"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("api-gateway", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gw, err := gateway.New(log, cfg.CampaignServiceURL, cfg.BetServiceURL)
	if err != nil {
		log.Fatal("gateway init", zap.Error(err))
	}

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: gw.Router(),
	}

	// metrics/health (gateway não tem dependência própria além dos upstreams)
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("api-gateway listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
