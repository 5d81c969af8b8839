package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/monitor"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/cache"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/config"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/db"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/logger"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("campaign-monitor", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Métricas Prometheus da varredura
	refreshed := prometheus.NewCounter(prometheus.CounterOpts{Name: "campaign_monitor_games_refreshed_total", Help: "jogos varridos"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "campaign_monitor_transitions_total", Help: "transições de estado"}, []string{"to"})
	prometheus.MustRegister(refreshed, transitions)

	ref := &monitor.Refresher{
		Log:          log,
		DB:           pg,
		Rdb:          rdb,
		TTL:          cfg.CampaignStateTTL,
		Channel:      cfg.RedisPubSubChannel,
		Now:          time.Now,
		OnRefreshed:  func(n int) { refreshed.Add(float64(n)) },
		OnTransition: func(to string) { transitions.WithLabelValues(to).Inc() },
	}

	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Varredura inicial + agendamento recorrente (cadência de ~30s)
	runOnce := func() {
		rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := ref.Refresh(rctx); err != nil {
			log.Error("refresh", zap.Error(err))
		}
	}
	runOnce()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", cfg.MonitorInterval), runOnce); err != nil {
		log.Fatal("cron schedule", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	log.Info("campaign-monitor started", zap.Duration("interval", cfg.MonitorInterval))
	<-ctx.Done()
	log.Info("campaign-monitor stopping")
}
