package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/neuroscan/clinic-api/internal/config"
	"github.com/neuroscan/clinic-api/internal/email"
	"github.com/neuroscan/clinic-api/internal/repository/postgres"
	"github.com/neuroscan/clinic-api/internal/worker"
	"github.com/neuroscan/clinic-api/pkg/logger"
	"github.com/neuroscan/clinic-api/pkg/messaging/redis"
	"github.com/neuroscan/clinic-api/pkg/metrics"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &zl)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	var sender email.Sender = email.NoopSender{}
	if cfg.Notifications.Enabled {
		sender = email.NewSMTPSender(cfg.Notifications)
	}

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		postgres.NewUserRepository(db),
		broker,
		sender,
		log,
		metrics.NewMetrics("neuroscan", "worker"),
		cfg.Notifications.PollInterval,
		cfg.Notifications.BatchSize,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go processor.Run(ctx)
	log.Info("outbox worker started", "poll_interval", cfg.Notifications.PollInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker")
	cancel()
	time.Sleep(time.Second)
}
