package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-tours/meridian/internal/app"
	"github.com/meridian-tours/meridian/internal/fxsync"
	"github.com/meridian-tours/meridian/internal/observability"
	"github.com/meridian-tours/meridian/internal/platform/db"
	"github.com/meridian-tours/meridian/internal/pricing"
	"github.com/meridian-tours/meridian/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	metrics := observability.NewMetrics()

	pricingRepo := pricing.NewRepository(pool)
	provider := fxsync.NewProvider(cfg.FXProviderURL)
	importer := fxsync.NewService(logger, pricingRepo, provider, redisClient,
		cfg.FXCacheTTL, cfg.SellCurrency, cfg.CostCurrency)
	fxJob := jobs.NewFXSyncJob(importer, logger, metrics)

	fxTask, err := jobs.NewFXSyncTask(jobs.FXSyncPayload{})
	if err != nil {
		logger.Error("build fx sync task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeFXSync, Handler: fxJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.FXSyncCron, Task: fxTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
