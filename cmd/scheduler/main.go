package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"score_portal_backend/internal/events"
	"score_portal_backend/internal/scheduler"
	"score_portal_backend/internal/scores"
	"score_portal_backend/internal/scores/cache"
	"score_portal_backend/platform/config"
	"score_portal_backend/platform/db"
	"score_portal_backend/platform/logger"
	"score_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if !cfg.IsCacheEnabled() {
		log.Error("statistics cache is not configured; nothing to refresh")
		panic("scheduler requires REDIS_URL and STATISTICS_CACHE_TTL")
	}
	redisClient, err := cache.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize statistics cache", "error", err)
		panic("failed to initialize statistics cache: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()
	statsCache := cache.NewRedisCache(redisClient, cfg.GetStatisticsCacheTTL(), cache.DefaultBreakerSettings, log)

	// Worker-side scores wiring (no HTTP handlers required).
	eventBus := events.NewInMemoryBus(log)
	scoresModule := scores.NewModule(pool, eventBus, statsCache, validator.New(), log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	ticker := scheduler.NewStatisticsRefreshTicker(client, log, cfg.GetStatisticsRefreshInterval())
	go ticker.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, scoresModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
