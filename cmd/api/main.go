package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"score_portal_backend/internal/adapters/storage"
	"score_portal_backend/internal/events"
	"score_portal_backend/internal/exports"
	apphttp "score_portal_backend/internal/http"
	"score_portal_backend/internal/http/router"
	"score_portal_backend/internal/scheduler"
	"score_portal_backend/internal/scores"
	"score_portal_backend/internal/scores/cache"
	"score_portal_backend/platform/config"
	"score_portal_backend/platform/db"
	"score_portal_backend/platform/logger"
	"score_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, pool, log)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	statsCache, closeCache := initStatisticsCache(cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	storageSvc := initStorage(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	scoresModule := scores.NewModule(pool, eventBus, statsCache, val, log)
	exportsModule := exports.NewModule(pool, scoresModule.Service(), storageSvc, cfg.GetMinioBucketReportExports(), val, log)

	if closeScheduler := initRefreshScheduler(cfg, eventBus, log); closeScheduler != nil {
		defer closeScheduler()
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			scoresModule,
			exportsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initStatisticsCache connects the Redis statistics cache, or returns a no-op
// cache when Redis is not configured.
func initStatisticsCache(cfg config.CacheConfig, log *logger.Logger) (cache.Cache, func()) {
	if !cfg.IsCacheEnabled() {
		log.Warn("REDIS_URL not configured; statistics cache disabled")
		return cache.Noop{}, nil
	}

	client, err := cache.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize statistics cache", "error", err)
		return cache.Noop{}, nil
	}

	log.Info("statistics cache initialized", "ttl", cfg.GetStatisticsCacheTTL().String())
	return cache.NewRedisCache(client, cfg.GetStatisticsCacheTTL(), cache.DefaultBreakerSettings, log), func() {
		_ = client.Close()
	}
}

// initStorage returns nil when MinIO is not configured so report exports answer 503.
func initStorage(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) storage.StorageService {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; report exports disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	bucket := cfg.GetMinioBucketReportExports()
	if err := withRetry(ctx, log, "ensure report-exports bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}

	log.Info("storage service initialized", "reportExportsBucket", bucket)
	return storageSvc
}

// initRefreshScheduler enqueues a background statistics refresh after every
// score change when Redis is available.
func initRefreshScheduler(cfg config.SchedulerConfig, bus events.Bus, log *logger.Logger) func() {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background statistics refresh disabled")
		return nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil
	}
	scheduler.RefreshOnChange(bus, client, log)

	return func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
