package scheduler

import (
	"context"
	"fmt"
	"time"

	"score_portal_backend/platform/config"
	"score_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// StatisticsRefresher recomputes and re-caches the dashboard statistics.
type StatisticsRefresher interface {
	RefreshStatistics(ctx context.Context) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	refresher StatisticsRefresher
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, refresher StatisticsRefresher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		refresher: refresher,
		log:       log,
	}
	w.mux.HandleFunc(TaskStatisticsRefresh, w.handleStatisticsRefresh)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleStatisticsRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseStatisticsRefreshPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	start := time.Now()
	if err := w.refresher.RefreshStatistics(ctx); err != nil {
		return err
	}

	w.log.Info("statistics refreshed",
		"reason", payload.Reason,
		"queuedFor", time.Since(payload.RequestedAt).Round(time.Millisecond).String(),
		"durationMs", time.Since(start).Milliseconds(),
	)
	return nil
}
