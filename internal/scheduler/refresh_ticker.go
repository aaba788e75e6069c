package scheduler

import (
	"context"
	"time"

	"score_portal_backend/platform/logger"
)

const defaultStatisticsRefreshInterval = 5 * time.Minute

// StatisticsRefreshTicker enqueues a statistics refresh on a fixed interval so
// the dashboard cache stays warm between writes.
type StatisticsRefreshTicker struct {
	enqueuer RefreshEnqueuer
	log      *logger.Logger
	interval time.Duration
}

func NewStatisticsRefreshTicker(enqueuer RefreshEnqueuer, log *logger.Logger, interval time.Duration) *StatisticsRefreshTicker {
	if interval <= 0 {
		interval = defaultStatisticsRefreshInterval
	}
	return &StatisticsRefreshTicker{
		enqueuer: enqueuer,
		log:      log,
		interval: interval,
	}
}

// Run enqueues one refresh immediately and then one per interval until ctx is done.
func (t *StatisticsRefreshTicker) Run(ctx context.Context) {
	if t == nil || t.enqueuer == nil {
		return
	}

	t.enqueue(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.enqueue(ctx)
		}
	}
}

func (t *StatisticsRefreshTicker) enqueue(ctx context.Context) {
	if err := t.enqueuer.EnqueueStatisticsRefresh(ctx, RefreshReasonInterval, 0); err != nil {
		t.log.Warn("statistics refresh enqueue failed", "error", err)
	}
}
