package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"score_portal_backend/internal/events"
	"score_portal_backend/platform/config"
	"score_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// changeDebounce delays refreshes triggered by writes and collapses a burst
// of writes into one task.
const changeDebounce = 5 * time.Second

type Client struct {
	client *asynq.Client
	queue  string
	now    func() time.Time
}

// RefreshEnqueuer schedules statistics refreshes.
type RefreshEnqueuer interface {
	EnqueueStatisticsRefresh(ctx context.Context, reason string, delay time.Duration) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
		now:    time.Now,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueStatisticsRefresh schedules a refresh after delay. While an equal
// task for the same reason is still queued the call is a no-op.
func (c *Client) EnqueueStatisticsRefresh(ctx context.Context, reason string, delay time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewStatisticsRefreshTask(StatisticsRefreshPayload{
		Reason:      reason,
		RequestedAt: c.now().UTC(),
	})
	if err != nil {
		return err
	}

	opts := []asynq.Option{
		asynq.Queue(c.queue),
		asynq.TaskID(TaskStatisticsRefresh + ":" + reason),
		asynq.MaxRetry(3),
	}
	if delay > 0 {
		opts = append(opts, asynq.ProcessIn(delay))
	}

	_, err = c.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

// RefreshOnChange enqueues a debounced refresh whenever a score changes.
func RefreshOnChange(bus events.Bus, enqueuer RefreshEnqueuer, log *logger.Logger) {
	handler := events.HandlerFunc(func(ctx context.Context, _ events.Event) error {
		if err := enqueuer.EnqueueStatisticsRefresh(ctx, RefreshReasonScoreChange, changeDebounce); err != nil {
			log.Warn("statistics refresh enqueue failed", "error", err)
		}
		return nil
	})
	for _, name := range events.ScoreChangeEvents {
		bus.Subscribe(name, handler)
	}
}

func queueName(cfg config.SchedulerConfig) string {
	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	return queue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
