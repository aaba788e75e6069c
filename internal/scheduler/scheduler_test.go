package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"score_portal_backend/internal/events"
	"score_portal_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testConfig struct {
	redisURL string
}

func (c testConfig) GetRedisURL() string                         { return c.redisURL }
func (c testConfig) GetRedisTLSInsecure() bool                   { return false }
func (c testConfig) GetAsynqQueueName() string                   { return "scores" }
func (c testConfig) GetAsynqConcurrency() int                    { return 1 }
func (c testConfig) GetStatisticsRefreshInterval() time.Duration { return time.Minute }

type enqueueCall struct {
	reason string
	delay  time.Duration
}

type recordingEnqueuer struct {
	mu     sync.Mutex
	calls  []enqueueCall
	onCall func()
}

func (r *recordingEnqueuer) EnqueueStatisticsRefresh(_ context.Context, reason string, delay time.Duration) error {
	r.mu.Lock()
	r.calls = append(r.calls, enqueueCall{reason, delay})
	r.mu.Unlock()
	if r.onCall != nil {
		r.onCall()
	}
	return nil
}

type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) RefreshStatistics(context.Context) error {
	r.calls++
	return r.err
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(testConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewClientRequiresRedis(t *testing.T) {
	if _, err := NewClient(testConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
	if _, err := NewWorker(testConfig{}, &countingRefresher{}, logger.Discard()); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestEnqueueStatisticsRefreshDeduplicates(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := client.EnqueueStatisticsRefresh(ctx, RefreshReasonInterval, 0); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	pending, err := mr.List("asynq:{scores}:pending")
	if err != nil {
		t.Fatalf("read pending queue: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected a single pending task, got %d", len(pending))
	}
}

func TestEnqueueStatisticsRefreshWithDelayIsScheduled(t *testing.T) {
	client, mr := newTestClient(t)

	if err := client.EnqueueStatisticsRefresh(context.Background(), RefreshReasonScoreChange, changeDebounce); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	scheduled, err := mr.ZMembers("asynq:{scores}:scheduled")
	if err != nil {
		t.Fatalf("read scheduled set: %v", err)
	}
	if len(scheduled) != 1 {
		t.Fatalf("expected one scheduled task, got %d", len(scheduled))
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var client *Client
	if err := client.EnqueueStatisticsRefresh(context.Background(), RefreshReasonInterval, 0); err != nil {
		t.Fatalf("expected nil client to be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRefreshOnChange(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	enqueuer := &recordingEnqueuer{}
	RefreshOnChange(bus, enqueuer, logger.Discard())

	ctx := context.Background()
	id := uuid.New()
	published := []events.Event{
		events.ScoreCreated{BaseEvent: events.NewBaseEvent(), ScoreID: id},
		events.ScoreUpdated{BaseEvent: events.NewBaseEvent(), ScoreID: id},
		events.ScoreDeleted{BaseEvent: events.NewBaseEvent(), ScoreID: id},
	}
	for _, e := range published {
		if err := bus.PublishSync(ctx, e); err != nil {
			t.Fatalf("publish %s: %v", e.EventName(), err)
		}
	}

	if len(enqueuer.calls) != len(published) {
		t.Fatalf("expected %d enqueues, got %d", len(published), len(enqueuer.calls))
	}
	for _, call := range enqueuer.calls {
		if call.reason != RefreshReasonScoreChange || call.delay != changeDebounce {
			t.Fatalf("unexpected enqueue %+v", call)
		}
	}
}

func TestStatisticsRefreshTickerEnqueuesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	enqueuer := &recordingEnqueuer{onCall: cancel}

	done := make(chan struct{})
	go func() {
		NewStatisticsRefreshTicker(enqueuer, logger.Discard(), time.Hour).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not stop after cancellation")
	}

	if len(enqueuer.calls) != 1 || enqueuer.calls[0].reason != RefreshReasonInterval {
		t.Fatalf("unexpected calls %+v", enqueuer.calls)
	}
}

func TestHandleStatisticsRefresh(t *testing.T) {
	task, err := NewStatisticsRefreshTask(StatisticsRefreshPayload{Reason: RefreshReasonInterval, RequestedAt: time.Now()})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	t.Run("refreshes", func(t *testing.T) {
		refresher := &countingRefresher{}
		w := &Worker{refresher: refresher, log: logger.Discard()}
		if err := w.handleStatisticsRefresh(context.Background(), task); err != nil {
			t.Fatalf("handle: %v", err)
		}
		if refresher.calls != 1 {
			t.Fatalf("expected one refresh, got %d", refresher.calls)
		}
	})

	t.Run("propagates refresh errors for retry", func(t *testing.T) {
		boom := errors.New("pg: down")
		w := &Worker{refresher: &countingRefresher{err: boom}, log: logger.Discard()}
		if err := w.handleStatisticsRefresh(context.Background(), task); !errors.Is(err, boom) {
			t.Fatalf("expected refresh error, got %v", err)
		}
	})

	t.Run("skips retry on bad payload", func(t *testing.T) {
		refresher := &countingRefresher{}
		w := &Worker{refresher: refresher, log: logger.Discard()}
		err := w.handleStatisticsRefresh(context.Background(), asynq.NewTask(TaskStatisticsRefresh, []byte("{")))
		if !errors.Is(err, asynq.SkipRetry) {
			t.Fatalf("expected SkipRetry, got %v", err)
		}
		if refresher.calls != 0 {
			t.Fatal("expected no refresh")
		}
	})
}
