package service

import (
	"context"
	"sync"
	"time"

	"score_portal_backend/internal/events"
	"score_portal_backend/internal/scores/domain"
	"score_portal_backend/internal/scores/repository"
	"score_portal_backend/internal/scores/statistics"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu        sync.Mutex
	records   map[uuid.UUID]domain.ScoreRecord
	order     []uuid.UUID
	now       time.Time
	snapshots int
	err       error

	// When hold is set, Snapshot reads its records, signals held and then
	// waits for hold to close before returning them.
	hold chan struct{}
	held chan struct{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: make(map[uuid.UUID]domain.ScoreRecord),
		now:     time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) Create(_ context.Context, rec domain.ScoreRecord) (domain.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.ScoreRecord{}, r.err
	}
	rec.ID = uuid.New()
	r.now = r.now.Add(time.Minute)
	rec.CreatedAt, rec.UpdatedAt = r.now, r.now
	r.records[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	return rec, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return domain.ScoreRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (r *fakeRepo) List(_ context.Context, params repository.ListParams) ([]domain.ScoreRecord, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.ScoreRecord
	for _, id := range r.order {
		rec, ok := r.records[id]
		if !ok || (params.Type != nil && rec.Type != *params.Type) {
			continue
		}
		matched = append(matched, rec)
	}
	total := len(matched)
	if params.Offset >= len(matched) {
		return []domain.ScoreRecord{}, total, nil
	}
	end := min(params.Offset+params.Limit, len(matched))
	return matched[params.Offset:end], total, nil
}

func (r *fakeRepo) Update(_ context.Context, rec domain.ScoreRecord) (domain.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; !ok {
		return domain.ScoreRecord{}, repository.ErrNotFound
	}
	r.now = r.now.Add(time.Minute)
	rec.UpdatedAt = r.now
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeRepo) Snapshot(ctx context.Context, filter repository.SnapshotFilter) ([]domain.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.snapshots++
	if r.err != nil {
		r.mu.Unlock()
		return nil, r.err
	}
	out := r.matching(filter.Type)
	hold, held := r.hold, r.held
	r.mu.Unlock()

	if hold != nil {
		held <- struct{}{}
		<-hold
	}
	return out, nil
}

func (r *fakeRepo) Top(_ context.Context, t *domain.EntityType, n int) ([]domain.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return statistics.Leaderboard(r.matching(nil), typeOrAll(t), n), nil
}

func (r *fakeRepo) Latest(_ context.Context, t *domain.EntityType, n int) ([]domain.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return statistics.Recent(r.matching(nil), typeOrAll(t), n), nil
}

// matching must be called with r.mu held.
func (r *fakeRepo) matching(t *domain.EntityType) []domain.ScoreRecord {
	out := make([]domain.ScoreRecord, 0)
	for _, id := range r.order {
		rec, ok := r.records[id]
		if !ok || (t != nil && rec.Type != *t) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// release lets held snapshots return and stops holding new ones.
func (r *fakeRepo) release() {
	r.mu.Lock()
	hold := r.hold
	r.hold, r.held = nil, nil
	r.mu.Unlock()
	if hold != nil {
		close(hold)
	}
}

func typeOrAll(t *domain.EntityType) domain.EntityType {
	if t == nil {
		return ""
	}
	return *t
}

func (r *fakeRepo) snapshotCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshots
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
	handlers  map[string][]events.Handler
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	_ = b.PublishSync(ctx, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := append([]events.Handler(nil), b.handlers[event.EventName()]...)
	b.mu.Unlock()
	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (b *recordingBus) Subscribe(name string, handler events.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[string][]events.Handler)
	}
	b.handlers[name] = append(b.handlers[name], handler)
}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.EventName())
	}
	return out
}

type memoryCache struct {
	mu         sync.Mutex
	entries    map[string][]byte
	generation uint64
	cleared    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Generation(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *memoryCache) SetIfGeneration(_ context.Context, key string, value []byte, generation uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false, nil
	}
	c.entries[key] = value
	return true, nil
}

func (c *memoryCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries = make(map[string][]byte)
	c.cleared++
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
