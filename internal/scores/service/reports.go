package service

import (
	"context"
	"encoding/json"
	"strconv"

	"score_portal_backend/internal/scores/analytics"
	"score_portal_backend/internal/scores/cache"
	"score_portal_backend/internal/scores/domain"
	"score_portal_backend/internal/scores/repository"
	"score_portal_backend/internal/scores/statistics"
	"score_portal_backend/internal/scores/transport"

	"golang.org/x/sync/errgroup"
)

// Statistics returns the dashboard summary, served from cache when possible.
func (s *Service) Statistics(ctx context.Context) (statistics.Summary, error) {
	return cached(ctx, s, cache.KeySummary, s.computeSummary)
}

// LeadConversion returns the lead funnel report.
func (s *Service) LeadConversion(ctx context.Context, req transport.AnalyticsRequest) (analytics.LeadConversionReport, error) {
	agg := s.agg.Ordered(parseOrder(req.OrderBy))
	return cached(ctx, s, cache.KeyLeadConversion+":"+orderKey(req.OrderBy), func(ctx context.Context) (analytics.LeadConversionReport, error) {
		records, err := s.snapshotOf(ctx, domain.TypeLead)
		if err != nil {
			return analytics.LeadConversionReport{}, err
		}
		return agg.LeadConversion(records), nil
	})
}

// PropertyAnalytics returns the property market report.
func (s *Service) PropertyAnalytics(ctx context.Context, req transport.AnalyticsRequest) (analytics.PropertyReport, error) {
	agg := s.agg.Ordered(parseOrder(req.OrderBy))
	return cached(ctx, s, cache.KeyProperty+":"+orderKey(req.OrderBy), func(ctx context.Context) (analytics.PropertyReport, error) {
		records, err := s.snapshotOf(ctx, domain.TypeProperty)
		if err != nil {
			return analytics.PropertyReport{}, err
		}
		return agg.PropertyAnalytics(records), nil
	})
}

// Leaderboard returns the top records by score.
func (s *Service) Leaderboard(ctx context.Context, req transport.RankingRequest) ([]transport.ScoreResponse, error) {
	t, err := parseTypeFilter(req.Type)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Top(ctx, t, rankingLimit(req.Limit))
	if err != nil {
		return nil, s.databaseError(ctx, "leaderboard", err)
	}
	return toScoreResponses(records), nil
}

// Recent returns the newest records.
func (s *Service) Recent(ctx context.Context, req transport.RankingRequest) ([]transport.ScoreResponse, error) {
	t, err := parseTypeFilter(req.Type)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Latest(ctx, t, rankingLimit(req.Limit))
	if err != nil {
		return nil, s.databaseError(ctx, "recent scores", err)
	}
	return toScoreResponses(records), nil
}

// Snapshot returns every record, optionally restricted to one type.
func (s *Service) Snapshot(ctx context.Context, typeFilter string) ([]domain.ScoreRecord, error) {
	t, err := parseTypeFilter(typeFilter)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return s.snapshotOf(ctx, *t)
	}
	return s.snapshotAll(ctx)
}

// RefreshStatistics drops cached reports and rebuilds the summary.
func (s *Service) RefreshStatistics(ctx context.Context) error {
	s.invalidate(ctx)
	generation, genErr := s.cache.Generation(ctx)
	summary, err := s.computeSummary(ctx)
	if err != nil {
		return err
	}
	if genErr == nil {
		s.store(ctx, cache.KeySummary, summary, generation)
	}
	return nil
}

// invalidate drops cached reports before a write returns, so the writer's
// next read never sees a report from before its own change. Cache failures
// are logged by the cache and do not fail the write.
func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.InvalidateAll(context.WithoutCancel(ctx))
}

func (s *Service) computeSummary(ctx context.Context) (statistics.Summary, error) {
	records, err := s.snapshotAll(ctx)
	if err != nil {
		return statistics.Summary{}, err
	}
	return s.builder.Summary(records), nil
}

// snapshotAll reads the per-type snapshots concurrently. Each snapshot is
// consistent on its own; together they are not a single point in time.
func (s *Service) snapshotAll(ctx context.Context) ([]domain.ScoreRecord, error) {
	parts := make([][]domain.ScoreRecord, len(domain.EntityTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range domain.EntityTypes {
		g.Go(func() error {
			records, err := s.snapshotOf(gctx, t)
			if err != nil {
				return err
			}
			parts[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, p := range parts {
		total += len(p)
	}
	all := make([]domain.ScoreRecord, 0, total)
	for _, p := range parts {
		all = append(all, p...)
	}
	return all, nil
}

func (s *Service) snapshotOf(ctx context.Context, t domain.EntityType) ([]domain.ScoreRecord, error) {
	records, err := s.repo.Snapshot(ctx, repository.SnapshotFilter{Type: &t})
	if err != nil {
		return nil, s.databaseError(ctx, "snapshot "+string(t), err)
	}
	return records, nil
}

// cached serves key from the cache, computing and storing it on a miss.
// Concurrent misses for the same key and cache generation share one
// computation, which runs detached from any single caller's cancellation.
// Cache failures degrade to computing the value without storing it.
func cached[T any](ctx context.Context, s *Service, key string, compute func(context.Context) (T, error)) (T, error) {
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		s.log.Warn("discarding undecodable cache entry", "key", key)
	}

	// Read before the snapshot so a write that lands mid-compute bumps it.
	generation, genErr := s.cache.Generation(ctx)
	flightKey := key + "@" + strconv.FormatUint(generation, 10)
	if genErr != nil {
		flightKey = key + "@uncached"
	}

	v, err, _ := s.inflight.Do(flightKey, func() (interface{}, error) {
		detached := context.WithoutCancel(ctx)
		value, err := compute(detached)
		if err != nil {
			return value, err
		}
		if genErr == nil {
			s.store(detached, key, value, generation)
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (s *Service) store(ctx context.Context, key string, value interface{}, generation uint64) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.CacheError("encode "+key, err)
		return
	}
	stored, err := s.cache.SetIfGeneration(ctx, key, raw, generation)
	if err == nil && !stored {
		s.log.Debug("dropping report computed before invalidation", "key", key)
	}
}

func parseOrder(value string) analytics.Order {
	switch value {
	case "score":
		return analytics.OrderByScoreDesc
	case "count":
		return analytics.OrderByCountDesc
	default:
		return analytics.OrderFirstSeen
	}
}

func orderKey(value string) string {
	switch value {
	case "score", "count":
		return value
	default:
		return "firstSeen"
	}
}

func rankingLimit(limit int) int {
	if limit < 1 {
		return defaultRankingLimit
	}
	return limit
}
