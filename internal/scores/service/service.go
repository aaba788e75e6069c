// Package service implements the scores use cases: the write path that
// computes a record's score before persisting it, and the read path that
// turns repository snapshots into reports.
package service

import (
	"context"
	"errors"

	"score_portal_backend/internal/events"
	"score_portal_backend/internal/scores/analytics"
	"score_portal_backend/internal/scores/cache"
	"score_portal_backend/internal/scores/domain"
	"score_portal_backend/internal/scores/repository"
	"score_portal_backend/internal/scores/statistics"
	"score_portal_backend/internal/scores/transport"
	"score_portal_backend/platform/apperr"
	"score_portal_backend/platform/logger"
	"score_portal_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPage         = 1
	defaultLimit        = 20
	defaultRankingLimit = 10
)

// Repository is the data access the scores service needs.
type Repository interface {
	repository.ScoreReader
	repository.ScoreWriter
	repository.SnapshotReader
	repository.RankingReader
}

// Service handles score records and their reports.
type Service struct {
	repo     Repository
	bus      events.Bus
	cache    cache.Cache
	agg      *analytics.Aggregator
	builder  *statistics.Builder
	log      *logger.Logger
	inflight singleflight.Group
}

// New creates a scores service. A nil cache disables caching.
func New(repo Repository, bus events.Bus, c cache.Cache, agg *analytics.Aggregator, log *logger.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	if agg == nil {
		agg = analytics.New()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:    repo,
		bus:     bus,
		cache:   c,
		agg:     agg,
		builder: statistics.NewBuilder(agg),
		log:     log,
	}
}

// Create validates the request, computes the score and persists the record.
func (s *Service) Create(ctx context.Context, req transport.CreateScoreRequest, actorID uuid.UUID) (transport.ScoreResponse, error) {
	entityType, err := parseEntityType(req.Type)
	if err != nil {
		return transport.ScoreResponse{}, err
	}

	detail, err := detailInputs{req.LeadDetails, req.PropertyDetails, req.AgentDetails}.resolve(entityType)
	if err != nil {
		return transport.ScoreResponse{}, err
	}

	rec := domain.ScoreRecord{
		Type:      entityType,
		Notes:     sanitize.Multiline(req.Notes),
		Factors:   toFactors(req.Factors),
		Detail:    domain.NormalizeDetail(detail),
		CreatedBy: actorID,
	}
	if err := domain.Validate(rec); err != nil {
		return transport.ScoreResponse{}, err
	}

	fallback := domain.MinScore
	if req.Score != nil {
		fallback = *req.Score
	}
	domain.ApplyScore(&rec, fallback)

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return transport.ScoreResponse{}, s.databaseError(ctx, "create score", err)
	}

	s.invalidate(ctx)
	s.log.WithContext(ctx).ScoreWritten("created", created.ID.String(), string(created.Type), created.Score)
	s.publish(ctx, events.ScoreCreated{
		BaseEvent:  events.NewBaseEvent(),
		ScoreID:    created.ID,
		EntityType: string(created.Type),
		Score:      created.Score,
		CreatedBy:  actorID,
	})
	return ToScoreResponse(created), nil
}

// GetByID returns one record.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ScoreResponse, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return transport.ScoreResponse{}, err
	}
	return ToScoreResponse(rec), nil
}

// Update applies a patch. The entity type is fixed at creation; the score is
// recomputed from the resulting factors, falling back to the patched or
// stored score when no factor carries weight.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateScoreRequest, actorID uuid.UUID) (transport.ScoreResponse, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return transport.ScoreResponse{}, err
	}

	if req.Type != nil {
		requested, err := parseEntityType(*req.Type)
		if err != nil {
			return transport.ScoreResponse{}, err
		}
		if requested != current.Type {
			return transport.ScoreResponse{}, apperr.ValidationFields(apperr.FieldError{Field: "type", Message: "cannot be changed"})
		}
	}

	next := current
	if req.Notes != nil {
		next.Notes = sanitize.Multiline(*req.Notes)
	}
	if req.Factors != nil {
		next.Factors = toFactors(*req.Factors)
	}

	patch := detailInputs{req.LeadDetails, req.PropertyDetails, req.AgentDetails}
	if !patch.empty() {
		detail, err := patch.resolve(current.Type)
		if err != nil {
			return transport.ScoreResponse{}, err
		}
		next.Detail = domain.NormalizeDetail(detail)
	}

	if err := domain.Validate(next); err != nil {
		return transport.ScoreResponse{}, err
	}

	fallback := current.Score
	if req.Score != nil {
		fallback = *req.Score
	}
	domain.ApplyScore(&next, fallback)

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ScoreResponse{}, apperr.NotFound("score not found")
		}
		return transport.ScoreResponse{}, s.databaseError(ctx, "update score", err)
	}

	s.invalidate(ctx)
	s.log.WithContext(ctx).ScoreWritten("updated", updated.ID.String(), string(updated.Type), updated.Score)
	s.publish(ctx, events.ScoreUpdated{
		BaseEvent:     events.NewBaseEvent(),
		ScoreID:       updated.ID,
		EntityType:    string(updated.Type),
		PreviousScore: current.Score,
		Score:         updated.Score,
		UpdatedBy:     actorID,
	})
	return ToScoreResponse(updated), nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("score not found")
		}
		return s.databaseError(ctx, "delete score", err)
	}

	s.invalidate(ctx)
	s.log.WithContext(ctx).ScoreWritten("deleted", id.String(), string(current.Type), current.Score)
	s.publish(ctx, events.ScoreDeleted{
		BaseEvent:  events.NewBaseEvent(),
		ScoreID:    id,
		EntityType: string(current.Type),
		DeletedBy:  actorID,
	})
	return nil
}

// List pages through records.
func (s *Service) List(ctx context.Context, req transport.ListScoresRequest) (transport.ScoreListResponse, error) {
	typeFilter, err := parseTypeFilter(req.Type)
	if err != nil {
		return transport.ScoreListResponse{}, err
	}

	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	records, total, err := s.repo.List(ctx, repository.ListParams{
		Type:      typeFilter,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return transport.ScoreListResponse{}, s.databaseError(ctx, "list scores", err)
	}

	return transport.ScoreListResponse{
		Items: toScoreResponses(records),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Templates returns the preset factors for every entity type.
func (s *Service) Templates() (transport.TemplatesResponse, error) {
	templates, err := domain.FactorTemplates()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "factor templates unavailable", err)
	}

	resp := make(transport.TemplatesResponse, len(templates))
	for t, items := range templates {
		out := make([]transport.FactorTemplateResponse, 0, len(items))
		for _, item := range items {
			out = append(out, transport.FactorTemplateResponse{Name: item.Name, Weight: item.Weight, Description: item.Description})
		}
		resp[t] = out
	}
	return resp, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (domain.ScoreRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ScoreRecord{}, apperr.NotFound("score not found")
		}
		return domain.ScoreRecord{}, s.databaseError(ctx, "get score", err)
	}
	return rec, nil
}

// databaseError logs an unexpected repository failure and returns it unchanged.
func (s *Service) databaseError(ctx context.Context, operation string, err error) error {
	s.log.WithContext(ctx).DatabaseError(operation, err)
	return err
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}
