// Package scores provides the score computation and analytics bounded context.
// This file wires the module's collaborators and registers its routes.
package scores

import (
	"score_portal_backend/internal/events"
	apphttp "score_portal_backend/internal/http"
	"score_portal_backend/internal/scores/analytics"
	"score_portal_backend/internal/scores/cache"
	"score_portal_backend/internal/scores/handler"
	"score_portal_backend/internal/scores/repository"
	"score_portal_backend/internal/scores/service"
	"score_portal_backend/platform/logger"
	"score_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the scores bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the scores module. Score changes are published on eventBus.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, statsCache cache.Cache, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, statsCache, analytics.New(), log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scores"
}

// Service returns the scores service for other modules and background jobs.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts score routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/scores"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/scores"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
