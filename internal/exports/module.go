// Package exports renders score reports as CSV files in object storage and
// hands out presigned download links.
package exports

import (
	"score_portal_backend/internal/adapters/storage"
	apphttp "score_portal_backend/internal/http"
	"score_portal_backend/platform/logger"
	"score_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the report export module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule wires the export module. store may be nil when object storage
// is not configured; export requests then answer 503.
func NewModule(pool *pgxpool.Pool, reports ReportSource, store storage.StorageService, bucket string, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(reports, store, NewRepository(pool), bucket, log)
	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes under the scores group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/scores/exports"))
}

var _ apphttp.Module = (*Module)(nil)
