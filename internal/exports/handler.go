package exports

import (
	"context"
	"net/http"

	"score_portal_backend/platform/httpkit"
	"score_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportService is the part of the export service the HTTP layer calls.
type ExportService interface {
	Create(ctx context.Context, req CreateExportRequest, actorID uuid.UUID) (ExportResponse, error)
	List(ctx context.Context, actorID uuid.UUID) ([]ExportResponse, error)
	Download(ctx context.Context, id, actorID uuid.UUID) (ExportResponse, error)
}

// Handler handles report export requests.
type Handler struct {
	svc ExportService
	val *validator.Validator
}

// NewHandler creates a new export handler.
func NewHandler(svc ExportService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.HandleCreate)
	rg.GET("", h.HandleList)
	rg.GET("/:id/download", h.HandleDownload)
}

func (h *Handler) HandleCreate(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if httpkit.HandleError(c, h.val.Validate(req)) {
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

func (h *Handler) HandleList(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) HandleDownload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid export id", nil)
		return
	}

	resp, err := h.svc.Download(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
