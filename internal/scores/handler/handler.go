package handler

import (
	"context"
	"net/http"

	"score_portal_backend/internal/scores/analytics"
	"score_portal_backend/internal/scores/statistics"
	"score_portal_backend/internal/scores/transport"
	"score_portal_backend/platform/httpkit"
	"score_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScoreService is the part of the scores service the HTTP layer calls.
type ScoreService interface {
	Create(ctx context.Context, req transport.CreateScoreRequest, actorID uuid.UUID) (transport.ScoreResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (transport.ScoreResponse, error)
	Update(ctx context.Context, id uuid.UUID, req transport.UpdateScoreRequest, actorID uuid.UUID) (transport.ScoreResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
	List(ctx context.Context, req transport.ListScoresRequest) (transport.ScoreListResponse, error)
	Statistics(ctx context.Context) (statistics.Summary, error)
	Leaderboard(ctx context.Context, req transport.RankingRequest) ([]transport.ScoreResponse, error)
	Recent(ctx context.Context, req transport.RankingRequest) ([]transport.ScoreResponse, error)
	LeadConversion(ctx context.Context, req transport.AnalyticsRequest) (analytics.LeadConversionReport, error)
	PropertyAnalytics(ctx context.Context, req transport.AnalyticsRequest) (analytics.PropertyReport, error)
	Templates() (transport.TemplatesResponse, error)
	RefreshStatistics(ctx context.Context) error
}

type Handler struct {
	svc ScoreService
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid score id"
)

func New(svc ScoreService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/statistics", h.Statistics)
	rg.GET("/leaderboard", h.Leaderboard)
	rg.GET("/recent", h.Recent)
	rg.GET("/templates", h.Templates)
	rg.GET("/analytics/lead-conversion", h.LeadConversion)
	rg.GET("/analytics/property", h.PropertyAnalytics)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// RegisterAdminRoutes mounts operator endpoints on an admin-only group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/statistics/refresh", h.RefreshStatistics)
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateScoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateScoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id, identity.UserID())) {
		return
	}
	httpkit.OK(c, gin.H{"id": id})
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListScoresRequest
	if !h.bindQuery(c, &req) {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Page(c, resp.Items, httpkit.NewPagination(resp.Total, resp.Page, resp.Limit))
}

func (h *Handler) Statistics(c *gin.Context) {
	summary, err := h.svc.Statistics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, summary)
}

func (h *Handler) Leaderboard(c *gin.Context) {
	var req transport.RankingRequest
	if !h.bindQuery(c, &req) {
		return
	}

	resp, err := h.svc.Leaderboard(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Recent(c *gin.Context) {
	var req transport.RankingRequest
	if !h.bindQuery(c, &req) {
		return
	}

	resp, err := h.svc.Recent(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) LeadConversion(c *gin.Context) {
	var req transport.AnalyticsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	report, err := h.svc.LeadConversion(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

func (h *Handler) PropertyAnalytics(c *gin.Context) {
	var req transport.AnalyticsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	report, err := h.svc.PropertyAnalytics(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

func (h *Handler) Templates(c *gin.Context) {
	resp, err := h.svc.Templates()
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// RefreshStatistics drops every cached report and rebuilds the summary now.
func (h *Handler) RefreshStatistics(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.RefreshStatistics(c.Request.Context())) {
		return
	}
	httpkit.OK(c, gin.H{"refreshed": true})
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	return !httpkit.HandleError(c, h.val.Validate(req))
}

func (h *Handler) bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	return !httpkit.HandleError(c, h.val.Validate(req))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
