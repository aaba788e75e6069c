// Package transport holds the request and response shapes of the scores API.
package transport

import (
	"time"

	"score_portal_backend/internal/scores/domain"

	"github.com/google/uuid"
)

// FactorInput is one submitted factor. Weight and value are pointers so an
// explicit zero is distinguishable from an omitted field.
type FactorInput struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Weight *float64 `json:"weight" validate:"required,gte=0,lte=1"`
	Value  *float64 `json:"value" validate:"required,gte=0,lte=100"`
}

type BudgetInput struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0"`
}

type LeadDetailsInput struct {
	Name         string      `json:"name" validate:"required,max=200"`
	Email        string      `json:"email" validate:"omitempty,email"`
	Phone        string      `json:"phone" validate:"omitempty,max=50"`
	Budget       BudgetInput `json:"budget"`
	InterestedIn []string    `json:"interestedIn" validate:"omitempty,max=50,dive,max=100"`
	Source       string      `json:"source"`
	Status       string      `json:"status"`
	AssignedTo   *uuid.UUID  `json:"assignedTo"`
}

type LocationInput struct {
	Area string `json:"area" validate:"required,max=200"`
	City string `json:"city" validate:"required,max=200"`
}

type PropertyDetailsInput struct {
	Name      string        `json:"name" validate:"required,max=200"`
	Location  LocationInput `json:"location"`
	Type      string        `json:"type" validate:"required"`
	Price     float64       `json:"price" validate:"gte=0"`
	Size      float64       `json:"size" validate:"gte=0"`
	Amenities []string      `json:"amenities" validate:"omitempty,max=50,dive,max=100"`
	Status    string        `json:"status"`
}

type PerformanceInput struct {
	LeadsHandled         int     `json:"leadsHandled" validate:"gte=0"`
	ConversionRate       float64 `json:"conversionRate" validate:"gte=0,lte=100"`
	RevenueGenerated     float64 `json:"revenueGenerated" validate:"gte=0"`
	CustomerSatisfaction float64 `json:"customerSatisfaction" validate:"gte=0"`
	ResponseTime         float64 `json:"responseTime" validate:"gte=0"`
}

type AgentDetailsInput struct {
	User        uuid.UUID        `json:"user" validate:"required"`
	Performance PerformanceInput `json:"performance"`
	Period      string           `json:"period"`
}

// CreateScoreRequest creates a score record. Exactly one of the detail
// fields must be set and it must match Type. Score is used only when
// no factor carries weight.
type CreateScoreRequest struct {
	Type            string                `json:"type" validate:"required"`
	Score           *int                  `json:"score"`
	Notes           string                `json:"notes" validate:"max=2000"`
	Factors         []FactorInput         `json:"factors" validate:"omitempty,max=50,dive"`
	LeadDetails     *LeadDetailsInput     `json:"leadDetails"`
	PropertyDetails *PropertyDetailsInput `json:"propertyDetails"`
	AgentDetails    *AgentDetailsInput    `json:"agentDetails"`
}

// UpdateScoreRequest patches a score record. Nil fields are left unchanged;
// a present detail replaces the stored detail of the same type.
type UpdateScoreRequest struct {
	Type            *string               `json:"type"`
	Score           *int                  `json:"score"`
	Notes           *string               `json:"notes" validate:"omitempty,max=2000"`
	Factors         *[]FactorInput        `json:"factors" validate:"omitempty,max=50,dive"`
	LeadDetails     *LeadDetailsInput     `json:"leadDetails"`
	PropertyDetails *PropertyDetailsInput `json:"propertyDetails"`
	AgentDetails    *AgentDetailsInput    `json:"agentDetails"`
}

type ListScoresRequest struct {
	Type      string `form:"type"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt score type"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	Limit     int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// RankingRequest drives the leaderboard and recent endpoints.
type RankingRequest struct {
	Type  string `form:"type"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// AnalyticsRequest selects the group order of an analytics report.
type AnalyticsRequest struct {
	OrderBy string `form:"orderBy" validate:"omitempty,oneof=firstSeen score count"`
}

type FactorResponse struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

type ScoreResponse struct {
	ID              uuid.UUID              `json:"id"`
	Type            domain.EntityType      `json:"type"`
	Score           int                    `json:"score"`
	Notes           string                 `json:"notes"`
	Factors         []FactorResponse       `json:"factors"`
	LeadDetails     *domain.LeadDetail     `json:"leadDetails,omitempty"`
	PropertyDetails *domain.PropertyDetail `json:"propertyDetails,omitempty"`
	AgentDetails    *domain.AgentDetail    `json:"agentDetails,omitempty"`
	CreatedBy       uuid.UUID              `json:"createdBy"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type ScoreListResponse struct {
	Items []ScoreResponse `json:"items"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type FactorTemplateResponse struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// TemplatesResponse maps entity type to its preset factors.
type TemplatesResponse map[domain.EntityType][]FactorTemplateResponse
