package service

import (
	"strings"

	"score_portal_backend/internal/scores/domain"
	"score_portal_backend/internal/scores/transport"
	"score_portal_backend/platform/apperr"
)

// ToScoreResponse maps a domain record to its API shape.
func ToScoreResponse(rec domain.ScoreRecord) transport.ScoreResponse {
	resp := transport.ScoreResponse{
		ID:        rec.ID,
		Type:      rec.Type,
		Score:     rec.Score,
		Notes:     rec.Notes,
		Factors:   make([]transport.FactorResponse, 0, len(rec.Factors)),
		CreatedBy: rec.CreatedBy,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	for _, f := range rec.Factors {
		resp.Factors = append(resp.Factors, transport.FactorResponse{Name: f.Name, Weight: f.Weight, Value: f.Value})
	}
	domain.MatchDetail(rec.Detail,
		func(l domain.LeadDetail) struct{} { resp.LeadDetails = &l; return struct{}{} },
		func(p domain.PropertyDetail) struct{} { resp.PropertyDetails = &p; return struct{}{} },
		func(a domain.AgentDetail) struct{} { resp.AgentDetails = &a; return struct{}{} },
	)
	return resp
}

func toScoreResponses(records []domain.ScoreRecord) []transport.ScoreResponse {
	out := make([]transport.ScoreResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, ToScoreResponse(rec))
	}
	return out
}

func toFactors(inputs []transport.FactorInput) []domain.Factor {
	factors := make([]domain.Factor, 0, len(inputs))
	for _, in := range inputs {
		f := domain.Factor{Name: strings.TrimSpace(in.Name)}
		if in.Weight != nil {
			f.Weight = *in.Weight
		}
		if in.Value != nil {
			f.Value = *in.Value
		}
		factors = append(factors, f)
	}
	return factors
}

func toLeadDetail(in transport.LeadDetailsInput) domain.LeadDetail {
	return domain.LeadDetail{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Budget:       domain.Budget{Min: in.Budget.Min, Max: in.Budget.Max},
		InterestedIn: in.InterestedIn,
		Source:       domain.LeadSource(in.Source),
		Status:       domain.LeadStatus(in.Status),
		AssignedTo:   in.AssignedTo,
	}
}

func toPropertyDetail(in transport.PropertyDetailsInput) domain.PropertyDetail {
	return domain.PropertyDetail{
		Name:      in.Name,
		Location:  domain.Location{Area: in.Location.Area, City: in.Location.City},
		Kind:      domain.PropertyKind(in.Type),
		Price:     in.Price,
		Size:      in.Size,
		Amenities: in.Amenities,
		Status:    domain.PropertyStatus(in.Status),
	}
}

func toAgentDetail(in transport.AgentDetailsInput) domain.AgentDetail {
	return domain.AgentDetail{
		User: in.User,
		Performance: domain.Performance{
			LeadsHandled:         in.Performance.LeadsHandled,
			ConversionRate:       in.Performance.ConversionRate,
			RevenueGenerated:     in.Performance.RevenueGenerated,
			CustomerSatisfaction: in.Performance.CustomerSatisfaction,
			ResponseTime:         in.Performance.ResponseTime,
		},
		Period: domain.Period(in.Period),
	}
}

// detailInputs is the set of optional detail payloads a request can carry.
type detailInputs struct {
	lead     *transport.LeadDetailsInput
	property *transport.PropertyDetailsInput
	agent    *transport.AgentDetailsInput
}

// resolve returns the detail for entity type t. Payloads for other types are
// rejected; a missing payload yields nil and is left to domain validation.
func (d detailInputs) resolve(t domain.EntityType) (domain.Detail, error) {
	var stray []apperr.FieldError
	reject := func(field string) {
		stray = append(stray, apperr.FieldError{Field: field, Message: "must not be set for type " + string(t)})
	}

	var detail domain.Detail
	if d.lead != nil {
		if t == domain.TypeLead {
			detail = toLeadDetail(*d.lead)
		} else {
			reject("leadDetails")
		}
	}
	if d.property != nil {
		if t == domain.TypeProperty {
			detail = toPropertyDetail(*d.property)
		} else {
			reject("propertyDetails")
		}
	}
	if d.agent != nil {
		if t == domain.TypeAgent {
			detail = toAgentDetail(*d.agent)
		} else {
			reject("agentDetails")
		}
	}

	if len(stray) > 0 {
		return nil, apperr.ValidationFields(stray...)
	}
	return detail, nil
}

func (d detailInputs) empty() bool {
	return d.lead == nil && d.property == nil && d.agent == nil
}

func parseEntityType(value string) (domain.EntityType, error) {
	t, ok := domain.ParseEntityType(value)
	if !ok {
		return "", apperr.ValidationFields(apperr.FieldError{Field: "type", Message: "must be one of [Lead Property Agent]"})
	}
	return t, nil
}

// parseTypeFilter accepts an empty value as "all types".
func parseTypeFilter(value string) (*domain.EntityType, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseEntityType(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
