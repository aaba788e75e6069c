package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// recordJSON is the wire shape of a ScoreRecord: the detail sits under a
// per-type key and only the key matching Type is populated.
type recordJSON struct {
	ID              uuid.UUID       `json:"id"`
	Type            EntityType      `json:"type"`
	Score           int             `json:"score"`
	Notes           string          `json:"notes"`
	Factors         []Factor        `json:"factors"`
	LeadDetails     *LeadDetail     `json:"leadDetails,omitempty"`
	PropertyDetails *PropertyDetail `json:"propertyDetails,omitempty"`
	AgentDetails    *AgentDetail    `json:"agentDetails,omitempty"`
	CreatedBy       uuid.UUID       `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (r ScoreRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		ID:        r.ID,
		Type:      r.Type,
		Score:     r.Score,
		Notes:     r.Notes,
		Factors:   r.Factors,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if out.Factors == nil {
		out.Factors = []Factor{}
	}
	MatchDetail(r.Detail,
		func(l LeadDetail) struct{} { out.LeadDetails = &l; return struct{}{} },
		func(p PropertyDetail) struct{} { out.PropertyDetails = &p; return struct{}{} },
		func(a AgentDetail) struct{} { out.AgentDetails = &a; return struct{}{} },
	)
	return json.Marshal(out)
}

func (r *ScoreRecord) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = ScoreRecord{
		ID:        in.ID,
		Type:      in.Type,
		Score:     in.Score,
		Notes:     in.Notes,
		Factors:   in.Factors,
		CreatedBy: in.CreatedBy,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
	switch in.Type {
	case TypeLead:
		if in.LeadDetails != nil {
			r.Detail = *in.LeadDetails
		}
	case TypeProperty:
		if in.PropertyDetails != nil {
			r.Detail = *in.PropertyDetails
		}
	case TypeAgent:
		if in.AgentDetails != nil {
			r.Detail = *in.AgentDetails
		}
	default:
		return fmt.Errorf("unmarshal score record: unknown entity type %q", in.Type)
	}
	return nil
}
