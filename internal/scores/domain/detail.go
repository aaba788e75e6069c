package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"score_portal_backend/platform/phone"
	"score_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Detail is the type-specific payload of a ScoreRecord. It is a closed set:
// LeadDetail, PropertyDetail and AgentDetail are the only implementations.
// Branch on it with MatchDetail.
type Detail interface {
	EntityType() EntityType
	sealed()
}

// MatchDetail calls exactly one handler, chosen by the variant of d.
// Every call site must supply a handler for every variant. A nil Detail
// yields the zero value of T.
func MatchDetail[T any](
	d Detail,
	lead func(LeadDetail) T,
	property func(PropertyDetail) T,
	agent func(AgentDetail) T,
) T {
	switch v := d.(type) {
	case LeadDetail:
		return lead(v)
	case PropertyDetail:
		return property(v)
	case AgentDetail:
		return agent(v)
	}
	var zero T
	return zero
}

// LeadSource is where a lead came from.
type LeadSource string

const (
	SourceWebsite       LeadSource = "website"
	SourceReferral      LeadSource = "referral"
	SourceSocial        LeadSource = "social"
	SourceAdvertisement LeadSource = "advertisement"
	SourceDirect        LeadSource = "direct"
	SourceOther         LeadSource = "other"
)

// Valid reports whether s is a known lead source.
func (s LeadSource) Valid() bool {
	switch s {
	case SourceWebsite, SourceReferral, SourceSocial, SourceAdvertisement, SourceDirect, SourceOther:
		return true
	}
	return false
}

// LeadStatus is the funnel position of a lead. Transitions between statuses
// are not restricted.
type LeadStatus string

const (
	StatusNew         LeadStatus = "new"
	StatusContacted   LeadStatus = "contacted"
	StatusQualified   LeadStatus = "qualified"
	StatusNegotiation LeadStatus = "negotiation"
	StatusClosed      LeadStatus = "closed"
	StatusLost        LeadStatus = "lost"
)

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusNegotiation, StatusClosed, StatusLost:
		return true
	}
	return false
}

// Converted reports whether the status counts as a won lead.
func (s LeadStatus) Converted() bool {
	switch s {
	case StatusQualified, StatusNegotiation, StatusClosed:
		return true
	}
	return false
}

// Budget is a lead's spending range in the detail's currency unit.
type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// LeadDetail describes a sales lead.
type LeadDetail struct {
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Budget       Budget     `json:"budget"`
	InterestedIn []string   `json:"interestedIn"`
	Source       LeadSource `json:"source"`
	Status       LeadStatus `json:"status"`
	AssignedTo   *uuid.UUID `json:"assignedTo,omitempty"`
}

func (LeadDetail) EntityType() EntityType { return TypeLead }
func (LeadDetail) sealed()                {}

// PropertyKind is the usage class of a property.
type PropertyKind string

const (
	PropertyResidential PropertyKind = "residential"
	PropertyCommercial  PropertyKind = "commercial"
	PropertyLand        PropertyKind = "land"
)

// Valid reports whether k is a known property kind.
func (k PropertyKind) Valid() bool {
	switch k {
	case PropertyResidential, PropertyCommercial, PropertyLand:
		return true
	}
	return false
}

// PropertyStatus is the market status of a property.
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyPending   PropertyStatus = "pending"
	PropertySold      PropertyStatus = "sold"
)

// Valid reports whether s is a known property status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertyPending, PropertySold:
		return true
	}
	return false
}

// Location places a property.
type Location struct {
	Area string `json:"area"`
	City string `json:"city"`
}

// PropertyDetail describes a listed property.
type PropertyDetail struct {
	Name      string         `json:"name"`
	Location  Location       `json:"location"`
	Kind      PropertyKind   `json:"type"`
	Price     float64        `json:"price"`
	Size      float64        `json:"size"`
	Amenities []string       `json:"amenities"`
	Status    PropertyStatus `json:"status"`
}

func (PropertyDetail) EntityType() EntityType { return TypeProperty }
func (PropertyDetail) sealed()                {}

// Period is the reporting window an agent's performance covers.
type Period string

const (
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return true
	}
	return false
}

// Performance holds an agent's figures for one period.
type Performance struct {
	LeadsHandled         int     `json:"leadsHandled"`
	ConversionRate       float64 `json:"conversionRate"`
	RevenueGenerated     float64 `json:"revenueGenerated"`
	CustomerSatisfaction float64 `json:"customerSatisfaction"`
	ResponseTime         float64 `json:"responseTime"`
}

// AgentDetail describes a sales agent's performance.
type AgentDetail struct {
	User        uuid.UUID   `json:"user"`
	Performance Performance `json:"performance"`
	Period      Period      `json:"period"`
}

func (AgentDetail) EntityType() EntityType { return TypeAgent }
func (AgentDetail) sealed()                {}

// EncodeDetail serializes the variant payload without a type tag; the
// record's Type column carries the discriminant.
func EncodeDetail(d Detail) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("encode detail: nil detail")
	}
	return json.Marshal(d)
}

// DecodeDetail parses a payload written by EncodeDetail for entity type t.
func DecodeDetail(t EntityType, raw []byte) (Detail, error) {
	switch t {
	case TypeLead:
		var d LeadDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode lead detail: %w", err)
		}
		return d, nil
	case TypeProperty:
		var d PropertyDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode property detail: %w", err)
		}
		return d, nil
	case TypeAgent:
		var d AgentDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode agent detail: %w", err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("decode detail: unknown entity type %q", t)
}

// NormalizeDetail cleans free text, lowercases enum values and fills the
// default status, source and period. Lead phone numbers become E.164 when they parse.
func NormalizeDetail(d Detail) Detail {
	return MatchDetail(d,
		func(l LeadDetail) Detail {
			l.Name = sanitize.Text(l.Name)
			l.Email = strings.ToLower(strings.TrimSpace(l.Email))
			l.Phone = phone.NormalizeE164(l.Phone)
			l.Source = LeadSource(strings.ToLower(strings.TrimSpace(string(l.Source))))
			l.Status = LeadStatus(strings.ToLower(strings.TrimSpace(string(l.Status))))
			if l.Source == "" {
				l.Source = SourceOther
			}
			if l.Status == "" {
				l.Status = StatusNew
			}
			l.InterestedIn = sanitize.List(l.InterestedIn)
			return l
		},
		func(p PropertyDetail) Detail {
			p.Name = sanitize.Text(p.Name)
			p.Location.Area = sanitize.Text(p.Location.Area)
			p.Location.City = sanitize.Text(p.Location.City)
			p.Kind = PropertyKind(strings.ToLower(strings.TrimSpace(string(p.Kind))))
			p.Status = PropertyStatus(strings.ToLower(strings.TrimSpace(string(p.Status))))
			if p.Status == "" {
				p.Status = PropertyAvailable
			}
			p.Amenities = sanitize.List(p.Amenities)
			return p
		},
		func(a AgentDetail) Detail {
			a.Period = Period(strings.ToLower(strings.TrimSpace(string(a.Period))))
			if a.Period == "" {
				a.Period = PeriodMonthly
			}
			return a
		},
	)
}
