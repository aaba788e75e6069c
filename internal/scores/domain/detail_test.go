package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMatchDetailDispatchesByVariant(t *testing.T) {
	name := func(d Detail) string {
		return MatchDetail(d,
			func(LeadDetail) string { return "lead" },
			func(PropertyDetail) string { return "property" },
			func(AgentDetail) string { return "agent" },
		)
	}

	if got := name(validLead()); got != "lead" {
		t.Fatalf("expected lead, got %q", got)
	}
	if got := name(validProperty()); got != "property" {
		t.Fatalf("expected property, got %q", got)
	}
	if got := name(validAgent()); got != "agent" {
		t.Fatalf("expected agent, got %q", got)
	}
	if got := name(nil); got != "" {
		t.Fatalf("expected zero value for nil detail, got %q", got)
	}
}

func TestDecodeDetailUsesTypeDiscriminant(t *testing.T) {
	raw, err := EncodeDetail(validProperty())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeDetail(TypeProperty, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	property, ok := decoded.(PropertyDetail)
	if !ok {
		t.Fatalf("expected PropertyDetail, got %T", decoded)
	}
	if property.Kind != PropertyResidential || property.Location.City != "Amsterdam" {
		t.Fatalf("unexpected property %+v", property)
	}

	if _, err := DecodeDetail("Building", raw); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestNormalizeDetailFillsDefaults(t *testing.T) {
	lead := NormalizeDetail(LeadDetail{
		Name:         "  Jane  ",
		Email:        " Jane@Example.COM ",
		Phone:        "06 12345678",
		InterestedIn: []string{" villa ", "", "apartment"},
	}).(LeadDetail)

	if lead.Name != "Jane" || lead.Email != "jane@example.com" {
		t.Fatalf("expected trimmed fields, got %+v", lead)
	}
	if lead.Phone != "+31612345678" {
		t.Fatalf("expected E.164 phone, got %q", lead.Phone)
	}
	if lead.Status != StatusNew || lead.Source != SourceOther {
		t.Fatalf("expected defaults new/other, got %s/%s", lead.Status, lead.Source)
	}
	if len(lead.InterestedIn) != 2 || lead.InterestedIn[0] != "villa" {
		t.Fatalf("unexpected interests %v", lead.InterestedIn)
	}

	property := NormalizeDetail(PropertyDetail{Kind: " Commercial "}).(PropertyDetail)
	if property.Kind != PropertyCommercial || property.Status != PropertyAvailable {
		t.Fatalf("unexpected property normalization %+v", property)
	}

	agent := NormalizeDetail(AgentDetail{}).(AgentDetail)
	if agent.Period != PeriodMonthly {
		t.Fatalf("expected monthly default, got %q", agent.Period)
	}
}

func TestLeadStatusConverted(t *testing.T) {
	converted := map[LeadStatus]bool{
		StatusNew: false, StatusContacted: false, StatusQualified: true,
		StatusNegotiation: true, StatusClosed: true, StatusLost: false,
	}
	for status, want := range converted {
		if status.Converted() != want {
			t.Errorf("%s.Converted() = %v, want %v", status, status.Converted(), want)
		}
	}
}

func TestParseEntityType(t *testing.T) {
	if got, ok := ParseEntityType(" lead "); !ok || got != TypeLead {
		t.Fatalf("expected Lead, got %q %v", got, ok)
	}
	if _, ok := ParseEntityType("building"); ok {
		t.Fatal("expected unknown type to fail")
	}
}

func TestScoreRecordJSONKeepsVariant(t *testing.T) {
	rec := ScoreRecord{Type: TypeLead, Score: 64, Detail: validLead()}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"leadDetails"`) || strings.Contains(string(data), `"agentDetails"`) {
		t.Fatalf("unexpected wire shape %s", data)
	}

	var back ScoreRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	lead, ok := back.Detail.(LeadDetail)
	if !ok || lead.Name != "Jane Doe" || back.Score != 64 {
		t.Fatalf("unexpected record %+v", back)
	}
}
