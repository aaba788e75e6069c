package repository

import (
	"strings"
	"testing"

	"score_portal_backend/internal/scores/domain"

	"github.com/google/uuid"
)

func TestBuildListWhere(t *testing.T) {
	lead := domain.TypeLead

	clause, args, next := buildListWhere(nil)
	if clause != "" || len(args) != 0 || next != 1 {
		t.Fatalf("unexpected unfiltered clause (%q, %v, %d)", clause, args, next)
	}

	clause, args, next = buildListWhere(&lead)
	if clause != "WHERE type = $1" || len(args) != 1 || args[0] != "Lead" || next != 2 {
		t.Fatalf("unexpected type clause (%q, %v, %d)", clause, args, next)
	}
}

func TestRankingQuery(t *testing.T) {
	agent := domain.TypeAgent

	cases := []struct {
		name      string
		typ       *domain.EntityType
		order     string
		n         int
		wantWhere string
		wantOrder string
		wantArgs  []interface{}
	}{
		{"top across types", nil, orderTop, 5, "", "ORDER BY score DESC, created_at ASC, id ASC LIMIT $1", []interface{}{5}},
		{"top per type", &agent, orderTop, 3, "WHERE type = $1", "ORDER BY score DESC, created_at ASC, id ASC LIMIT $2", []interface{}{"Agent", 3}},
		{"latest per type", &agent, orderLatest, 10, "WHERE type = $1", "ORDER BY created_at DESC, id ASC LIMIT $2", []interface{}{"Agent", 10}},
		{"negative limit", nil, orderLatest, -1, "", "LIMIT $1", []interface{}{0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query, args := rankingQuery(tc.typ, tc.order, tc.n)
			if tc.wantWhere != "" && !strings.Contains(query, tc.wantWhere) {
				t.Fatalf("expected %q in %q", tc.wantWhere, query)
			}
			if tc.wantWhere == "" && strings.Contains(query, "WHERE") {
				t.Fatalf("expected no filter in %q", query)
			}
			if !strings.HasSuffix(query, tc.wantOrder) {
				t.Fatalf("expected %q to end with %q", query, tc.wantOrder)
			}
			if len(args) != len(tc.wantArgs) {
				t.Fatalf("expected args %v, got %v", tc.wantArgs, args)
			}
			for i := range args {
				if args[i] != tc.wantArgs[i] {
					t.Fatalf("expected args %v, got %v", tc.wantArgs, args)
				}
			}
		})
	}
}

func TestSortMappingRejectsUnknownColumns(t *testing.T) {
	if got := mapSortColumn("score; DROP TABLE scores"); got != "created_at" {
		t.Fatalf("expected fallback column, got %q", got)
	}
	if got := mapSortColumn(SortByScore); got != "score" {
		t.Fatalf("expected score column, got %q", got)
	}
	if got := mapSortOrder("ASC"); got != "ASC" {
		t.Fatalf("expected ASC, got %q", got)
	}
	if got := mapSortOrder("sideways"); got != "DESC" {
		t.Fatalf("expected DESC default, got %q", got)
	}
}

func TestEncodeDecodePayload(t *testing.T) {
	rec := domain.ScoreRecord{
		ID:   uuid.New(),
		Type: domain.TypeAgent,
		Detail: domain.AgentDetail{
			User:        uuid.New(),
			Performance: domain.Performance{LeadsHandled: 4, ConversionRate: 25},
			Period:      domain.PeriodQuarterly,
		},
	}

	factors, detail, err := encodePayload(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(factors) != "[]" {
		t.Fatalf("expected empty factor array, got %s", factors)
	}

	decoded, err := decodeRecord(domain.ScoreRecord{ID: rec.ID}, "Agent", factors, detail)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	agent, ok := decoded.Detail.(domain.AgentDetail)
	if !ok || agent.Period != domain.PeriodQuarterly || agent.Performance.LeadsHandled != 4 {
		t.Fatalf("unexpected decoded detail %+v", decoded.Detail)
	}
	if decoded.Factors == nil {
		t.Fatal("expected non-nil factors")
	}
}

func TestEncodePayloadRequiresDetail(t *testing.T) {
	if _, _, err := encodePayload(domain.ScoreRecord{Type: domain.TypeLead}); err == nil {
		t.Fatal("expected error for missing detail")
	}
}
