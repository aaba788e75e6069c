// Package statistics assembles analytics outputs and rankings into
// dashboard-ready reports.
package statistics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"score_portal_backend/internal/scores/analytics"
	"score_portal_backend/internal/scores/domain"
)

// DefaultTopN is the size of each per-type leaderboard in a Summary.
const DefaultTopN = 5

// TypeTotal counts the records of one entity type.
type TypeTotal struct {
	Type  domain.EntityType `json:"type"`
	Count int               `json:"count"`
}

// Totals are the headline figures of a Summary.
type Totals struct {
	Records      int         `json:"records"`
	AverageScore float64     `json:"averageScore"`
	ByType       []TypeTotal `json:"byType"`
}

// TypeLeaderboard is the top of one entity type.
type TypeLeaderboard struct {
	Type    domain.EntityType    `json:"type"`
	Records []domain.ScoreRecord `json:"records"`
}

// Summary is the full dashboard report over one snapshot.
type Summary struct {
	GeneratedAt       time.Time                      `json:"generatedAt"`
	Totals            Totals                         `json:"totals"`
	AveragesByType    []analytics.TypeAverage        `json:"averagesByType"`
	Distribution      []analytics.DistributionBucket `json:"distribution"`
	Trend             []analytics.TrendMonth         `json:"trend"`
	LeadConversion    analytics.LeadConversionReport `json:"leadConversion"`
	PropertyAnalytics analytics.PropertyReport       `json:"propertyAnalytics"`
	Leaderboards      []TypeLeaderboard              `json:"leaderboards"`
}

// Builder composes Summary reports.
type Builder struct {
	agg  *analytics.Aggregator
	topN int
}

// NewBuilder creates a Builder backed by agg.
func NewBuilder(agg *analytics.Aggregator) *Builder {
	return &Builder{agg: agg, topN: DefaultTopN}
}

// WithTopN returns a copy of the builder with a different leaderboard size.
func (b *Builder) WithTopN(n int) *Builder {
	cp := *b
	cp.topN = n
	return &cp
}

// Summary runs every aggregation over records.
func (b *Builder) Summary(records []domain.ScoreRecord) Summary {
	s := Summary{
		GeneratedAt:       b.agg.Now(),
		Totals:            totals(records),
		AveragesByType:    b.agg.AverageScoresByType(records),
		Distribution:      b.agg.ScoreDistribution(records),
		Trend:             b.agg.ScoreTrend(records),
		LeadConversion:    b.agg.LeadConversion(records),
		PropertyAnalytics: b.agg.PropertyAnalytics(records),
		Leaderboards:      make([]TypeLeaderboard, 0, len(domain.EntityTypes)),
	}
	for _, t := range domain.EntityTypes {
		s.Leaderboards = append(s.Leaderboards, TypeLeaderboard{
			Type:    t,
			Records: Leaderboard(records, t, b.topN),
		})
	}
	return s
}

func totals(records []domain.ScoreRecord) Totals {
	counts := make(map[domain.EntityType]int, len(domain.EntityTypes))
	var sum float64
	for _, r := range records {
		counts[r.Type]++
		sum += float64(r.Score)
	}

	t := Totals{Records: len(records), ByType: make([]TypeTotal, 0, len(domain.EntityTypes))}
	if len(records) > 0 {
		t.AverageScore = math.Round(sum/float64(len(records))*100) / 100
	}
	for _, typ := range domain.EntityTypes {
		t.ByType = append(t.ByType, TypeTotal{Type: typ, Count: counts[typ]})
	}
	return t
}

// Leaderboard returns at most n records of type t (all types when t is empty)
// by score descending. Ties go to the earlier createdAt, then the lower id.
func Leaderboard(records []domain.ScoreRecord, t domain.EntityType, n int) []domain.ScoreRecord {
	return topN(records, t, n, func(a, b domain.ScoreRecord) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a, b)
	})
}

// Recent returns at most n records of type t (all types when t is empty),
// newest first. Ties go to the lower id.
func Recent(records []domain.ScoreRecord, t domain.EntityType, n int) []domain.ScoreRecord {
	return topN(records, t, n, func(a, b domain.ScoreRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a, b)
	})
}

func topN(records []domain.ScoreRecord, t domain.EntityType, n int, compare func(a, b domain.ScoreRecord) int) []domain.ScoreRecord {
	if n <= 0 {
		return []domain.ScoreRecord{}
	}

	selected := make([]domain.ScoreRecord, 0, len(records))
	for _, r := range records {
		if t == "" || r.Type == t {
			selected = append(selected, r)
		}
	}
	slices.SortFunc(selected, compare)

	if len(selected) > n {
		selected = selected[:n]
	}
	return slices.Clip(selected)
}

func compareIDs(a, b domain.ScoreRecord) int {
	return slices.Compare(a.ID[:], b.ID[:])
}
