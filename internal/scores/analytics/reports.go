package analytics

import (
	"fmt"
	"time"

	"score_portal_backend/internal/scores/domain"
)

// TypeAverage summarizes the scores of one entity type.
type TypeAverage struct {
	Type         domain.EntityType `json:"type"`
	Count        int               `json:"count"`
	AverageScore float64           `json:"averageScore"`
	HighCount    int               `json:"highCount"`
	MediumCount  int               `json:"mediumCount"`
	LowCount     int               `json:"lowCount"`
}

// AverageScoresByType groups records by type. Types with no records are omitted.
func (a *Aggregator) AverageScoresByType(records []domain.ScoreRecord) []TypeAverage {
	g := newGrouper[domain.EntityType]()
	bands := make(map[domain.EntityType]*[3]int)

	for _, r := range records {
		g.add(r.Type, r.Score)
		b, ok := bands[r.Type]
		if !ok {
			b = new([3]int)
			bands[r.Type] = b
		}
		switch {
		case r.Score >= HighScoreThreshold:
			b[0]++
		case r.Score >= MediumScoreThreshold:
			b[1]++
		default:
			b[2]++
		}
	}

	out := make([]TypeAverage, 0, len(g.groups))
	for _, grp := range g.sorted(a.order) {
		b := bands[grp.key]
		out = append(out, TypeAverage{
			Type:         grp.key,
			Count:        grp.count,
			AverageScore: grp.averageScore(),
			HighCount:    b[0],
			MediumCount:  b[1],
			LowCount:     b[2],
		})
	}
	return out
}

// ScoreRange is one fixed histogram bucket. Bounds are inclusive.
type ScoreRange struct {
	Label string
	Min   int
	Max   int
}

// ScoreRanges are the distribution buckets, in ascending order.
var ScoreRanges = []ScoreRange{
	{Label: "0-20", Min: 0, Max: 20},
	{Label: "21-40", Min: 21, Max: 40},
	{Label: "41-60", Min: 41, Max: 60},
	{Label: "61-80", Min: 61, Max: 80},
	{Label: "81-100", Min: 81, Max: 100},
}

func scoreRangeIndex(score int) int {
	score = domain.ClampScore(score)
	for i, r := range ScoreRanges {
		if score <= r.Max {
			return i
		}
	}
	return len(ScoreRanges) - 1
}

// DistributionBucket counts one type's records in one score range.
type DistributionBucket struct {
	Range string            `json:"range"`
	Type  domain.EntityType `json:"type"`
	Count int               `json:"count"`
}

// ScoreDistribution emits every (type, range) pair, zero-filled, ordered by
// type then ascending range.
func (a *Aggregator) ScoreDistribution(records []domain.ScoreRecord) []DistributionBucket {
	counts := make(map[domain.EntityType][]int, len(domain.EntityTypes))
	for _, t := range domain.EntityTypes {
		counts[t] = make([]int, len(ScoreRanges))
	}
	for _, r := range records {
		c, ok := counts[r.Type]
		if !ok {
			continue
		}
		c[scoreRangeIndex(r.Score)]++
	}

	out := make([]DistributionBucket, 0, len(domain.EntityTypes)*len(ScoreRanges))
	for _, t := range domain.EntityTypes {
		for i, rng := range ScoreRanges {
			out = append(out, DistributionBucket{Range: rng.Label, Type: t, Count: counts[t][i]})
		}
	}
	return out
}

// TrendEntry is one type's figures within a trend month.
type TrendEntry struct {
	Type         domain.EntityType `json:"type"`
	AverageScore float64           `json:"averageScore"`
	Count        int               `json:"count"`
}

// TrendMonth groups the per-type entries of one calendar month.
type TrendMonth struct {
	Month   string       `json:"month"`
	Year    int          `json:"year"`
	Number  int          `json:"monthNumber"`
	Entries []TrendEntry `json:"entries"`
}

type monthKey struct {
	year  int
	month time.Month
}

// ScoreTrend covers the TrendMonths calendar months ending with the clock's
// current month, oldest first. Months and types without records are zero-filled.
// Records are bucketed by createdAt in the clock's location.
func (a *Aggregator) ScoreTrend(records []domain.ScoreRecord) []TrendMonth {
	now := a.now()
	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(TrendMonths - 1), 0)

	type sums struct {
		count int
		total float64
	}
	keys := make([]monthKey, 0, TrendMonths)
	window := make(map[monthKey]map[domain.EntityType]*sums, TrendMonths)
	for i := 0; i < TrendMonths; i++ {
		m := first.AddDate(0, i, 0)
		k := monthKey{m.Year(), m.Month()}
		keys = append(keys, k)
		perType := make(map[domain.EntityType]*sums, len(domain.EntityTypes))
		for _, t := range domain.EntityTypes {
			perType[t] = &sums{}
		}
		window[k] = perType
	}

	for _, r := range records {
		created := r.CreatedAt.In(loc)
		perType, ok := window[monthKey{created.Year(), created.Month()}]
		if !ok {
			continue
		}
		s, ok := perType[r.Type]
		if !ok {
			continue
		}
		s.count++
		s.total += float64(r.Score)
	}

	out := make([]TrendMonth, 0, TrendMonths)
	for _, k := range keys {
		month := TrendMonth{
			Month:   fmt.Sprintf("%04d-%02d", k.year, int(k.month)),
			Year:    k.year,
			Number:  int(k.month),
			Entries: make([]TrendEntry, 0, len(domain.EntityTypes)),
		}
		for _, t := range domain.EntityTypes {
			s := window[k][t]
			month.Entries = append(month.Entries, TrendEntry{
				Type:         t,
				AverageScore: average(s.total, s.count),
				Count:        s.count,
			})
		}
		out = append(out, month)
	}
	return out
}
