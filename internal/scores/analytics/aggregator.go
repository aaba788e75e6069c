// Package analytics reduces a snapshot of score records into the grouped,
// bucketed and trended views used by dashboards. Every operation is pure and
// returns a well-formed result for an empty snapshot.
package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"score_portal_backend/internal/scores/domain"
)

// Order controls how grouped outputs are sorted.
type Order int

const (
	// OrderFirstSeen keeps groups in the order their key first appears in the input.
	OrderFirstSeen Order = iota
	// OrderByScoreDesc sorts groups by average score, highest first.
	OrderByScoreDesc
	// OrderByCountDesc sorts groups by record count, largest first.
	OrderByCountDesc
)

// Score bands used by AverageScoresByType.
const (
	HighScoreThreshold   = 80
	MediumScoreThreshold = 50
)

// TrendMonths is the length of the ScoreTrend window, current month included.
const TrendMonths = 6

// Aggregator computes analytics over caller-supplied record snapshots.
type Aggregator struct {
	now   func() time.Time
	order Order
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock sets the time source used to anchor the trend window.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Aggregator using the wall clock and first-seen ordering.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{now: time.Now, order: OrderFirstSeen}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ordered returns a copy of the aggregator that sorts groups by order.
func (a *Aggregator) Ordered(order Order) *Aggregator {
	cp := *a
	cp.order = order
	return &cp
}

// Now exposes the aggregator's clock.
func (a *Aggregator) Now() time.Time {
	return a.now()
}

// group accumulates the running sums of one grouping key.
type group[K comparable] struct {
	key       K
	count     int
	scoreSum  float64
	priceSum  float64
	converted int
}

func (g *group[K]) averageScore() float64 { return average(g.scoreSum, g.count) }
func (g *group[K]) averagePrice() float64 { return average(g.priceSum, g.count) }

// grouper keeps groups in first-seen order.
type grouper[K comparable] struct {
	index  map[K]int
	groups []*group[K]
}

func newGrouper[K comparable]() *grouper[K] {
	return &grouper[K]{index: make(map[K]int)}
}

func (g *grouper[K]) add(key K, score int) *group[K] {
	idx, ok := g.index[key]
	if !ok {
		idx = len(g.groups)
		g.index[key] = idx
		g.groups = append(g.groups, &group[K]{key: key})
	}
	grp := g.groups[idx]
	grp.count++
	grp.scoreSum += float64(score)
	return grp
}

// sorted returns the groups in the aggregator's order. Sorting is stable so
// ties keep their first-seen position.
func (g *grouper[K]) sorted(order Order) []*group[K] {
	out := slices.Clone(g.groups)
	switch order {
	case OrderByScoreDesc:
		slices.SortStableFunc(out, func(x, y *group[K]) int {
			return cmp.Compare(y.averageScore(), x.averageScore())
		})
	case OrderByCountDesc:
		slices.SortStableFunc(out, func(x, y *group[K]) int {
			return cmp.Compare(y.count, x.count)
		})
	}
	return out
}

func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return round2(sum / float64(count))
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// leadOf reports the lead detail of a Lead record.
func leadOf(r domain.ScoreRecord) (domain.LeadDetail, bool) {
	type view struct {
		detail domain.LeadDetail
		ok     bool
	}
	v := domain.MatchDetail(r.Detail,
		func(l domain.LeadDetail) view { return view{l, true} },
		func(domain.PropertyDetail) view { return view{} },
		func(domain.AgentDetail) view { return view{} },
	)
	return v.detail, v.ok && r.Type == domain.TypeLead
}

// propertyOf reports the property detail of a Property record.
func propertyOf(r domain.ScoreRecord) (domain.PropertyDetail, bool) {
	type view struct {
		detail domain.PropertyDetail
		ok     bool
	}
	v := domain.MatchDetail(r.Detail,
		func(domain.LeadDetail) view { return view{} },
		func(p domain.PropertyDetail) view { return view{p, true} },
		func(domain.AgentDetail) view { return view{} },
	)
	return v.detail, v.ok && r.Type == domain.TypeProperty
}
