package analytics

import (
	"math"

	"score_portal_backend/internal/scores/domain"
)

// PropertyGroup summarizes properties sharing one key.
type PropertyGroup struct {
	Key          string  `json:"key"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
	AveragePrice float64 `json:"averagePrice"`
}

// PriceBucket summarizes properties within one price band.
type PriceBucket struct {
	Bucket       string  `json:"bucket"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
}

// PropertyReport is the property market view.
type PropertyReport struct {
	ByType     []PropertyGroup `json:"byType"`
	ByArea     []PropertyGroup `json:"byArea"`
	ByStatus   []PropertyGroup `json:"byStatus"`
	ByPriceBin []PriceBucket   `json:"byPrice"`
}

// PriceBand is a half-open price interval [Min, Max).
type PriceBand struct {
	Label string
	Min   float64
	Max   float64
}

// PriceBands are the price buckets in threshold order.
var PriceBands = []PriceBand{
	{Label: "<2M", Min: math.Inf(-1), Max: 2_000_000},
	{Label: "2M-5M", Min: 2_000_000, Max: 5_000_000},
	{Label: "5M-10M", Min: 5_000_000, Max: 10_000_000},
	{Label: "10M-20M", Min: 10_000_000, Max: 20_000_000},
	{Label: ">=20M", Min: 20_000_000, Max: math.Inf(1)},
}

func priceBandIndex(price float64) int {
	for i, b := range PriceBands {
		if price < b.Max {
			return i
		}
	}
	return len(PriceBands) - 1
}

// PropertyAnalytics groups Property records by type, area and status, and
// buckets them by price. Every price band is present, zero-filled.
func (a *Aggregator) PropertyAnalytics(records []domain.ScoreRecord) PropertyReport {
	byType := newGrouper[string]()
	byArea := newGrouper[string]()
	byStatus := newGrouper[string]()

	type bandSums struct {
		count int
		total float64
	}
	bands := make([]bandSums, len(PriceBands))

	for _, r := range records {
		p, ok := propertyOf(r)
		if !ok {
			continue
		}
		byType.add(string(p.Kind), r.Score).priceSum += p.Price
		byArea.add(p.Location.Area, r.Score).priceSum += p.Price
		byStatus.add(string(p.Status), r.Score).priceSum += p.Price

		b := &bands[priceBandIndex(p.Price)]
		b.count++
		b.total += float64(r.Score)
	}

	report := PropertyReport{
		ByType:     propertyGroups(byType.sorted(a.order)),
		ByArea:     propertyGroups(byArea.sorted(a.order)),
		ByStatus:   propertyGroups(byStatus.sorted(a.order)),
		ByPriceBin: make([]PriceBucket, 0, len(PriceBands)),
	}
	for i, band := range PriceBands {
		report.ByPriceBin = append(report.ByPriceBin, PriceBucket{
			Bucket:       band.Label,
			Count:        bands[i].count,
			AverageScore: average(bands[i].total, bands[i].count),
		})
	}
	return report
}

func propertyGroups(groups []*group[string]) []PropertyGroup {
	out := make([]PropertyGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, PropertyGroup{
			Key:          g.key,
			Count:        g.count,
			AverageScore: g.averageScore(),
			AveragePrice: g.averagePrice(),
		})
	}
	return out
}
