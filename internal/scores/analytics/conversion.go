package analytics

import "score_portal_backend/internal/scores/domain"

// StatusGroup summarizes the leads in one funnel status.
type StatusGroup struct {
	Status       domain.LeadStatus `json:"status"`
	Count        int               `json:"count"`
	AverageScore float64           `json:"averageScore"`
}

// SourceGroup summarizes the leads from one source and how many converted.
type SourceGroup struct {
	Source         domain.LeadSource `json:"source"`
	Count          int               `json:"count"`
	AverageScore   float64           `json:"averageScore"`
	ConvertedCount int               `json:"convertedCount"`
	ConversionRate float64           `json:"conversionRate"`
}

// LeadConversionReport is the lead funnel view.
type LeadConversionReport struct {
	ByStatus []StatusGroup `json:"byStatus"`
	BySource []SourceGroup `json:"bySource"`
}

// LeadConversion groups Lead records by status and by source. A lead counts
// as converted when its status is qualified, negotiation or closed.
func (a *Aggregator) LeadConversion(records []domain.ScoreRecord) LeadConversionReport {
	byStatus := newGrouper[domain.LeadStatus]()
	bySource := newGrouper[domain.LeadSource]()

	for _, r := range records {
		lead, ok := leadOf(r)
		if !ok {
			continue
		}
		byStatus.add(lead.Status, r.Score)
		src := bySource.add(lead.Source, r.Score)
		if lead.Status.Converted() {
			src.converted++
		}
	}

	report := LeadConversionReport{
		ByStatus: make([]StatusGroup, 0, len(byStatus.groups)),
		BySource: make([]SourceGroup, 0, len(bySource.groups)),
	}
	for _, g := range byStatus.sorted(a.order) {
		report.ByStatus = append(report.ByStatus, StatusGroup{
			Status:       g.key,
			Count:        g.count,
			AverageScore: g.averageScore(),
		})
	}
	for _, g := range bySource.sorted(a.order) {
		report.BySource = append(report.BySource, sourceGroup(g))
	}
	return report
}

func sourceGroup(g *group[domain.LeadSource]) SourceGroup {
	return SourceGroup{
		Source:         g.key,
		Count:          g.count,
		AverageScore:   g.averageScore(),
		ConvertedCount: g.converted,
		ConversionRate: percentage(g.converted, g.count),
	}
}
