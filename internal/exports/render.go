package exports

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"score_portal_backend/internal/scores/analytics"
	"score_portal_backend/internal/scores/statistics"
	"score_portal_backend/internal/scores/transport"
)

// Report names an exportable report.
type Report string

const (
	ReportSummary        Report = "summary"
	ReportLeaderboard    Report = "leaderboard"
	ReportLeadConversion Report = "lead-conversion"
	ReportProperty       Report = "property"
	ReportScores         Report = "scores"
)

// Valid reports whether r is a known report.
func (r Report) Valid() bool {
	switch r {
	case ReportSummary, ReportLeaderboard, ReportLeadConversion, ReportProperty, ReportScores:
		return true
	}
	return false
}

// Table is a rendered report ready to be written as CSV.
type Table struct {
	Header []string
	Rows   [][]string
}

// CSV encodes the table with a header row.
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var summaryHeader = []string{"section", "type", "label", "count", "average_score"}

// SummaryTable flattens a dashboard summary into one row per figure.
func SummaryTable(s statistics.Summary) Table {
	rows := [][]string{{"totals", "", "all", itoa(s.Totals.Records), ftoa(s.Totals.AverageScore)}}
	for _, tt := range s.Totals.ByType {
		rows = append(rows, []string{"totals", string(tt.Type), "all", itoa(tt.Count), ""})
	}
	for _, avg := range s.AveragesByType {
		t := string(avg.Type)
		rows = append(rows,
			[]string{"averages", t, "all", itoa(avg.Count), ftoa(avg.AverageScore)},
			[]string{"averages", t, "high", itoa(avg.HighCount), ""},
			[]string{"averages", t, "medium", itoa(avg.MediumCount), ""},
			[]string{"averages", t, "low", itoa(avg.LowCount), ""},
		)
	}
	for _, b := range s.Distribution {
		rows = append(rows, []string{"distribution", string(b.Type), b.Range, itoa(b.Count), ""})
	}
	for _, m := range s.Trend {
		for _, e := range m.Entries {
			rows = append(rows, []string{"trend", string(e.Type), m.Month, itoa(e.Count), ftoa(e.AverageScore)})
		}
	}
	return Table{Header: summaryHeader, Rows: rows}
}

var scoreHeader = []string{"rank", "id", "type", "score", "subject", "status", "notes", "created_by", "created_at"}

// ScoresTable lists score records in the given order, ranked from 1.
func ScoresTable(records []transport.ScoreResponse) Table {
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		subject, status := describe(rec)
		rows = append(rows, []string{
			itoa(i + 1),
			rec.ID.String(),
			string(rec.Type),
			itoa(rec.Score),
			subject,
			status,
			rec.Notes,
			rec.CreatedBy.String(),
			rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return Table{Header: scoreHeader, Rows: rows}
}

// describe picks the human-facing name and status of a record.
func describe(rec transport.ScoreResponse) (string, string) {
	switch {
	case rec.LeadDetails != nil:
		return rec.LeadDetails.Name, string(rec.LeadDetails.Status)
	case rec.PropertyDetails != nil:
		return rec.PropertyDetails.Name, string(rec.PropertyDetails.Status)
	case rec.AgentDetails != nil:
		return rec.AgentDetails.User.String(), string(rec.AgentDetails.Period)
	}
	return "", ""
}

var conversionHeader = []string{"dimension", "key", "count", "average_score", "converted_count", "conversion_rate"}

// LeadConversionTable renders the status groups followed by the source groups.
func LeadConversionTable(r analytics.LeadConversionReport) Table {
	rows := make([][]string, 0, len(r.ByStatus)+len(r.BySource))
	for _, g := range r.ByStatus {
		converted := ""
		if g.Status.Converted() {
			converted = itoa(g.Count)
		}
		rows = append(rows, []string{"status", string(g.Status), itoa(g.Count), ftoa(g.AverageScore), converted, ""})
	}
	for _, g := range r.BySource {
		rows = append(rows, []string{"source", string(g.Source), itoa(g.Count), ftoa(g.AverageScore), itoa(g.ConvertedCount), ftoa(g.ConversionRate)})
	}
	return Table{Header: conversionHeader, Rows: rows}
}

var propertyHeader = []string{"dimension", "key", "count", "average_score", "average_price"}

// PropertyTable renders every property grouping, one dimension after another.
func PropertyTable(r analytics.PropertyReport) Table {
	var rows [][]string
	groups := func(dimension string, gs []analytics.PropertyGroup) {
		for _, g := range gs {
			rows = append(rows, []string{dimension, g.Key, itoa(g.Count), ftoa(g.AverageScore), ftoa(g.AveragePrice)})
		}
	}
	groups("type", r.ByType)
	groups("area", r.ByArea)
	groups("status", r.ByStatus)
	for _, b := range r.ByPriceBin {
		rows = append(rows, []string{"price", b.Bucket, itoa(b.Count), ftoa(b.AverageScore), ""})
	}
	if rows == nil {
		rows = [][]string{}
	}
	return Table{Header: propertyHeader, Rows: rows}
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
