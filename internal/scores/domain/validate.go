package domain

import (
	"fmt"
	"math"
	"strings"

	"score_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	MinWeight = 0.0
	MaxWeight = 1.0
	MinValue  = 0.0
	MaxValue  = 100.0
)

type fieldErrors []apperr.FieldError

func (f *fieldErrors) add(field, format string, args ...interface{}) {
	*f = append(*f, apperr.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ValidateFactors checks every factor's name, weight and value ranges.
func ValidateFactors(factors []Factor) error {
	var errs fieldErrors
	validateFactors(&errs, factors)
	if len(errs) > 0 {
		return apperr.ValidationFields(errs...)
	}
	return nil
}

// Validate checks a record before it is persisted. It never coerces values;
// the only permitted adjustment is the score's own rounding and clamping.
func Validate(rec ScoreRecord) error {
	var errs fieldErrors

	if !rec.Type.Valid() {
		errs.add("type", "must be one of [Lead Property Agent]")
	}
	validateFactors(&errs, rec.Factors)

	switch {
	case rec.Detail == nil:
		errs.add(detailField(rec.Type), "is required for type %s", rec.Type)
	case rec.Type.Valid() && rec.Detail.EntityType() != rec.Type:
		errs.add(detailField(rec.Type), "does not match type %s (got %s detail)", rec.Type, rec.Detail.EntityType())
	default:
		MatchDetail(rec.Detail,
			func(l LeadDetail) struct{} { validateLead(&errs, l); return struct{}{} },
			func(p PropertyDetail) struct{} { validateProperty(&errs, p); return struct{}{} },
			func(a AgentDetail) struct{} { validateAgent(&errs, a); return struct{}{} },
		)
	}

	if len(errs) > 0 {
		return apperr.ValidationFields(errs...)
	}
	return nil
}

func detailField(t EntityType) string {
	switch t {
	case TypeLead:
		return "leadDetails"
	case TypeProperty:
		return "propertyDetails"
	case TypeAgent:
		return "agentDetails"
	}
	return "detail"
}

func validateFactors(errs *fieldErrors, factors []Factor) {
	for i, f := range factors {
		prefix := fmt.Sprintf("factors[%d]", i)
		if strings.TrimSpace(f.Name) == "" {
			errs.add(prefix+".name", "is required")
		}
		if !finite(f.Weight) || f.Weight < MinWeight || f.Weight > MaxWeight {
			errs.add(prefix+".weight", "must be between %g and %g", MinWeight, MaxWeight)
		}
		if !finite(f.Value) || f.Value < MinValue || f.Value > MaxValue {
			errs.add(prefix+".value", "must be between %g and %g", MinValue, MaxValue)
		}
	}
}

func validateLead(errs *fieldErrors, l LeadDetail) {
	if l.Name == "" {
		errs.add("leadDetails.name", "is required")
	}
	if !finite(l.Budget.Min) || l.Budget.Min < 0 {
		errs.add("leadDetails.budget.min", "must not be negative")
	}
	if !finite(l.Budget.Max) || l.Budget.Max < 0 {
		errs.add("leadDetails.budget.max", "must not be negative")
	}
	if l.Budget.Max > 0 && l.Budget.Min > l.Budget.Max {
		errs.add("leadDetails.budget", "min must not exceed max")
	}
	if !l.Source.Valid() {
		errs.add("leadDetails.source", "must be one of [website referral social advertisement direct other]")
	}
	if !l.Status.Valid() {
		errs.add("leadDetails.status", "must be one of [new contacted qualified negotiation closed lost]")
	}
	if l.AssignedTo != nil && *l.AssignedTo == uuid.Nil {
		errs.add("leadDetails.assignedTo", "must be a valid user id")
	}
}

func validateProperty(errs *fieldErrors, p PropertyDetail) {
	if p.Name == "" {
		errs.add("propertyDetails.name", "is required")
	}
	if p.Location.Area == "" {
		errs.add("propertyDetails.location.area", "is required")
	}
	if p.Location.City == "" {
		errs.add("propertyDetails.location.city", "is required")
	}
	if !p.Kind.Valid() {
		errs.add("propertyDetails.type", "must be one of [residential commercial land]")
	}
	if !finite(p.Price) || p.Price < 0 {
		errs.add("propertyDetails.price", "must not be negative")
	}
	if !finite(p.Size) || p.Size < 0 {
		errs.add("propertyDetails.size", "must not be negative")
	}
	if !p.Status.Valid() {
		errs.add("propertyDetails.status", "must be one of [available pending sold]")
	}
}

func validateAgent(errs *fieldErrors, a AgentDetail) {
	if a.User == uuid.Nil {
		errs.add("agentDetails.user", "is required")
	}
	perf := a.Performance
	if perf.LeadsHandled < 0 {
		errs.add("agentDetails.performance.leadsHandled", "must not be negative")
	}
	if !finite(perf.ConversionRate) || perf.ConversionRate < 0 || perf.ConversionRate > 100 {
		errs.add("agentDetails.performance.conversionRate", "must be between 0 and 100")
	}
	if !finite(perf.RevenueGenerated) || perf.RevenueGenerated < 0 {
		errs.add("agentDetails.performance.revenueGenerated", "must not be negative")
	}
	if !finite(perf.CustomerSatisfaction) || perf.CustomerSatisfaction < 0 {
		errs.add("agentDetails.performance.customerSatisfaction", "must not be negative")
	}
	if !finite(perf.ResponseTime) || perf.ResponseTime < 0 {
		errs.add("agentDetails.performance.responseTime", "must not be negative")
	}
	if !a.Period.Valid() {
		errs.add("agentDetails.period", "must be one of [weekly monthly quarterly yearly]")
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
