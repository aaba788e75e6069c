// Package domain holds the score record model and the pure scoring rules.
// Nothing in this package performs I/O.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityType discriminates the three scored entity kinds.
type EntityType string

const (
	TypeLead     EntityType = "Lead"
	TypeProperty EntityType = "Property"
	TypeAgent    EntityType = "Agent"
)

// EntityTypes lists every entity type in canonical order.
var EntityTypes = []EntityType{TypeLead, TypeProperty, TypeAgent}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case TypeLead, TypeProperty, TypeAgent:
		return true
	}
	return false
}

// ParseEntityType accepts the canonical name case-insensitively.
func ParseEntityType(value string) (EntityType, bool) {
	for _, t := range EntityTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(value)) {
			return t, true
		}
	}
	return "", false
}

// Factor is one named, weighted input to a computed score.
type Factor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

// ScoreRecord is a scored entity together with its type-specific detail.
// Detail always matches Type; Validate enforces it.
type ScoreRecord struct {
	ID        uuid.UUID
	Type      EntityType
	Score     int
	Notes     string
	Factors   []Factor
	Detail    Detail
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
