// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"score_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// Event names.
const (
	ScoreCreatedEvent = "scores.score.created"
	ScoreUpdatedEvent = "scores.score.updated"
	ScoreDeletedEvent = "scores.score.deleted"
)

// ScoreCreated is published after a score record is persisted.
type ScoreCreated struct {
	BaseEvent
	ScoreID    uuid.UUID `json:"scoreId"`
	EntityType string    `json:"entityType"`
	Score      int       `json:"score"`
	CreatedBy  uuid.UUID `json:"createdBy"`
}

func (e ScoreCreated) EventName() string { return ScoreCreatedEvent }

// ScoreUpdated is published after a score record changes.
type ScoreUpdated struct {
	BaseEvent
	ScoreID       uuid.UUID `json:"scoreId"`
	EntityType    string    `json:"entityType"`
	PreviousScore int       `json:"previousScore"`
	Score         int       `json:"score"`
	UpdatedBy     uuid.UUID `json:"updatedBy"`
}

func (e ScoreUpdated) EventName() string { return ScoreUpdatedEvent }

// ScoreDeleted is published after a score record is removed.
type ScoreDeleted struct {
	BaseEvent
	ScoreID    uuid.UUID `json:"scoreId"`
	EntityType string    `json:"entityType"`
	DeletedBy  uuid.UUID `json:"deletedBy"`
}

func (e ScoreDeleted) EventName() string { return ScoreDeletedEvent }

// ScoreChangeEvents lists every event that alters the record set.
var ScoreChangeEvents = []string{ScoreCreatedEvent, ScoreUpdatedEvent, ScoreDeletedEvent}
