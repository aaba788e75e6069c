// Package events re-exports the platform event bus so modules import a single
// events package for both the bus and the event definitions.
package events

import (
	platformevents "score_portal_backend/platform/events"
	"score_portal_backend/platform/logger"
)

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
