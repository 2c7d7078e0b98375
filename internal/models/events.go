package models

import (
	"strings"
	"time"
)

// Event is an immutable record of one state change on an aggregate.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventBase carries the fields shared by every event payload.
type EventBase struct {
	Aggregate string    `json:"aggregateId"`
	At        time.Time `json:"occurredAt"`
	Actor     string    `json:"actorId,omitempty"`
}

func (b EventBase) AggregateID() string   { return b.Aggregate }
func (b EventBase) OccurredAt() time.Time { return b.At }

// ActorID is the user that caused the event, empty when the aggregate method took no actor.
func (b EventBase) ActorID() string { return b.Actor }

func newEventBase(aggregateID, actor string, at time.Time) EventBase {
	return EventBase{Aggregate: aggregateID, At: at, Actor: strings.TrimSpace(actor)}
}

// ResourceType derives the audited resource kind from an event name such as "user.locked".
func ResourceType(e Event) string {
	name := e.EventName()
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
