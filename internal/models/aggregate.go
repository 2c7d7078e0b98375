package models

import (
	"slices"
	"time"
)

// Aggregate is implemented by every aggregate root persisted through a repository.
type Aggregate interface {
	AggregateID() string
	Events() []Event
	ClearEvents()
}

// eventLog is embedded (unexported) in each aggregate so GORM never maps it.
type eventLog struct {
	pending []Event
}

// Events returns the events raised since the last ClearEvents, oldest first.
func (l *eventLog) Events() []Event {
	return slices.Clone(l.pending)
}

func (l *eventLog) ClearEvents() {
	l.pending = nil
}

func (l *eventLog) raise(e Event) {
	l.pending = append(l.pending, e)
}

func now() time.Time {
	return time.Now().UTC()
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// Tenanted is implemented by aggregates that belong to an account.
type Tenanted interface {
	TenantID() string
}
