package models

import (
	"strings"
	"time"
)

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "Scheduled"
	MaintenanceInProgress MaintenanceStatus = "InProgress"
	MaintenanceCompleted  MaintenanceStatus = "Completed"
	MaintenanceCancelled  MaintenanceStatus = "Cancelled"
)

func (s MaintenanceStatus) String() string { return string(s) }

// MaintenanceWindow is a planned outage. An empty AccountID means it applies platform-wide.
type MaintenanceWindow struct {
	eventLog

	ID             string            `gorm:"primaryKey;size:36"`
	Title          string            `gorm:"size:200;not null"`
	Description    string            `gorm:"size:2000"`
	AccountID      string            `gorm:"size:36;index"`
	ScheduledStart time.Time         `gorm:"index;not null"`
	ScheduledEnd   time.Time         `gorm:"not null"`
	Status         MaintenanceStatus `gorm:"size:16;index;not null"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"size:500"`
	Notes          string `gorm:"size:2000"`
	CreatedBy      string `gorm:"size:36;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (m *MaintenanceWindow) AggregateID() string { return m.ID }
func (m *MaintenanceWindow) TenantID() string    { return m.AccountID }

func checkWindow(start, end time.Time) error {
	if start.IsZero() {
		return argErr("scheduledStart", "must not be empty")
	}
	if !end.After(start) {
		return argErr("scheduledEnd", "must be after scheduledStart")
	}
	return nil
}

func NewMaintenanceWindow(id, title, description, accountID string, start, end time.Time, createdBy string) (*MaintenanceWindow, error) {
	if err := requiredAll("id", id, "title", title, "createdBy", createdBy); err != nil {
		return nil, err
	}
	if err := maxLen("title", title, 200); err != nil {
		return nil, err
	}
	if err := checkWindow(start, end); err != nil {
		return nil, err
	}
	ts := now()
	m := &MaintenanceWindow{
		ID:             id,
		Title:          strings.TrimSpace(title),
		Description:    description,
		AccountID:      accountID,
		ScheduledStart: start.UTC(),
		ScheduledEnd:   end.UTC(),
		Status:         MaintenanceScheduled,
		CreatedBy:      createdBy,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	m.raise(MaintenanceScheduledEvent{
		EventBase:      newEventBase(id, createdBy, ts),
		Title:          m.Title,
		ScheduledStart: m.ScheduledStart,
		ScheduledEnd:   m.ScheduledEnd,
	})
	return m, nil
}

func (m *MaintenanceWindow) Reschedule(start, end time.Time, by string) error {
	if err := checkWindow(start, end); err != nil {
		return err
	}
	if m.Status != MaintenanceScheduled {
		return invalidOp("reschedule maintenance", m.Status)
	}
	m.ScheduledStart = start.UTC()
	m.ScheduledEnd = end.UTC()
	m.UpdatedAt = now()
	m.raise(MaintenanceRescheduledEvent{
		EventBase:      newEventBase(m.ID, by, m.UpdatedAt),
		ScheduledStart: m.ScheduledStart,
		ScheduledEnd:   m.ScheduledEnd,
	})
	return nil
}

func (m *MaintenanceWindow) Start(by string) error {
	if m.Status != MaintenanceScheduled {
		return invalidOp("start maintenance", m.Status)
	}
	ts := now()
	m.Status = MaintenanceInProgress
	m.StartedAt = timePtr(ts)
	m.UpdatedAt = ts
	m.raise(MaintenanceStartedEvent{EventBase: newEventBase(m.ID, by, ts)})
	return nil
}

func (m *MaintenanceWindow) Complete(notes, by string) error {
	if err := maxLen("notes", notes, 2000); err != nil {
		return err
	}
	if m.Status != MaintenanceInProgress {
		return invalidOp("complete maintenance", m.Status)
	}
	ts := now()
	m.Status = MaintenanceCompleted
	m.CompletedAt = timePtr(ts)
	m.Notes = strings.TrimSpace(notes)
	m.UpdatedAt = ts
	m.raise(MaintenanceCompletedEvent{EventBase: newEventBase(m.ID, by, ts), Notes: m.Notes})
	return nil
}

func (m *MaintenanceWindow) Cancel(reason, by string) error {
	if err := required("reason", reason); err != nil {
		return err
	}
	if m.Status != MaintenanceScheduled {
		return invalidOp("cancel maintenance", m.Status)
	}
	ts := now()
	m.Status = MaintenanceCancelled
	m.CancelledAt = timePtr(ts)
	m.CancelReason = strings.TrimSpace(reason)
	m.UpdatedAt = ts
	m.raise(MaintenanceCancelledEvent{EventBase: newEventBase(m.ID, by, ts), Reason: m.CancelReason})
	return nil
}

type MaintenanceScheduledEvent struct {
	EventBase
	Title          string    `json:"title"`
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
}

func (MaintenanceScheduledEvent) EventName() string { return "maintenance.scheduled" }

type MaintenanceRescheduledEvent struct {
	EventBase
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
}

func (MaintenanceRescheduledEvent) EventName() string { return "maintenance.rescheduled" }

type MaintenanceStartedEvent struct{ EventBase }

func (MaintenanceStartedEvent) EventName() string { return "maintenance.started" }

type MaintenanceCompletedEvent struct {
	EventBase
	Notes string `json:"notes,omitempty"`
}

func (MaintenanceCompletedEvent) EventName() string { return "maintenance.completed" }

type MaintenanceCancelledEvent struct {
	EventBase
	Reason string `json:"reason"`
}

func (MaintenanceCancelledEvent) EventName() string { return "maintenance.cancelled" }
