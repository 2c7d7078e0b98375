package models

import (
	"slices"
	"strings"
	"time"
)

type WorkflowStatus string

const (
	WorkflowDraft    WorkflowStatus = "Draft"
	WorkflowActive   WorkflowStatus = "Active"
	WorkflowInactive WorkflowStatus = "Inactive"
	WorkflowArchived WorkflowStatus = "Archived"
)

func (s WorkflowStatus) String() string { return string(s) }

// Workflow is an ordered list of approval stages. Nothing here executes it.
type Workflow struct {
	eventLog

	ID          string         `gorm:"primaryKey;size:36"`
	AccountID   string         `gorm:"size:36;index;not null"`
	Name        string         `gorm:"size:200;not null"`
	Description string         `gorm:"size:1000"`
	Status      WorkflowStatus `gorm:"size:16;index;not null"`
	CreatedBy   string         `gorm:"size:36"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Stages []WorkflowStage `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE"`
}

type WorkflowStage struct {
	ID             string `gorm:"primaryKey;size:36"`
	WorkflowID     string `gorm:"size:36;index;not null"`
	Name           string `gorm:"size:200;not null"`
	Position       int    `gorm:"not null"`
	ApproverRoleID string `gorm:"size:36"`
}

func (w *Workflow) AggregateID() string { return w.ID }
func (w *Workflow) TenantID() string    { return w.AccountID }

func NewWorkflow(id, accountID, name, description, createdBy string) (*Workflow, error) {
	if err := requiredAll("id", id, "accountId", accountID, "name", name); err != nil {
		return nil, err
	}
	if err := maxLen("name", name, 200); err != nil {
		return nil, err
	}
	ts := now()
	w := &Workflow{
		ID:          id,
		AccountID:   accountID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Status:      WorkflowDraft,
		CreatedBy:   createdBy,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	w.raise(WorkflowCreatedEvent{EventBase: newEventBase(id, createdBy, ts), Name: w.Name, AccountID: accountID})
	return w, nil
}

func (w *Workflow) Update(name, description, by string) error {
	if err := required("name", name); err != nil {
		return err
	}
	if err := maxLen("name", name, 200); err != nil {
		return err
	}
	if w.Status == WorkflowArchived {
		return invalidOp("update workflow", w.Status)
	}
	w.Name = strings.TrimSpace(name)
	w.Description = description
	w.UpdatedAt = now()
	w.raise(WorkflowUpdatedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt), Name: w.Name})
	return nil
}

func (w *Workflow) stagesEditable(op string) error {
	if w.Status != WorkflowDraft && w.Status != WorkflowInactive {
		return invalidOp(op, w.Status)
	}
	return nil
}

// AddStage appends a stage at the end of the list.
func (w *Workflow) AddStage(stageID, name, approverRoleID, by string) error {
	if err := requiredAll("stageId", stageID, "name", name); err != nil {
		return err
	}
	if err := maxLen("name", name, 200); err != nil {
		return err
	}
	if err := w.stagesEditable("add stage"); err != nil {
		return err
	}
	w.Stages = append(w.Stages, WorkflowStage{
		ID:             stageID,
		WorkflowID:     w.ID,
		Name:           strings.TrimSpace(name),
		Position:       len(w.Stages) + 1,
		ApproverRoleID: approverRoleID,
	})
	w.UpdatedAt = now()
	w.raise(WorkflowStageAddedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt), StageID: stageID, Name: name, Position: len(w.Stages)})
	return nil
}

func (w *Workflow) RemoveStage(stageID, by string) error {
	if err := required("stageId", stageID); err != nil {
		return err
	}
	if err := w.stagesEditable("remove stage"); err != nil {
		return err
	}
	i := slices.IndexFunc(w.Stages, func(s WorkflowStage) bool { return s.ID == stageID })
	if i < 0 {
		return invalidOpMsg("remove stage", "stage not found on workflow")
	}
	w.Stages = slices.Delete(w.Stages, i, i+1)
	for j := range w.Stages {
		w.Stages[j].Position = j + 1
	}
	w.UpdatedAt = now()
	w.raise(WorkflowStageRemovedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt), StageID: stageID})
	return nil
}

func (w *Workflow) Activate(by string) error {
	if w.Status != WorkflowDraft && w.Status != WorkflowInactive {
		return invalidOp("activate workflow", w.Status)
	}
	if len(w.Stages) == 0 {
		return invalidOpMsg("activate workflow", "workflow has no stages")
	}
	w.Status = WorkflowActive
	w.UpdatedAt = now()
	w.raise(WorkflowActivatedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt), StageCount: len(w.Stages)})
	return nil
}

func (w *Workflow) Deactivate(by string) error {
	if w.Status != WorkflowActive {
		return invalidOp("deactivate workflow", w.Status)
	}
	w.Status = WorkflowInactive
	w.UpdatedAt = now()
	w.raise(WorkflowDeactivatedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt)})
	return nil
}

func (w *Workflow) Archive(by string) error {
	if w.Status == WorkflowArchived {
		return invalidOp("archive workflow", w.Status)
	}
	prev := w.Status
	w.Status = WorkflowArchived
	w.UpdatedAt = now()
	w.raise(WorkflowArchivedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt), PreviousStatus: prev})
	return nil
}

func (w *Workflow) MarkDeleted(by string) error {
	if err := required("deletedBy", by); err != nil {
		return err
	}
	if w.Status == WorkflowActive {
		return invalidOpMsg("delete workflow", "deactivate the workflow before deleting it")
	}
	w.raise(WorkflowDeletedEvent{EventBase: newEventBase(w.ID, by, now()), Name: w.Name})
	return nil
}

type WorkflowCreatedEvent struct {
	EventBase
	Name      string `json:"name"`
	AccountID string `json:"accountId"`
}

func (WorkflowCreatedEvent) EventName() string { return "workflow.created" }

type WorkflowUpdatedEvent struct {
	EventBase
	Name string `json:"name"`
}

func (WorkflowUpdatedEvent) EventName() string { return "workflow.updated" }

type WorkflowStageAddedEvent struct {
	EventBase
	StageID  string `json:"stageId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func (WorkflowStageAddedEvent) EventName() string { return "workflow.stage_added" }

type WorkflowStageRemovedEvent struct {
	EventBase
	StageID string `json:"stageId"`
}

func (WorkflowStageRemovedEvent) EventName() string { return "workflow.stage_removed" }

type WorkflowActivatedEvent struct {
	EventBase
	StageCount int `json:"stageCount"`
}

func (WorkflowActivatedEvent) EventName() string { return "workflow.activated" }

type WorkflowDeactivatedEvent struct{ EventBase }

func (WorkflowDeactivatedEvent) EventName() string { return "workflow.deactivated" }

type WorkflowArchivedEvent struct {
	EventBase
	PreviousStatus WorkflowStatus `json:"previousStatus"`
}

func (WorkflowArchivedEvent) EventName() string { return "workflow.archived" }

type WorkflowDeletedEvent struct {
	EventBase
	Name string `json:"name"`
}

func (WorkflowDeletedEvent) EventName() string { return "workflow.deleted" }
