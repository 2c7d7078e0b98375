package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is one recorded domain event. Rows are append-only.
type AuditLog struct {
	ID            int64          `gorm:"primaryKey"`
	AccountID     string         `gorm:"size:36;index"`
	ActorID       string         `gorm:"size:36;index"`     // "system" for scheduler and seed actions
	Action        string         `gorm:"size:200;not null"` // event name, e.g. "user.locked"
	ResourceType  string         `gorm:"size:100;index"`    // e.g. "user", "content"
	ResourceID    string         `gorm:"size:36;index"`
	Metadata      datatypes.JSON `gorm:"type:json"` // event payload
	IP            string         `gorm:"size:64"`
	InitiatorName string         `gorm:"size:255"`
	UserAgent     string         `gorm:"size:255"`
	RequestID     string         `gorm:"size:64"`
	CreatedAt     time.Time      `gorm:"index"`
}
