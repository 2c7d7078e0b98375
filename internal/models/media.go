package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type MediaStatus string

const (
	MediaActive  MediaStatus = "Active"
	MediaDeleted MediaStatus = "Deleted"
)

func (s MediaStatus) String() string { return string(s) }

// MediaAsset is the metadata of an uploaded file; the bytes live in object storage under StorageKey.
type MediaAsset struct {
	eventLog

	ID          string                      `gorm:"primaryKey;size:36"`
	AccountID   string                      `gorm:"size:36;index;not null"`
	UploadedBy  string                      `gorm:"size:36;not null"`
	FileName    string                      `gorm:"size:255;not null"`
	ContentType string                      `gorm:"size:100;not null"`
	SizeBytes   int64                       `gorm:"not null"`
	StorageKey  string                      `gorm:"size:500;uniqueIndex;not null"`
	URL         string                      `gorm:"size:1000"`
	AltText     string                      `gorm:"size:500"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:json"`
	Status      MediaStatus                 `gorm:"size:16;index;not null"`
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m *MediaAsset) AggregateID() string { return m.ID }
func (m *MediaAsset) TenantID() string    { return m.AccountID }

func NewMediaAsset(id, accountID, uploadedBy, fileName, contentType string, size int64, storageKey, url string) (*MediaAsset, error) {
	if err := requiredAll("id", id, "accountId", accountID, "uploadedBy", uploadedBy, "fileName", fileName, "storageKey", storageKey); err != nil {
		return nil, err
	}
	if err := maxLen("fileName", fileName, 255); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, argErr("size", "file must not be empty")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ts := now()
	m := &MediaAsset{
		ID:          id,
		AccountID:   accountID,
		UploadedBy:  uploadedBy,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		StorageKey:  storageKey,
		URL:         url,
		Tags:        datatypes.JSONSlice[string]{},
		Status:      MediaActive,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	m.raise(MediaUploadedEvent{
		EventBase:   newEventBase(id, uploadedBy, ts),
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
	})
	return m, nil
}

func (m *MediaAsset) UpdateMetadata(altText string, tags []string, by string) error {
	if err := maxLen("altText", altText, 500); err != nil {
		return err
	}
	if m.Status == MediaDeleted {
		return invalidOp("update media", m.Status)
	}
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	m.AltText = strings.TrimSpace(altText)
	m.Tags = clean
	m.UpdatedAt = now()
	m.raise(MediaUpdatedEvent{EventBase: newEventBase(m.ID, by, m.UpdatedAt), AltText: m.AltText, Tags: clean})
	return nil
}

func (m *MediaAsset) Delete(by string) error {
	if err := required("deletedBy", by); err != nil {
		return err
	}
	if m.Status == MediaDeleted {
		return invalidOp("delete media", m.Status)
	}
	ts := now()
	m.Status = MediaDeleted
	m.DeletedAt = timePtr(ts)
	m.UpdatedAt = ts
	m.raise(MediaDeletedEvent{EventBase: newEventBase(m.ID, by, ts), StorageKey: m.StorageKey})
	return nil
}

type MediaUploadedEvent struct {
	EventBase
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

func (MediaUploadedEvent) EventName() string { return "media.uploaded" }

type MediaUpdatedEvent struct {
	EventBase
	AltText string   `json:"altText"`
	Tags    []string `json:"tags"`
}

func (MediaUpdatedEvent) EventName() string { return "media.updated" }

type MediaDeletedEvent struct {
	EventBase
	StorageKey string `json:"storageKey"`
}

func (MediaDeletedEvent) EventName() string { return "media.deleted" }
