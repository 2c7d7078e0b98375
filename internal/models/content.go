package models

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

type ContentType string

const (
	ContentArticle ContentType = "Article"
	ContentPage    ContentType = "Page"
	ContentPost    ContentType = "Post"
	ContentSnippet ContentType = "Snippet"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentArticle, ContentPage, ContentPost, ContentSnippet:
		return true
	}
	return false
}

type ContentStatus string

const (
	ContentDraft       ContentStatus = "Draft"
	ContentPublished   ContentStatus = "Published"
	ContentUnpublished ContentStatus = "Unpublished"
	ContentReview      ContentStatus = "Review"
	ContentArchived    ContentStatus = "Archived"
	ContentDeleted     ContentStatus = "Deleted"
)

func (s ContentStatus) String() string { return string(s) }

// Content is a versioned piece of copy. Every version number has a snapshot in Versions.
type Content struct {
	eventLog

	ID                 string        `gorm:"primaryKey;size:36"`
	Type               ContentType   `gorm:"size:20;not null"`
	Title              string        `gorm:"size:300;not null"`
	Body               string        `gorm:"type:text"`
	AuthorID           string        `gorm:"size:36;index;not null"`
	AccountID          string        `gorm:"size:36;index;not null"`
	ProfileID          string        `gorm:"size:36;index"`
	Status             ContentStatus `gorm:"size:16;index;not null"`
	Version            int           `gorm:"not null"`
	ScheduledPublishAt *time.Time    `gorm:"index"`
	PublishedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Versions []ContentVersion `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE"`
}

type ContentVersion struct {
	ID        string `gorm:"primaryKey;size:36"`
	ContentID string `gorm:"size:36;uniqueIndex:idx_content_version;not null"`
	Version   int    `gorm:"uniqueIndex:idx_content_version;not null"`
	Title     string `gorm:"size:300;not null"`
	Body      string `gorm:"type:text"`
	Note      string `gorm:"size:500"`
	CreatedBy string `gorm:"size:36"`
	CreatedAt time.Time
}

func (c *Content) AggregateID() string { return c.ID }
func (c *Content) TenantID() string    { return c.AccountID }

// NewContent creates a Draft at version 1. newID supplies ids for version snapshots.
func NewContent(id string, contentType ContentType, title, body, authorID, accountID, profileID string, newID func() string) (*Content, error) {
	if err := requiredAll("id", id, "title", title, "authorId", authorID, "accountId", accountID); err != nil {
		return nil, err
	}
	if !contentType.Valid() {
		return nil, argErr("type", "unknown content type")
	}
	if err := maxLen("title", title, 300); err != nil {
		return nil, err
	}
	if newID == nil {
		return nil, argErr("newID", "must not be nil")
	}
	ts := now()
	c := &Content{
		ID:        id,
		Type:      contentType,
		Title:     strings.TrimSpace(title),
		Body:      body,
		AuthorID:  authorID,
		AccountID: accountID,
		ProfileID: profileID,
		Status:    ContentDraft,
		Version:   1,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	c.snapshot(newID(), "initial version", authorID, ts)
	c.raise(ContentCreatedEvent{
		EventBase: newEventBase(id, authorID, ts),
		Title:     c.Title,
		Type:      contentType,
		AccountID: accountID,
	})
	return c, nil
}

func (c *Content) snapshot(versionID, note, by string, ts time.Time) {
	c.Versions = append(c.Versions, ContentVersion{
		ID:        versionID,
		ContentID: c.ID,
		Version:   c.Version,
		Title:     c.Title,
		Body:      c.Body,
		Note:      note,
		CreatedBy: by,
		CreatedAt: ts,
	})
}

func (c *Content) editable(op string) error {
	if c.Status == ContentArchived || c.Status == ContentDeleted {
		return invalidOp(op, c.Status)
	}
	return nil
}

func (c *Content) Update(versionID, title, body, by string) error {
	if err := requiredAll("versionId", versionID, "title", title, "updatedBy", by); err != nil {
		return err
	}
	if err := maxLen("title", title, 300); err != nil {
		return err
	}
	if err := c.editable("update content"); err != nil {
		return err
	}
	old := c.Version
	c.Title = strings.TrimSpace(title)
	c.Body = body
	c.Version++
	c.UpdatedAt = now()
	c.snapshot(versionID, "", by, c.UpdatedAt)
	c.raise(ContentUpdatedEvent{EventBase: newEventBase(c.ID, by, c.UpdatedAt), OldVersion: old, NewVersion: c.Version})
	return nil
}

// CreateVersion checkpoints the current title and body under the next version number.
func (c *Content) CreateVersion(versionID, note, by string) error {
	if err := requiredAll("versionId", versionID, "createdBy", by); err != nil {
		return err
	}
	if err := c.editable("create version"); err != nil {
		return err
	}
	c.Version++
	c.UpdatedAt = now()
	c.snapshot(versionID, strings.TrimSpace(note), by, c.UpdatedAt)
	c.raise(ContentVersionCreatedEvent{EventBase: newEventBase(c.ID, by, c.UpdatedAt), Version: c.Version, Note: note})
	return nil
}

// RestoreVersion copies an earlier snapshot forward as a new version.
func (c *Content) RestoreVersion(versionID string, target int, by string) error {
	if err := requiredAll("versionId", versionID, "restoredBy", by); err != nil {
		return err
	}
	if target < 1 || target > c.Version {
		return argErr("version", "must be between 1 and the current version")
	}
	if err := c.editable("restore version"); err != nil {
		return err
	}
	idx := slices.IndexFunc(c.Versions, func(v ContentVersion) bool { return v.Version == target })
	if idx < 0 {
		return invalidOpMsg("restore version", "no snapshot stored for the requested version")
	}
	src := c.Versions[idx]
	c.Title = src.Title
	c.Body = src.Body
	c.Version++
	c.UpdatedAt = now()
	c.snapshot(versionID, "restored from version "+strconv.Itoa(target), by, c.UpdatedAt)
	c.raise(ContentVersionRestoredEvent{
		EventBase:       newEventBase(c.ID, by, c.UpdatedAt),
		RestoredVersion: target,
		NewVersion:      c.Version,
	})
	return nil
}

func (c *Content) SubmitForReview(by string) error {
	if err := required("submittedBy", by); err != nil {
		return err
	}
	if c.Status != ContentDraft && c.Status != ContentUnpublished {
		return invalidOp("submit for review", c.Status)
	}
	c.Status = ContentReview
	c.UpdatedAt = now()
	c.raise(ContentSubmittedForReviewEvent{EventBase: newEventBase(c.ID, by, c.UpdatedAt)})
	return nil
}

func (c *Content) canPublish() bool {
	return c.Status == ContentDraft || c.Status == ContentReview || c.Status == ContentUnpublished
}

func (c *Content) Publish(by string) error {
	if err := required("publishedBy", by); err != nil {
		return err
	}
	if !c.canPublish() {
		return invalidOp("publish content", c.Status)
	}
	ts := now()
	c.Status = ContentPublished
	c.PublishedAt = timePtr(ts)
	c.ScheduledPublishAt = nil
	c.UpdatedAt = ts
	c.raise(ContentPublishedEvent{EventBase: newEventBase(c.ID, by, ts), Version: c.Version})
	return nil
}

func (c *Content) Unpublish(by string) error {
	if err := required("unpublishedBy", by); err != nil {
		return err
	}
	if c.Status != ContentPublished {
		return invalidOp("unpublish content", c.Status)
	}
	c.Status = ContentUnpublished
	c.UpdatedAt = now()
	c.raise(ContentUnpublishedEvent{EventBase: newEventBase(c.ID, by, c.UpdatedAt)})
	return nil
}

func (c *Content) Archive(by string) error {
	if err := required("archivedBy", by); err != nil {
		return err
	}
	if err := c.editable("archive content"); err != nil {
		return err
	}
	prev := c.Status
	c.Status = ContentArchived
	c.ScheduledPublishAt = nil
	c.UpdatedAt = now()
	c.raise(ContentArchivedEvent{EventBase: newEventBase(c.ID, by, c.UpdatedAt), PreviousStatus: prev})
	return nil
}

func (c *Content) Delete(by string) error {
	if err := required("deletedBy", by); err != nil {
		return err
	}
	if c.Status == ContentDeleted {
		return invalidOp("delete content", c.Status)
	}
	c.Status = ContentDeleted
	c.ScheduledPublishAt = nil
	c.UpdatedAt = now()
	c.raise(ContentDeletedEvent{EventBase: newEventBase(c.ID, by, c.UpdatedAt)})
	return nil
}

func (c *Content) SchedulePublish(at, t time.Time, by string) error {
	if err := required("scheduledBy", by); err != nil {
		return err
	}
	if !at.After(t) {
		return argErr("publishAt", "must be in the future")
	}
	if !c.canPublish() {
		return invalidOp("schedule publish", c.Status)
	}
	c.ScheduledPublishAt = timePtr(at.UTC())
	c.UpdatedAt = now()
	c.raise(ContentPublishScheduledEvent{EventBase: newEventBase(c.ID, by, c.UpdatedAt), PublishAt: at.UTC()})
	return nil
}

func (c *Content) CancelSchedule(by string) error {
	if err := required("cancelledBy", by); err != nil {
		return err
	}
	if c.ScheduledPublishAt == nil {
		return invalidOpMsg("cancel schedule", "content has no scheduled publish date")
	}
	c.ScheduledPublishAt = nil
	c.UpdatedAt = now()
	c.raise(ContentScheduleCancelledEvent{EventBase: newEventBase(c.ID, by, c.UpdatedAt)})
	return nil
}

// DueForPublish reports whether a scheduled publish date has passed at t.
func (c *Content) DueForPublish(t time.Time) bool {
	return c.ScheduledPublishAt != nil && !c.ScheduledPublishAt.After(t) && c.canPublish()
}

type ContentCreatedEvent struct {
	EventBase
	Title     string      `json:"title"`
	Type      ContentType `json:"type"`
	AccountID string      `json:"accountId"`
}

func (ContentCreatedEvent) EventName() string { return "content.created" }

type ContentUpdatedEvent struct {
	EventBase
	OldVersion int `json:"oldVersion"`
	NewVersion int `json:"newVersion"`
}

func (ContentUpdatedEvent) EventName() string { return "content.updated" }

type ContentVersionCreatedEvent struct {
	EventBase
	Version int    `json:"version"`
	Note    string `json:"note,omitempty"`
}

func (ContentVersionCreatedEvent) EventName() string { return "content.version_created" }

type ContentVersionRestoredEvent struct {
	EventBase
	RestoredVersion int `json:"restoredVersion"`
	NewVersion      int `json:"newVersion"`
}

func (ContentVersionRestoredEvent) EventName() string { return "content.version_restored" }

type ContentSubmittedForReviewEvent struct{ EventBase }

func (ContentSubmittedForReviewEvent) EventName() string { return "content.submitted_for_review" }

type ContentPublishedEvent struct {
	EventBase
	Version int `json:"version"`
}

func (ContentPublishedEvent) EventName() string { return "content.published" }

type ContentUnpublishedEvent struct{ EventBase }

func (ContentUnpublishedEvent) EventName() string { return "content.unpublished" }

type ContentArchivedEvent struct {
	EventBase
	PreviousStatus ContentStatus `json:"previousStatus"`
}

func (ContentArchivedEvent) EventName() string { return "content.archived" }

type ContentDeletedEvent struct{ EventBase }

func (ContentDeletedEvent) EventName() string { return "content.deleted" }

type ContentPublishScheduledEvent struct {
	EventBase
	PublishAt time.Time `json:"publishAt"`
}

func (ContentPublishScheduledEvent) EventName() string { return "content.publish_scheduled" }

type ContentScheduleCancelledEvent struct{ EventBase }

func (ContentScheduleCancelledEvent) EventName() string { return "content.schedule_cancelled" }
