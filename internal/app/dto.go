package app

import (
	"encoding/json"
	"time"

	"saas_admin/internal/models"
)

type AccountDTO struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	OwnerUserID      string     `json:"ownerUserId"`
	SubscriptionTier string     `json:"subscriptionTier"`
	Status           string     `json:"status"`
	SuspendedAt      *time.Time `json:"suspendedAt,omitempty"`
	SuspendedBy      string     `json:"suspendedBy,omitempty"`
	SuspensionReason string     `json:"suspensionReason,omitempty"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toAccountDTO(a *models.Account) AccountDTO {
	return AccountDTO{
		ID:               a.ID,
		Name:             a.Name,
		Type:             string(a.Type),
		OwnerUserID:      a.OwnerUserID,
		SubscriptionTier: a.SubscriptionTier,
		Status:           a.Status.String(),
		SuspendedAt:      a.SuspendedAt,
		SuspendedBy:      a.SuspendedBy,
		SuspensionReason: a.SuspensionReason,
		DeletedAt:        a.DeletedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// UserDTO never carries the password hash.
type UserDTO struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	AccountID          string     `json:"accountId"`
	Status             string     `json:"status"`
	RoleIDs            []string   `json:"roleIds"`
	LockReason         string     `json:"lockReason,omitempty"`
	LockDuration       *string    `json:"lockDuration,omitempty"`
	LockedAt           *time.Time `json:"lockedAt,omitempty"`
	ActivatedAt        *time.Time `json:"activatedAt,omitempty"`
	DeactivatedAt      *time.Time `json:"deactivatedAt,omitempty"`
	DeactivationReason string     `json:"deactivationReason,omitempty"`
	LastLoginAt        *time.Time `json:"lastLoginAt,omitempty"`
	FailedLoginCount   int        `json:"failedLoginCount"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func toUserDTO(u *models.User) UserDTO {
	dto := UserDTO{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		AccountID:          u.AccountID,
		Status:             u.Status.String(),
		RoleIDs:            append([]string{}, u.RoleIDs...),
		LockReason:         u.LockReason,
		LockedAt:           u.LockedAt,
		ActivatedAt:        u.ActivatedAt,
		DeactivatedAt:      u.DeactivatedAt,
		DeactivationReason: u.DeactivationReason,
		LastLoginAt:        u.LastLoginAt,
		FailedLoginCount:   u.FailedLoginCount,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
	if u.LockDuration != nil {
		d := u.LockDuration.String()
		dto.LockDuration = &d
	}
	return dto
}

type RoleDTO struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	IsSystem    bool      `json:"isSystem"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toRoleDTO(r *models.Role) RoleDTO {
	return RoleDTO{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Permissions: append([]string{}, r.Permissions...),
		IsSystem:    r.IsSystem,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type PermissionDTO struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

type InvitationDTO struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	AccountID      string     `json:"accountId"`
	InvitedBy      string     `json:"invitedBy"`
	RoleIDs        []string   `json:"roleIds"`
	Status         string     `json:"status"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	AcceptedAt     *time.Time `json:"acceptedAt,omitempty"`
	AcceptedUserID string     `json:"acceptedUserId,omitempty"`
	RevokedAt      *time.Time `json:"revokedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`

	// Token is the one-time secret, returned only by create and resend.
	Token string `json:"token,omitempty"`
}

func toInvitationDTO(i *models.UserInvitation) InvitationDTO {
	return InvitationDTO{
		ID:             i.ID,
		Email:          i.Email,
		AccountID:      i.AccountID,
		InvitedBy:      i.InvitedBy,
		RoleIDs:        append([]string{}, i.RoleIDs...),
		Status:         i.Status.String(),
		ExpiresAt:      i.ExpiresAt,
		AcceptedAt:     i.AcceptedAt,
		AcceptedUserID: i.AcceptedUserID,
		RevokedAt:      i.RevokedAt,
		CreatedAt:      i.CreatedAt,
	}
}

type ContentDTO struct {
	ID                 string     `json:"id"`
	Type               string     `json:"type"`
	Title              string     `json:"title"`
	Body               string     `json:"body"`
	AuthorID           string     `json:"authorId"`
	AccountID          string     `json:"accountId"`
	ProfileID          string     `json:"profileId,omitempty"`
	Status             string     `json:"status"`
	Version            int        `json:"version"`
	ScheduledPublishAt *time.Time `json:"scheduledPublishAt,omitempty"`
	PublishedAt        *time.Time `json:"publishedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func toContentDTO(c *models.Content) ContentDTO {
	return ContentDTO{
		ID:                 c.ID,
		Type:               string(c.Type),
		Title:              c.Title,
		Body:               c.Body,
		AuthorID:           c.AuthorID,
		AccountID:          c.AccountID,
		ProfileID:          c.ProfileID,
		Status:             c.Status.String(),
		Version:            c.Version,
		ScheduledPublishAt: c.ScheduledPublishAt,
		PublishedAt:        c.PublishedAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

type ContentVersionDTO struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Note      string    `json:"note,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func toContentVersionDTO(v models.ContentVersion) ContentVersionDTO {
	return ContentVersionDTO{
		ID:        v.ID,
		Version:   v.Version,
		Title:     v.Title,
		Body:      v.Body,
		Note:      v.Note,
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt,
	}
}

type CardDTO struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Type      string          `json:"type"`
	PositionX int             `json:"positionX"`
	PositionY int             `json:"positionY"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Config    json.RawMessage `json:"config,omitempty"`
}

type ShareDTO struct {
	UserID     string    `json:"userId"`
	Permission string    `json:"permission"`
	SharedBy   string    `json:"sharedBy"`
	SharedAt   time.Time `json:"sharedAt"`
}

type DashboardDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ProfileID   string     `json:"profileId,omitempty"`
	AccountID   string     `json:"accountId"`
	OwnerID     string     `json:"ownerId"`
	LayoutType  string     `json:"layoutType"`
	Cards       []CardDTO  `json:"cards"`
	Shares      []ShareDTO `json:"shares"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toDashboardDTO(d *models.Dashboard) DashboardDTO {
	dto := DashboardDTO{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ProfileID:   d.ProfileID,
		AccountID:   d.AccountID,
		OwnerID:     d.OwnerID,
		LayoutType:  string(d.LayoutType),
		Cards:       make([]CardDTO, 0, len(d.Cards)),
		Shares:      make([]ShareDTO, 0, len(d.Shares)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, c := range d.Cards {
		dto.Cards = append(dto.Cards, CardDTO{
			ID: c.ID, Title: c.Title, Type: c.Type,
			PositionX: c.PositionX, PositionY: c.PositionY, Width: c.Width, Height: c.Height,
			Config: json.RawMessage(c.Config),
		})
	}
	for _, s := range d.Shares {
		dto.Shares = append(dto.Shares, ShareDTO{
			UserID: s.UserID, Permission: string(s.Permission), SharedBy: s.SharedBy, SharedAt: s.SharedAt,
		})
	}
	return dto
}

type MediaDTO struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	UploadedBy  string    `json:"uploadedBy"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	URL         string    `json:"url"`
	AltText     string    `json:"altText,omitempty"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toMediaDTO(m *models.MediaAsset) MediaDTO {
	return MediaDTO{
		ID:          m.ID,
		AccountID:   m.AccountID,
		UploadedBy:  m.UploadedBy,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		URL:         m.URL,
		AltText:     m.AltText,
		Tags:        append([]string{}, m.Tags...),
		Status:      m.Status.String(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// WebhookDTO hides the signing secret except right after create or rotate.
type WebhookDTO struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Events    []string  `json:"events"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Secret    string    `json:"secret,omitempty"`
}

func toWebhookDTO(w *models.Webhook) WebhookDTO {
	return WebhookDTO{
		ID:        w.ID,
		AccountID: w.AccountID,
		Name:      w.Name,
		URL:       w.URL,
		Events:    append([]string{}, w.EventTypes...),
		Status:    w.Status.String(),
		CreatedBy: w.CreatedBy,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func withSecret(w *models.Webhook) WebhookDTO {
	dto := toWebhookDTO(w)
	dto.Secret = w.Secret
	return dto
}

type DeliveryDTO struct {
	ID            string          `json:"id"`
	WebhookID     string          `json:"webhookId"`
	AccountID     string          `json:"accountId"`
	EventType     string          `json:"eventType"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Status        string          `json:"status"`
	Attempts      int             `json:"attempts"`
	ResponseCode  int             `json:"responseCode,omitempty"`
	LastError     string          `json:"lastError,omitempty"`
	LastAttemptAt *time.Time      `json:"lastAttemptAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toDeliveryDTO(d *models.WebhookDelivery) DeliveryDTO {
	return DeliveryDTO{
		ID:            d.ID,
		WebhookID:     d.WebhookID,
		AccountID:     d.AccountID,
		EventType:     d.EventType,
		Payload:       json.RawMessage(d.Payload),
		Status:        d.Status.String(),
		Attempts:      d.Attempts,
		ResponseCode:  d.ResponseCode,
		LastError:     d.LastError,
		LastAttemptAt: d.LastAttemptAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type StageDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Position       int    `json:"position"`
	ApproverRoleID string `json:"approverRoleId,omitempty"`
}

type WorkflowDTO struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"accountId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Stages      []StageDTO `json:"stages"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toWorkflowDTO(w *models.Workflow) WorkflowDTO {
	dto := WorkflowDTO{
		ID:          w.ID,
		AccountID:   w.AccountID,
		Name:        w.Name,
		Description: w.Description,
		Status:      w.Status.String(),
		Stages:      make([]StageDTO, 0, len(w.Stages)),
		CreatedBy:   w.CreatedBy,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	for _, s := range w.Stages {
		dto.Stages = append(dto.Stages, StageDTO{ID: s.ID, Name: s.Name, Position: s.Position, ApproverRoleID: s.ApproverRoleID})
	}
	return dto
}

type MaintenanceDTO struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	AccountID      string     `json:"accountId,omitempty"`
	ScheduledStart time.Time  `json:"scheduledStart"`
	ScheduledEnd   time.Time  `json:"scheduledEnd"`
	Status         string     `json:"status"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`
	CancelReason   string     `json:"cancelReason,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func toMaintenanceDTO(m *models.MaintenanceWindow) MaintenanceDTO {
	return MaintenanceDTO{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		AccountID:      m.AccountID,
		ScheduledStart: m.ScheduledStart,
		ScheduledEnd:   m.ScheduledEnd,
		Status:         m.Status.String(),
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type AuditLogDTO struct {
	ID            int64           `json:"id"`
	AccountID     string          `json:"accountId,omitempty"`
	ActorID       string          `json:"actorId"`
	Action        string          `json:"action"`
	ResourceType  string          `json:"resourceType"`
	ResourceID    string          `json:"resourceId"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	IP            string          `json:"ip,omitempty"`
	InitiatorName string          `json:"initiatorName,omitempty"`
	UserAgent     string          `json:"userAgent,omitempty"`
	RequestID     string          `json:"requestId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toAuditLogDTO(l models.AuditLog) AuditLogDTO {
	return AuditLogDTO{
		ID:            l.ID,
		AccountID:     l.AccountID,
		ActorID:       l.ActorID,
		Action:        l.Action,
		ResourceType:  l.ResourceType,
		ResourceID:    l.ResourceID,
		Metadata:      json.RawMessage(l.Metadata),
		IP:            l.IP,
		InitiatorName: l.InitiatorName,
		UserAgent:     l.UserAgent,
		RequestID:     l.RequestID,
		CreatedAt:     l.CreatedAt,
	}
}
