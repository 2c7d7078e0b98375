package models

import (
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "Pending"
	InvitationAccepted InvitationStatus = "Accepted"
	InvitationRevoked  InvitationStatus = "Revoked"
)

func (s InvitationStatus) String() string { return string(s) }

// UserInvitation is a pending offer to join an account. Only the hash of the token is stored.
type UserInvitation struct {
	eventLog

	ID             string                      `gorm:"primaryKey;size:36"`
	Email          string                      `gorm:"size:255;index;not null"`
	AccountID      string                      `gorm:"size:36;index;not null"`
	InvitedBy      string                      `gorm:"size:36;not null"`
	RoleIDs        datatypes.JSONSlice[string] `gorm:"type:json"`
	TokenHash      string                      `gorm:"size:128;uniqueIndex;not null"`
	Status         InvitationStatus            `gorm:"size:16;index;not null"`
	ExpiresAt      time.Time                   `gorm:"index;not null"`
	AcceptedAt     *time.Time
	AcceptedUserID string `gorm:"size:36"`
	RevokedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (i *UserInvitation) AggregateID() string { return i.ID }
func (i *UserInvitation) TenantID() string    { return i.AccountID }

func NewUserInvitation(id, email, accountID, invitedBy, tokenHash string, roleIDs []string, expiresAt time.Time) (*UserInvitation, error) {
	if err := requiredAll("id", id, "email", email, "accountId", accountID, "invitedBy", invitedBy, "tokenHash", tokenHash); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, argErr("email", "must be a valid email address")
	}
	ts := now()
	if !expiresAt.After(ts) {
		return nil, argErr("expiresAt", "must be in the future")
	}
	inv := &UserInvitation{
		ID:        id,
		Email:     email,
		AccountID: accountID,
		InvitedBy: invitedBy,
		RoleIDs:   datatypes.JSONSlice[string](slices.Clone(roleIDs)),
		TokenHash: tokenHash,
		Status:    InvitationPending,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	inv.raise(InvitationCreatedEvent{
		EventBase: newEventBase(id, invitedBy, ts),
		Email:     email,
		AccountID: accountID,
		ExpiresAt: inv.ExpiresAt,
	})
	return inv, nil
}

func (i *UserInvitation) IsExpired(t time.Time) bool {
	return t.After(i.ExpiresAt)
}

func (i *UserInvitation) Accept(userID string, t time.Time) error {
	if err := required("userId", userID); err != nil {
		return err
	}
	switch {
	case i.Status == InvitationAccepted:
		return invalidOpMsg("accept invitation", "invitation has already been accepted")
	case i.Status == InvitationRevoked:
		return invalidOpMsg("accept invitation", "invitation has been revoked")
	case i.IsExpired(t):
		return invalidOpMsg("accept invitation", "invitation has expired")
	}
	i.Status = InvitationAccepted
	i.AcceptedAt = timePtr(t.UTC())
	i.AcceptedUserID = userID
	i.UpdatedAt = now()
	i.raise(InvitationAcceptedEvent{EventBase: newEventBase(i.ID, userID, i.UpdatedAt), UserID: userID})
	return nil
}

func (i *UserInvitation) Revoke(by string) error {
	if err := required("revokedBy", by); err != nil {
		return err
	}
	if i.Status != InvitationPending {
		return invalidOp("revoke invitation", i.Status)
	}
	ts := now()
	i.Status = InvitationRevoked
	i.RevokedAt = timePtr(ts)
	i.UpdatedAt = ts
	i.raise(InvitationRevokedEvent{EventBase: newEventBase(i.ID, by, ts)})
	return nil
}

// Resend swaps in a fresh token and pushes the expiry out.
func (i *UserInvitation) Resend(tokenHash string, expiresAt time.Time, by string) error {
	if err := required("tokenHash", tokenHash); err != nil {
		return err
	}
	ts := now()
	if !expiresAt.After(ts) {
		return argErr("expiresAt", "must be in the future")
	}
	if i.Status != InvitationPending {
		return invalidOp("resend invitation", i.Status)
	}
	i.TokenHash = tokenHash
	i.ExpiresAt = expiresAt.UTC()
	i.UpdatedAt = ts
	i.raise(InvitationResentEvent{EventBase: newEventBase(i.ID, by, ts), ExpiresAt: i.ExpiresAt})
	return nil
}

type InvitationCreatedEvent struct {
	EventBase
	Email     string    `json:"email"`
	AccountID string    `json:"accountId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (InvitationCreatedEvent) EventName() string { return "invitation.created" }

type InvitationAcceptedEvent struct {
	EventBase
	UserID string `json:"userId"`
}

func (InvitationAcceptedEvent) EventName() string { return "invitation.accepted" }

type InvitationRevokedEvent struct{ EventBase }

func (InvitationRevokedEvent) EventName() string { return "invitation.revoked" }

type InvitationResentEvent struct {
	EventBase
	ExpiresAt time.Time `json:"expiresAt"`
}

func (InvitationResentEvent) EventName() string { return "invitation.resent" }
