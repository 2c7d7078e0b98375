package models

import (
	"strings"
	"time"
)

type AccountType string

const (
	AccountPersonal   AccountType = "Personal"
	AccountBusiness   AccountType = "Business"
	AccountEnterprise AccountType = "Enterprise"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountPersonal, AccountBusiness, AccountEnterprise:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountActive    AccountStatus = "Active"
	AccountSuspended AccountStatus = "Suspended"
	AccountDeleted   AccountStatus = "Deleted"
)

func (s AccountStatus) String() string { return string(s) }

// Account is a tenant. Users, roles, content and the rest hang off AccountID.
type Account struct {
	eventLog

	ID               string        `gorm:"primaryKey;size:36"`
	Name             string        `gorm:"size:200;not null"`
	Type             AccountType   `gorm:"size:20;not null"`
	OwnerUserID      string        `gorm:"size:36;index;not null"`
	SubscriptionTier string        `gorm:"size:50;not null"`
	Status           AccountStatus `gorm:"size:16;index;not null"`
	SuspendedAt      *time.Time
	SuspendedBy      string `gorm:"size:36"`
	SuspensionReason string `gorm:"size:500"`
	DeletedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (a *Account) AggregateID() string { return a.ID }
func (a *Account) TenantID() string    { return a.ID }

func NewAccount(id, name string, accountType AccountType, ownerUserID, subscriptionTier string) (*Account, error) {
	if err := requiredAll("id", id, "name", name, "ownerUserId", ownerUserID, "subscriptionTier", subscriptionTier); err != nil {
		return nil, err
	}
	if err := maxLen("name", name, 200); err != nil {
		return nil, err
	}
	if !accountType.Valid() {
		return nil, argErr("type", "unknown account type")
	}
	ts := now()
	a := &Account{
		ID:               id,
		Name:             strings.TrimSpace(name),
		Type:             accountType,
		OwnerUserID:      ownerUserID,
		SubscriptionTier: strings.TrimSpace(subscriptionTier),
		Status:           AccountActive,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
	a.raise(AccountCreatedEvent{
		EventBase:        newEventBase(id, ownerUserID, ts),
		Name:             a.Name,
		Type:             a.Type,
		OwnerUserID:      ownerUserID,
		SubscriptionTier: a.SubscriptionTier,
	})
	return a, nil
}

func (a *Account) Update(name string, accountType AccountType, by string) error {
	if err := required("name", name); err != nil {
		return err
	}
	if err := maxLen("name", name, 200); err != nil {
		return err
	}
	if !accountType.Valid() {
		return argErr("type", "unknown account type")
	}
	if a.Status == AccountDeleted {
		return invalidOp("update account", a.Status)
	}
	ev := AccountUpdatedEvent{OldName: a.Name, OldType: a.Type}
	a.Name = strings.TrimSpace(name)
	a.Type = accountType
	a.UpdatedAt = now()
	ev.EventBase = newEventBase(a.ID, by, a.UpdatedAt)
	ev.NewName, ev.NewType = a.Name, a.Type
	a.raise(ev)
	return nil
}

func (a *Account) ChangeSubscription(tier, by string) error {
	if err := required("subscriptionTier", tier); err != nil {
		return err
	}
	if a.Status != AccountActive {
		return invalidOp("change subscription", a.Status)
	}
	old := a.SubscriptionTier
	a.SubscriptionTier = strings.TrimSpace(tier)
	a.UpdatedAt = now()
	a.raise(AccountSubscriptionChangedEvent{
		EventBase: newEventBase(a.ID, by, a.UpdatedAt),
		OldTier:   old,
		NewTier:   a.SubscriptionTier,
	})
	return nil
}

func (a *Account) Suspend(reason, by string) error {
	if err := requiredAll("reason", reason, "suspendedBy", by); err != nil {
		return err
	}
	if a.Status != AccountActive {
		return invalidOp("suspend account", a.Status)
	}
	ts := now()
	a.Status = AccountSuspended
	a.SuspendedAt = timePtr(ts)
	a.SuspendedBy = by
	a.SuspensionReason = strings.TrimSpace(reason)
	a.UpdatedAt = ts
	a.raise(AccountSuspendedEvent{
		EventBase:   newEventBase(a.ID, by, ts),
		Reason:      a.SuspensionReason,
		SuspendedBy: by,
	})
	return nil
}

func (a *Account) Reactivate(by string) error {
	if err := required("reactivatedBy", by); err != nil {
		return err
	}
	if a.Status != AccountSuspended {
		return invalidOp("reactivate account", a.Status)
	}
	a.Status = AccountActive
	a.SuspendedAt = nil
	a.SuspendedBy = ""
	a.SuspensionReason = ""
	a.UpdatedAt = now()
	a.raise(AccountReactivatedEvent{EventBase: newEventBase(a.ID, by, a.UpdatedAt)})
	return nil
}

// Delete soft-deletes the account; the row stays for audit purposes.
func (a *Account) Delete(by string) error {
	if err := required("deletedBy", by); err != nil {
		return err
	}
	if a.Status == AccountDeleted {
		return invalidOp("delete account", a.Status)
	}
	ts := now()
	a.Status = AccountDeleted
	a.DeletedAt = timePtr(ts)
	a.UpdatedAt = ts
	a.raise(AccountDeletedEvent{EventBase: newEventBase(a.ID, by, ts)})
	return nil
}

type AccountCreatedEvent struct {
	EventBase
	Name             string      `json:"name"`
	Type             AccountType `json:"type"`
	OwnerUserID      string      `json:"ownerUserId"`
	SubscriptionTier string      `json:"subscriptionTier"`
}

func (AccountCreatedEvent) EventName() string { return "account.created" }

type AccountUpdatedEvent struct {
	EventBase
	OldName string      `json:"oldName"`
	NewName string      `json:"newName"`
	OldType AccountType `json:"oldType"`
	NewType AccountType `json:"newType"`
}

func (AccountUpdatedEvent) EventName() string { return "account.updated" }

type AccountSubscriptionChangedEvent struct {
	EventBase
	OldTier string `json:"oldTier"`
	NewTier string `json:"newTier"`
}

func (AccountSubscriptionChangedEvent) EventName() string { return "account.subscription_changed" }

type AccountSuspendedEvent struct {
	EventBase
	Reason      string `json:"reason"`
	SuspendedBy string `json:"suspendedBy"`
}

func (AccountSuspendedEvent) EventName() string { return "account.suspended" }

type AccountReactivatedEvent struct{ EventBase }

func (AccountReactivatedEvent) EventName() string { return "account.reactivated" }

type AccountDeletedEvent struct{ EventBase }

func (AccountDeletedEvent) EventName() string { return "account.deleted" }
