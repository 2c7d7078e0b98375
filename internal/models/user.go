package models

import (
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type UserStatus string

const (
	UserInvited  UserStatus = "Invited"
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
	UserLocked   UserStatus = "Locked"
	UserDeleted  UserStatus = "Deleted"
)

func (s UserStatus) String() string { return string(s) }

type User struct {
	eventLog

	ID                 string                      `gorm:"primaryKey;size:36"`
	Email              string                      `gorm:"uniqueIndex;size:255;not null"`
	Name               string                      `gorm:"size:200;not null"`
	AccountID          string                      `gorm:"size:36;index;not null"`
	PasswordHash       string                      `gorm:"size:255"`
	Status             UserStatus                  `gorm:"size:16;index;not null"`
	RoleIDs            datatypes.JSONSlice[string] `gorm:"type:json"`
	LockReason         string                      `gorm:"size:500"`
	LockDuration       *time.Duration
	LockedAt           *time.Time
	ActivatedAt        *time.Time
	DeactivatedAt      *time.Time
	DeactivationReason string `gorm:"size:500"`
	LastLoginAt        *time.Time
	LastLoginIP        string `gorm:"size:64"`
	FailedLoginCount   int    `gorm:"not null;default:0"`
	DeletedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u *User) AggregateID() string { return u.ID }
func (u *User) TenantID() string    { return u.AccountID }

// NewUser creates an Active user when a password hash is supplied, otherwise an Invited one.
func NewUser(id, email, name, accountID, passwordHash string) (*User, error) {
	if err := requiredAll("id", id, "email", email, "name", name, "accountId", accountID); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, argErr("email", "must be a valid email address")
	}
	if err := maxLen("name", name, 200); err != nil {
		return nil, err
	}
	ts := now()
	u := &User{
		ID:           id,
		Email:        email,
		Name:         strings.TrimSpace(name),
		AccountID:    accountID,
		PasswordHash: passwordHash,
		Status:       UserInvited,
		RoleIDs:      datatypes.JSONSlice[string]{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if passwordHash != "" {
		u.Status = UserActive
		u.ActivatedAt = timePtr(ts)
	}
	u.raise(UserCreatedEvent{
		EventBase: newEventBase(id, "", ts),
		Email:     u.Email,
		Name:      u.Name,
		AccountID: accountID,
		Status:    u.Status,
	})
	return u, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) Activate(by string) error {
	if err := required("activatedBy", by); err != nil {
		return err
	}
	if u.Status != UserInvited && u.Status != UserInactive {
		return invalidOp("activate user", u.Status)
	}
	prev := u.Status
	ts := now()
	u.Status = UserActive
	u.ActivatedAt = timePtr(ts)
	u.DeactivatedAt = nil
	u.DeactivationReason = ""
	u.UpdatedAt = ts
	u.raise(UserActivatedEvent{EventBase: newEventBase(u.ID, by, ts), PreviousStatus: prev})
	return nil
}

func (u *User) Deactivate(reason, by string) error {
	if err := requiredAll("reason", reason, "deactivatedBy", by); err != nil {
		return err
	}
	if u.Status != UserActive {
		return invalidOp("deactivate user", u.Status)
	}
	ts := now()
	u.Status = UserInactive
	u.DeactivatedAt = timePtr(ts)
	u.DeactivationReason = strings.TrimSpace(reason)
	u.UpdatedAt = ts
	u.raise(UserDeactivatedEvent{EventBase: newEventBase(u.ID, by, ts), Reason: u.DeactivationReason})
	return nil
}

// Lock blocks sign-in. A nil duration locks until an explicit Unlock.
func (u *User) Lock(reason string, duration *time.Duration, by string) error {
	if err := requiredAll("reason", reason, "lockedBy", by); err != nil {
		return err
	}
	if duration != nil && *duration <= 0 {
		return argErr("lockDuration", "must be positive")
	}
	if u.Status != UserActive {
		return invalidOp("lock user", u.Status)
	}
	u.applyLock(strings.TrimSpace(reason), duration, by)
	return nil
}

func (u *User) applyLock(reason string, duration *time.Duration, by string) {
	ts := now()
	u.Status = UserLocked
	u.LockReason = reason
	u.LockDuration = duration
	u.LockedAt = timePtr(ts)
	u.UpdatedAt = ts
	u.raise(UserLockedEvent{EventBase: newEventBase(u.ID, by, ts), Reason: reason, LockDuration: duration})
}

func (u *User) Unlock(by string) error {
	if err := required("unlockedBy", by); err != nil {
		return err
	}
	if u.Status != UserLocked {
		return invalidOp("unlock user", u.Status)
	}
	u.Status = UserActive
	u.LockReason = ""
	u.LockDuration = nil
	u.LockedAt = nil
	u.FailedLoginCount = 0
	u.UpdatedAt = now()
	u.raise(UserUnlockedEvent{EventBase: newEventBase(u.ID, by, u.UpdatedAt)})
	return nil
}

// LockExpired reports whether a timed lock has run out at t.
func (u *User) LockExpired(t time.Time) bool {
	if u.Status != UserLocked || u.LockDuration == nil || u.LockedAt == nil {
		return false
	}
	return !t.Before(u.LockedAt.Add(*u.LockDuration))
}

func (u *User) Update(name, email, by string) error {
	if err := requiredAll("name", name, "email", email); err != nil {
		return err
	}
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return argErr("email", "must be a valid email address")
	}
	if err := maxLen("name", name, 200); err != nil {
		return err
	}
	if u.Status == UserDeleted {
		return invalidOp("update user", u.Status)
	}
	ev := UserUpdatedEvent{OldName: u.Name, OldEmail: u.Email}
	u.Name = strings.TrimSpace(name)
	u.Email = email
	u.UpdatedAt = now()
	ev.EventBase = newEventBase(u.ID, by, u.UpdatedAt)
	ev.NewName, ev.NewEmail = u.Name, u.Email
	u.raise(ev)
	return nil
}

func (u *User) ChangeAccount(accountID, by string) error {
	if err := requiredAll("accountId", accountID, "changedBy", by); err != nil {
		return err
	}
	if u.Status == UserDeleted {
		return invalidOp("change account", u.Status)
	}
	if accountID == u.AccountID {
		return invalidOpMsg("change account", "user already belongs to this account")
	}
	old := u.AccountID
	u.AccountID = accountID
	u.UpdatedAt = now()
	u.raise(UserAccountChangedEvent{
		EventBase:    newEventBase(u.ID, by, u.UpdatedAt),
		OldAccountID: old,
		NewAccountID: accountID,
	})
	return nil
}

func (u *User) AssignRoles(roleIDs []string, by string) error {
	for _, id := range roleIDs {
		if strings.TrimSpace(id) == "" {
			return argErr("roleIds", "must not contain empty ids")
		}
	}
	if u.Status == UserDeleted {
		return invalidOp("assign roles", u.Status)
	}
	next := slices.Clone(roleIDs)
	slices.Sort(next)
	next = slices.Compact(next)
	old := slices.Clone([]string(u.RoleIDs))
	u.RoleIDs = datatypes.JSONSlice[string](next)
	u.UpdatedAt = now()
	u.raise(UserRolesChangedEvent{
		EventBase:  newEventBase(u.ID, by, u.UpdatedAt),
		OldRoleIDs: old,
		NewRoleIDs: next,
	})
	return nil
}

func (u *User) HasRole(roleID string) bool {
	return slices.Contains([]string(u.RoleIDs), roleID)
}

func (u *User) ChangePassword(passwordHash string) error {
	if err := required("passwordHash", passwordHash); err != nil {
		return err
	}
	if u.Status == UserDeleted {
		return invalidOp("change password", u.Status)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = now()
	u.raise(UserPasswordChangedEvent{EventBase: newEventBase(u.ID, u.ID, u.UpdatedAt)})
	return nil
}

func (u *User) RecordLogin(ip, userAgent string) error {
	if u.Status != UserActive {
		return invalidOp("sign in", u.Status)
	}
	ts := now()
	u.LastLoginAt = timePtr(ts)
	u.LastLoginIP = ip
	u.FailedLoginCount = 0
	u.UpdatedAt = ts
	u.raise(UserLoggedInEvent{EventBase: newEventBase(u.ID, u.ID, ts), IP: ip, UserAgent: userAgent})
	return nil
}

// RecordFailedLogin counts a bad password. Reaching maxAttempts locks the user instead,
// for lockFor when positive, otherwise until unlocked.
func (u *User) RecordFailedLogin(maxAttempts int, lockFor time.Duration) error {
	if maxAttempts < 1 {
		return argErr("maxAttempts", "must be at least 1")
	}
	if u.Status != UserActive {
		return invalidOp("record failed sign in", u.Status)
	}
	u.FailedLoginCount++
	if u.FailedLoginCount >= maxAttempts {
		var d *time.Duration
		if lockFor > 0 {
			d = &lockFor
		}
		u.applyLock(FailedLoginLockReason, d, "system")
		return nil
	}
	u.UpdatedAt = now()
	u.raise(UserLoginFailedEvent{
		EventBase:      newEventBase(u.ID, "", u.UpdatedAt),
		FailedAttempts: u.FailedLoginCount,
	})
	return nil
}

const FailedLoginLockReason = "too many failed sign-in attempts"

func (u *User) Delete(by string) error {
	if err := required("deletedBy", by); err != nil {
		return err
	}
	if u.Status == UserDeleted {
		return invalidOp("delete user", u.Status)
	}
	ts := now()
	u.Status = UserDeleted
	u.DeletedAt = timePtr(ts)
	u.UpdatedAt = ts
	u.raise(UserDeletedEvent{EventBase: newEventBase(u.ID, by, ts)})
	return nil
}

type UserCreatedEvent struct {
	EventBase
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	AccountID string     `json:"accountId"`
	Status    UserStatus `json:"status"`
}

func (UserCreatedEvent) EventName() string { return "user.created" }

type UserActivatedEvent struct {
	EventBase
	PreviousStatus UserStatus `json:"previousStatus"`
}

func (UserActivatedEvent) EventName() string { return "user.activated" }

type UserDeactivatedEvent struct {
	EventBase
	Reason string `json:"reason"`
}

func (UserDeactivatedEvent) EventName() string { return "user.deactivated" }

type UserLockedEvent struct {
	EventBase
	Reason       string         `json:"reason"`
	LockDuration *time.Duration `json:"lockDuration,omitempty"`
}

func (UserLockedEvent) EventName() string { return "user.locked" }

type UserUnlockedEvent struct{ EventBase }

func (UserUnlockedEvent) EventName() string { return "user.unlocked" }

type UserUpdatedEvent struct {
	EventBase
	OldName  string `json:"oldName"`
	NewName  string `json:"newName"`
	OldEmail string `json:"oldEmail"`
	NewEmail string `json:"newEmail"`
}

func (UserUpdatedEvent) EventName() string { return "user.updated" }

type UserAccountChangedEvent struct {
	EventBase
	OldAccountID string `json:"oldAccountId"`
	NewAccountID string `json:"newAccountId"`
}

func (UserAccountChangedEvent) EventName() string { return "user.account_changed" }

type UserRolesChangedEvent struct {
	EventBase
	OldRoleIDs []string `json:"oldRoleIds"`
	NewRoleIDs []string `json:"newRoleIds"`
}

func (UserRolesChangedEvent) EventName() string { return "user.roles_changed" }

type UserPasswordChangedEvent struct{ EventBase }

func (UserPasswordChangedEvent) EventName() string { return "user.password_changed" }

type UserLoggedInEvent struct {
	EventBase
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
}

func (UserLoggedInEvent) EventName() string { return "user.logged_in" }

type UserLoginFailedEvent struct {
	EventBase
	FailedAttempts int `json:"failedAttempts"`
}

func (UserLoginFailedEvent) EventName() string { return "user.login_failed" }

type UserDeletedEvent struct{ EventBase }

func (UserDeletedEvent) EventName() string { return "user.deleted" }
