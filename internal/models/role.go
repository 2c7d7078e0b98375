package models

import (
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Role struct {
	eventLog

	ID          string                      `gorm:"primaryKey;size:36"`
	AccountID   string                      `gorm:"size:36;index;not null"`
	Name        string                      `gorm:"size:200;not null"`
	Slug        string                      `gorm:"size:200;not null"`
	Description string                      `gorm:"size:500"`
	Permissions datatypes.JSONSlice[string] `gorm:"type:json"`
	IsSystem    bool                        `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Role) AggregateID() string { return r.ID }
func (r *Role) TenantID() string    { return r.AccountID }

func NewRole(id, accountID, name, description string, permissions []string) (*Role, error) {
	if err := requiredAll("id", id, "accountId", accountID, "name", name); err != nil {
		return nil, err
	}
	if err := maxLen("name", name, 200); err != nil {
		return nil, err
	}
	perms, err := normalizePermissions(permissions)
	if err != nil {
		return nil, err
	}
	ts := now()
	r := &Role{
		ID:          id,
		AccountID:   accountID,
		Name:        strings.TrimSpace(name),
		Slug:        Slugify(name),
		Description: strings.TrimSpace(description),
		Permissions: perms,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	r.raise(RoleCreatedEvent{EventBase: newEventBase(id, "", ts), AccountID: accountID, Name: r.Name, Slug: r.Slug})
	return r, nil
}

func normalizePermissions(keys []string) (datatypes.JSONSlice[string], error) {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if !IsKnownPermission(k) {
			return nil, argErr("permissions", "unknown permission "+k)
		}
		out = append(out, k)
	}
	slices.Sort(out)
	return datatypes.JSONSlice[string](slices.Compact(out)), nil
}

func (r *Role) Update(name, description, by string) error {
	if err := required("name", name); err != nil {
		return err
	}
	if err := maxLen("name", name, 200); err != nil {
		return err
	}
	if r.IsSystem {
		return invalidOpMsg("update role", "system roles cannot be renamed")
	}
	old := r.Name
	r.Name = strings.TrimSpace(name)
	r.Slug = Slugify(name)
	r.Description = strings.TrimSpace(description)
	r.UpdatedAt = now()
	r.raise(RoleUpdatedEvent{EventBase: newEventBase(r.ID, by, r.UpdatedAt), OldName: old, NewName: r.Name})
	return nil
}

func (r *Role) SetPermissions(keys []string, by string) error {
	perms, err := normalizePermissions(keys)
	if err != nil {
		return err
	}
	old := slices.Clone([]string(r.Permissions))
	r.Permissions = perms
	r.UpdatedAt = now()
	r.raise(RolePermissionsChangedEvent{
		EventBase:      newEventBase(r.ID, by, r.UpdatedAt),
		OldPermissions: old,
		NewPermissions: slices.Clone([]string(perms)),
	})
	return nil
}

func (r *Role) Grants(key string) bool {
	return slices.Contains([]string(r.Permissions), key)
}

// MarkDeleted records the deletion; the repository removes the row afterwards.
func (r *Role) MarkDeleted(by string) error {
	if err := required("deletedBy", by); err != nil {
		return err
	}
	if r.IsSystem {
		return invalidOpMsg("delete role", "system roles cannot be deleted")
	}
	r.raise(RoleDeletedEvent{EventBase: newEventBase(r.ID, by, now()), Name: r.Name})
	return nil
}

// Slugify lowercases and hyphenates a display name.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

type RoleCreatedEvent struct {
	EventBase
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
}

func (RoleCreatedEvent) EventName() string { return "role.created" }

type RoleUpdatedEvent struct {
	EventBase
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

func (RoleUpdatedEvent) EventName() string { return "role.updated" }

type RolePermissionsChangedEvent struct {
	EventBase
	OldPermissions []string `json:"oldPermissions"`
	NewPermissions []string `json:"newPermissions"`
}

func (RolePermissionsChangedEvent) EventName() string { return "role.permissions_changed" }

type RoleDeletedEvent struct {
	EventBase
	Name string `json:"name"`
}

func (RoleDeletedEvent) EventName() string { return "role.deleted" }
