package models

import (
	"slices"
	"strings"
	"time"
)

// Permission is a row in the permission catalog. Roles reference permissions by Key.
type Permission struct {
	ID          int64  `gorm:"primaryKey"`
	Key         string `gorm:"uniqueIndex;size:200;not null"`
	Description string `gorm:"size:255"`
	Resource    string `gorm:"size:100"`
	Action      string `gorm:"size:100"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PermissionCatalog lists every permission key the API checks.
var PermissionCatalog = []Permission{
	{Key: "accounts:read", Description: "View accounts", Resource: "accounts", Action: "read"},
	{Key: "accounts:write", Description: "Manage accounts", Resource: "accounts", Action: "write"},
	{Key: "users:read", Description: "View users", Resource: "users", Action: "read"},
	{Key: "users:write", Description: "Manage users", Resource: "users", Action: "write"},
	{Key: "users:assign-role", Description: "Assign roles to users", Resource: "users", Action: "assign-role"},
	{Key: "roles:read", Description: "View roles", Resource: "roles", Action: "read"},
	{Key: "roles:write", Description: "Manage roles", Resource: "roles", Action: "write"},
	{Key: "invitations:write", Description: "Invite users", Resource: "invitations", Action: "write"},
	{Key: "content:read", Description: "View content", Resource: "content", Action: "read"},
	{Key: "content:write", Description: "Edit content", Resource: "content", Action: "write"},
	{Key: "content:publish", Description: "Publish content", Resource: "content", Action: "publish"},
	{Key: "dashboards:read", Description: "View dashboards", Resource: "dashboards", Action: "read"},
	{Key: "dashboards:write", Description: "Manage dashboards", Resource: "dashboards", Action: "write"},
	{Key: "media:read", Description: "View media", Resource: "media", Action: "read"},
	{Key: "media:write", Description: "Upload and manage media", Resource: "media", Action: "write"},
	{Key: "webhooks:read", Description: "View webhooks", Resource: "webhooks", Action: "read"},
	{Key: "webhooks:write", Description: "Manage webhooks", Resource: "webhooks", Action: "write"},
	{Key: "workflows:read", Description: "View workflows", Resource: "workflows", Action: "read"},
	{Key: "workflows:write", Description: "Manage workflows", Resource: "workflows", Action: "write"},
	{Key: "maintenance:read", Description: "View maintenance windows", Resource: "maintenance", Action: "read"},
	{Key: "maintenance:write", Description: "Manage maintenance windows", Resource: "maintenance", Action: "write"},
	{Key: "audit:read", Description: "View audit logs", Resource: "audit", Action: "read"},
}

func PermissionKeys() []string {
	keys := make([]string, 0, len(PermissionCatalog))
	for _, p := range PermissionCatalog {
		keys = append(keys, p.Key)
	}
	return keys
}

func IsKnownPermission(key string) bool {
	return slices.ContainsFunc(PermissionCatalog, func(p Permission) bool { return p.Key == key })
}

// PermissionKey composes "users:read" from resource and action.
func PermissionKey(resource, action string) string {
	return strings.ToLower(resource + ":" + action)
}
