package handlers

import (
	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

func ListRoles(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.RoleDTO]](c, e, app.ListRolesQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

func CreateRole(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			AccountID   string   `json:"accountId"`
			Name        string   `json:"name" binding:"required"`
			Description string   `json:"description"`
			Permissions []string `json:"permissions"`
		}
		if !bind(c, &in) {
			return
		}
		role, ok := send[*app.RoleDTO](c, e, app.CreateRoleCommand{
			AccountID:   accountScope(c, in.AccountID),
			Name:        in.Name,
			Description: in.Description,
			Permissions: in.Permissions,
		})
		if ok {
			response.Created(c, location("/api/roles", role.ID), role)
		}
	}
}

func GetRole(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.RoleDTO](c, e, app.GetRoleQuery{ID: c.Param("id")})
	}
}

func UpdateRole(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.RoleDTO](c, e, app.UpdateRoleCommand{ID: c.Param("id"), Name: in.Name, Description: in.Description})
	}
}

// SetRolePermissions replaces the role's permission keys; unknown keys are rejected.
func SetRolePermissions(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Permissions []string `json:"permissions"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.RoleDTO](c, e, app.SetRolePermissionsCommand{ID: c.Param("id"), Permissions: in.Permissions})
	}
}

func DeleteRole(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		replyDone(c, e, app.DeleteRoleCommand{ID: c.Param("id")})
	}
}

func ListPermissions(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		perms, ok := send[[]app.PermissionDTO](c, e, app.ListPermissionsQuery{})
		if ok {
			response.OK(c, gin.H{"items": perms})
		}
	}
}
