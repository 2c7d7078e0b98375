package handlers

import (
	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
)

// AssignRoles replaces the user's role set. Every role must belong to the user's account.
func AssignRoles(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			RoleIDs []string `json:"roleIds"`
		}
		if !bind(c, &in) {
			return
		}
		if in.RoleIDs == nil {
			in.RoleIDs = []string{}
		}
		reply[app.UserDTO](c, e, app.AssignRolesCommand{ID: c.Param("id"), RoleIDs: in.RoleIDs})
	}
}
