package handlers

import (
	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

func ListInvitations(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.InvitationDTO]](c, e, app.ListInvitationsQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
			Status:    c.Query("status"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

// CreateInvitation returns the one-time token; it cannot be read back later.
func CreateInvitation(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email     string   `json:"email" binding:"required,email"`
			AccountID string   `json:"accountId"`
			RoleIDs   []string `json:"roleIds"`
		}
		if !bind(c, &in) {
			return
		}
		inv, ok := send[*app.InvitationDTO](c, e, app.CreateInvitationCommand{
			Email:     in.Email,
			AccountID: accountScope(c, in.AccountID),
			RoleIDs:   in.RoleIDs,
		})
		if ok {
			response.Created(c, location("/api/invitations", inv.ID), inv)
		}
	}
}

func GetInvitation(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.InvitationDTO](c, e, app.GetInvitationQuery{ID: c.Param("id")})
	}
}

func ResendInvitation(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.InvitationDTO](c, e, app.ResendInvitationCommand{ID: c.Param("id")})
	}
}

func RevokeInvitation(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.InvitationDTO](c, e, app.RevokeInvitationCommand{ID: c.Param("id")})
	}
}

// AcceptInvitation is public: the token is the credential.
func AcceptInvitation(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Token    string `json:"token" binding:"required"`
			Name     string `json:"name" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if !bind(c, &in) {
			return
		}
		u, ok := send[*app.UserDTO](c, e, app.AcceptInvitationCommand{Token: in.Token, Name: in.Name, Password: in.Password})
		if !ok {
			return
		}
		if u == nil {
			response.NotFound(c)
			return
		}
		response.Created(c, location("/api/users", u.ID), u)
	}
}
