package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/auth"
	"saas_admin/internal/http/response"
)

// MeHandler returns the current user with the union of their role permissions.
func MeHandler(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		cl := auth.ClaimsFrom(c)
		if cl == nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", app.ErrUnauthorized)
			return
		}
		reply[app.MeResult](c, e, app.MeQuery{UserID: cl.UserID})
	}
}

func ChangePassword(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			CurrentPassword string `json:"currentPassword" binding:"required"`
			NewPassword     string `json:"newPassword" binding:"required"`
		}
		if !bind(c, &input) {
			return
		}
		cl := auth.ClaimsFrom(c)
		if cl == nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", app.ErrUnauthorized)
			return
		}
		replyDone(c, e, app.ChangePasswordCommand{
			UserID:          cl.UserID,
			CurrentPassword: input.CurrentPassword,
			NewPassword:     input.NewPassword,
		})
	}
}
