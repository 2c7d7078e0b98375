package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/auth"
	"saas_admin/internal/http/response"
)

// LoginHandler authenticates the user and returns a JWT, mirrored into the "token" cookie.
func LoginHandler(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if !bind(c, &input) {
			return
		}

		res, ok := send[*app.LoginResult](c, e, app.LoginCommand{
			Email:     input.Email,
			Password:  input.Password,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		if !ok {
			return
		}

		maxAge := int(time.Until(res.ExpiresAt).Seconds())
		auth.SetTokenCookie(c, res.Token, maxAge, e.SecureCookies)
		response.OK(c, res)
	}
}

// LogoutHandler revokes the presented token and clears the cookie.
func LogoutHandler(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		cl := auth.ClaimsFrom(c)
		if cl == nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", app.ErrUnauthorized)
			return
		}
		if _, ok := send[bool](c, e, app.LogoutCommand{TokenID: cl.TokenID(), ExpiresAt: cl.Expiry()}); !ok {
			return
		}
		auth.ClearTokenCookie(c, e.SecureCookies)
		response.NoContent(c)
	}
}
