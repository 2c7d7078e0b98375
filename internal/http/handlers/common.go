package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/auth"
	"saas_admin/internal/http/response"
	"saas_admin/internal/mediator"
	"saas_admin/internal/platform/logger"
)

// Env is what every handler closes over.
type Env struct {
	M   *mediator.Mediator
	Log *logger.Logger

	// SecureCookies marks the token cookie Secure.
	SecureCookies bool
}

// send dispatches req and writes the error response when it fails.
func send[Res any](c *gin.Context, e *Env, req any) (Res, bool) {
	res, err := mediator.Send[Res](c.Request.Context(), e.M, req)
	if err != nil {
		response.Fail(c, e.Log, err)
		return res, false
	}
	return res, true
}

// reply answers 200 with v, or 404 when v is nil.
func reply[T any](c *gin.Context, e *Env, req any) {
	v, ok := send[*T](c, e, req)
	if !ok {
		return
	}
	if v == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, v)
}

// replyDone answers 204, or 404 when the target did not exist.
func replyDone(c *gin.Context, e *Env, req any) {
	done, ok := send[bool](c, e, req)
	if !ok {
		return
	}
	if !done {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}

func bind(c *gin.Context, in any) bool {
	if err := c.ShouldBindJSON(in); err != nil {
		response.BadRequest(c, "body", err.Error())
		return false
	}
	return true
}

// callerAccount is the account of the authenticated user, empty on public routes.
func callerAccount(c *gin.Context) string {
	if cl := auth.ClaimsFrom(c); cl != nil {
		return cl.AccountID
	}
	return ""
}

// accountScope picks the requested account or falls back to the caller's.
func accountScope(c *gin.Context, requested string) string {
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested
	}
	return callerAccount(c)
}

func pageQuery(c *gin.Context) app.PageQuery {
	q := app.PageQuery{Search: strings.TrimSpace(c.Query("q"))}
	if q.Search == "" {
		q.Search = strings.TrimSpace(c.Query("search"))
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.Query("pageSize")); err == nil {
		q.PageSize = v
	}
	return q
}

func location(base, id string) string {
	return strings.TrimSuffix(base, "/") + "/" + id
}
