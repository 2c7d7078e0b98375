package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

// ListAudit pages newest first. Pass the returned nextCursor as afterId for the next page.
func ListAudit(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}

		var afterID int64
		if cursorStr := c.Query("afterId"); cursorStr != "" {
			if parsed, err := strconv.ParseInt(cursorStr, 10, 64); err == nil && parsed > 0 {
				afterID = parsed
			}
		}

		page, ok := send[*app.AuditPage](c, e, app.ListAuditLogsQuery{
			AccountID:    accountScope(c, c.Query("accountId")),
			Limit:        limit,
			AfterID:      afterID,
			Search:       strings.TrimSpace(c.Query("q")),
			Action:       c.Query("action"),
			ResourceType: c.Query("resourceType"),
			ResourceID:   c.Query("resourceId"),
			ActorID:      c.Query("actorId"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

func GetAudit(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.NotFound(c)
			return
		}
		reply[app.AuditLogDTO](c, e, app.GetAuditLogQuery{ID: id})
	}
}
