package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saas_admin/internal/platform/ctxutil"
)

const RequestIDHeader = "X-Request-ID"

// AttachRequestContext stores request metadata on the context for audit rows and logs.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		rd := &ctxutil.RequestData{
			RequestID: id,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}
