package middleware

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/audit"
)

// Audit records an audit entry after each mutating request made by an
// authenticated caller that did not fail server-side. Best-effort: the
// AuditLogger never fails the request.
func Audit(logger audit.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if logger == nil || !audit.IsMutating(c.Request.Method) {
			return
		}
		ctx := c.Request.Context()
		userID := UserID(ctx)
		if userID == 0 {
			return
		}
		status := c.Writer.Status()
		if status >= 500 {
			return
		}
		ar := audit.ParseRoute(c.Request.Method, c.FullPath())
		meta, _ := json.Marshal(auditMetadata{
			Status:    status,
			Path:      c.Request.URL.Path,
			RequestID: RequestIDFrom(ctx),
		})
		logger.LogEvent(ctx, userID, ar.Action, ar.Resource, ClientIP(c), string(meta))
	}
}

type auditMetadata struct {
	Status    int    `json:"status"`
	Path      string `json:"path"`
	RequestID string `json:"request_id,omitempty"`
}

// ClientIP returns the client address as resolved by gin (trusted proxies honoured), or "unknown".
func ClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
