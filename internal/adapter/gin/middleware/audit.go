package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/domain/audit"
	"grocery-delivery-service/pkg/logger"
)

const auditTimeout = 2 * time.Second

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

// Audit records every mutating request that reaches an admin route. Failures
// to record are logged and never fail the request.
func Audit(rec AuditRecorder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if rec == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}

		a, _ := actorFrom(c)
		entry := audit.Entry{
			ActorID:   a.ID,
			ActorRole: a.Role,
			Method:    c.Request.Method,
			Route:     c.FullPath(),
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			ClientIP:  c.ClientIP(),
			RequestID: logger.GetRequestID(c.Request.Context()),
			CreatedAt: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), auditTimeout)
		defer cancel()
		if err := rec.Record(ctx, entry); err != nil {
			logger.WithContext(c.Request.Context(), log).Warn("audit entry dropped", zap.Error(err))
		}
	}
}
