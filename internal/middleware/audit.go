package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kabre57/ParabellumGroups-sub000/pkg/logger"
)

// OverrideAudit logs every successful read that named its targets through userIds.
// Nothing is persisted; the log line is the audit record.
func OverrideAudit(log *zap.Logger, resource string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		targets := OverrideTargets(c)
		if len(targets) == 0 || c.Writer.Status() >= 400 {
			return
		}

		fields := []zap.Field{
			zap.String("resource", resource),
			zap.String("targets", strings.Join(targets, ",")),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
		}
		if actor, ok := ActorFromContext(c); ok {
			fields = append(fields, zap.String("actor_role", string(actor.Role)))
		}
		logger.WithRequest(log, c).Info("visibility override used", fields...)
	}
}
