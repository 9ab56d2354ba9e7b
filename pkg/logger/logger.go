package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Kabre57/ParabellumGroups-sub000/pkg/config"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/middleware/requestid"
)

// Context keys populated by the auth middleware so request logs carry the caller.
const (
	ActorIDKey   = "actor_id"
	ActorRoleKey = "actor_role"
)

func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build(zap.Fields(zap.String("service", "calendar-aggregator")))
}

// WithRequest returns l annotated with the request id and actor of c, when known.
func WithRequest(l *zap.Logger, c *gin.Context) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	if c == nil {
		return l
	}
	fields := make([]zap.Field, 0, 3)
	if reqID := requestid.Value(c); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if id, ok := c.Get(ActorIDKey); ok {
		fields = append(fields, zap.Any("actor_id", id))
	}
	if role, ok := c.Get(ActorRoleKey); ok {
		fields = append(fields, zap.Any("actor_role", role))
	}
	return l.With(fields...)
}

func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}

		entry := WithRequest(l, c)
		if c.Writer.Status() >= 500 {
			entry.Error("http_request", fields...)
			return
		}
		entry.Info("http_request", fields...)
	}
}
