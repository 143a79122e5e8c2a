package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
)

// LoggingConfig tunes the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are high-frequency paths excluded from logging.
	SkipPaths []string

	// SlowThreshold raises the log level for slow requests.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig returns sensible defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// RequestLogging logs one line per request: 5xx at error, 4xx and slow
// requests at warn, everything else at info.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.FullPath()] || skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("remote_addr", c.ClientIP()),
			logging.String("request_id", GetRequestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("request completed with server error", fields...)
		case status >= 400:
			logger.Warn("request completed with client error", fields...)
		case cfg.SlowThreshold > 0 && duration >= cfg.SlowThreshold:
			logger.Warn("request completed (slow)", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
