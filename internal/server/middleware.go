package server

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/clarity/internal/metrics"
	"github.com/gin-gonic/gin"
)

func requestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		switch {
		case status >= 500:
			logger.ErrorContext(c.Request.Context(), "http_request", attrs...)
		case status >= 400:
			logger.WarnContext(c.Request.Context(), "http_request", attrs...)
		default:
			logger.DebugContext(c.Request.Context(), "http_request", attrs...)
		}
	}
}
