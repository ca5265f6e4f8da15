package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger returns gin middleware that logs every request through zap:
// method, path, status, latency, client IP, query string, and any errors
// collected in the gin context. The log level follows the response status.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RequestLogger requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		start := time.Now()

		// Copied before handlers run, in case a handler rewrites the URL.
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		logFields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			logFields = append(logFields, zap.String("gin_errors", c.Errors.String()))
		}

		switch {
		case statusCode >= http.StatusInternalServerError:
			logger.Error("Incoming Request", logFields...)
		case statusCode >= http.StatusBadRequest:
			logger.Warn("Incoming Request", logFields...)
		default:
			logger.Info("Incoming Request", logFields...)
		}
	}
}
