package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/storefront/pkg/logger"
)

// RequestIDHeader correlates client and server log lines
const RequestIDHeader = "X-Request-ID"

const loggerKey = "logger"

// LoggingMiddleware logs every storefront call. Reads are logged at debug
// level; mutations and failures are always logged.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		mutation := c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead
		log := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(loggerKey, log)

		// The push channel is long-lived; only its upgrade is worth a line
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			log.Info("Push channel opened", map[string]interface{}{"ip": c.ClientIP()})
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"status_code": status,
			"latency_ms":  time.Since(startTime).Milliseconds(),
			"body_size":   c.Writer.Size(),
			"ajax":        c.GetHeader("X-Requested-With") == "XMLHttpRequest",
		}
		if c.Request.URL.RawQuery != "" {
			fields["query"] = c.Request.URL.RawQuery
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request failed", nil, fields)
		case status >= http.StatusBadRequest:
			log.Warn("Request rejected", fields)
		case mutation:
			log.Info("Mutation applied", fields)
		default:
			log.Debug("Request served", fields)
		}
	}
}

// GetLoggerFromContext returns the request logger, or the global one
// outside a request
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if l, ok := c.Value(loggerKey).(*logger.Logger); ok {
		return l
	}
	return logger.Get()
}
