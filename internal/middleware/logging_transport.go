package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/storefront/pkg/logger"
)

// LoggingTransport is the client-side counterpart of LoggingMiddleware: it
// tags each outgoing request with a request ID and logs its outcome.
type LoggingTransport struct {
	Base http.RoundTripper
}

// NewLoggingTransport wraps base, or http.DefaultTransport when nil
func NewLoggingTransport(base http.RoundTripper) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &LoggingTransport{Base: base}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		// RoundTrippers must not modify the caller's request
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, requestID)
	}

	log := logger.WithContext(map[string]interface{}{
		"request_id": requestID,
		"method":     req.Method,
		"path":       req.URL.Path,
	})

	resp, err := t.Base.RoundTrip(req)
	latency := time.Since(startTime)
	if err != nil {
		log.Error("Outgoing request failed", err, map[string]interface{}{
			"latency_ms": latency.Milliseconds(),
		})
		return nil, err
	}

	fields := map[string]interface{}{
		"status_code": resp.StatusCode,
		"latency_ms":  latency.Milliseconds(),
	}
	if resp.StatusCode >= 500 {
		log.Warn("Outgoing request completed", fields)
	} else {
		log.Debug("Outgoing request completed", fields)
	}
	return resp, nil
}
