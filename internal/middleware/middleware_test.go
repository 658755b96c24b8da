package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSRFToken = "test-csrf-token"

func setupMiddlewareTest() (*gin.Engine, *CSRFMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	return router, NewCSRFMiddleware(testCSRFToken)
}

func TestCSRFMiddleware_RequireToken_Header(t *testing.T) {
	router, csrf := setupMiddlewareTest()
	router.POST("/test", csrf.RequireToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set(storefront.CSRFHeader, testCSRFToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFMiddleware_RequireToken_FormField(t *testing.T) {
	router, csrf := setupMiddlewareTest()
	router.POST("/test", csrf.RequireToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	form := url.Values{CSRFFormField: {testCSRFToken}}
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFMiddleware_RequireToken_Rejected(t *testing.T) {
	router, csrf := setupMiddlewareTest()
	router.POST("/test", csrf.RequireToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "Missing token",
			header: "",
		},
		{
			name:   "Wrong token",
			header: "forged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			if tt.header != "" {
				req.Header.Set(storefront.CSRFHeader, tt.header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Contains(t, w.Body.String(), "anti-forgery token")
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	router, _ := setupMiddlewareTest()
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-42", w.Body.String())
	})
}

func TestLoggingTransport_TagsRequests(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewLoggingTransport(nil)}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, seen)
	assert.Empty(t, req.Header.Get(RequestIDHeader), "caller's request is left untouched")
}

func TestLoggingTransport_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := &http.Client{Transport: NewLoggingTransport(nil)}
	_, err := client.Get(srv.URL)
	assert.Error(t, err)
}

func TestLoggingMiddleware_LevelByOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { logger.Initialize(logger.Config{Level: "info", Format: "json"}) })

	router, csrf := setupMiddlewareTest()
	router.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/write", csrf.RequireToken(), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name    string
		req     func() *http.Request
		level   string
		message string
	}{
		{"Read", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/read", nil)
		}, "debug", "Request served"},
		{"Mutation", func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/write", nil)
			req.Header.Set(storefront.CSRFHeader, testCSRFToken)
			return req
		}, "info", "Mutation applied"},
		{"Rejected", func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/write", nil)
		}, "warn", "Request rejected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			router.ServeHTTP(httptest.NewRecorder(), tc.req())

			var last map[string]interface{}
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
			assert.Equal(t, tc.level, last["level"])
			assert.Equal(t, tc.message, last["message"])
			assert.NotEmpty(t, last["request_id"])
		})
	}
}
