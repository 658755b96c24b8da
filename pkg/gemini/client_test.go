package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "key-1", Model: "gemini-test", BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	return c
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, Config{Model: "m", BaseURL: "http://x"}.Validate(), ErrAPIKeyMissing)
	assert.ErrorIs(t, Config{APIKey: "YOUR_API_KEY", Model: "m", BaseURL: "http://x"}.Validate(), ErrAPIKeyMissing)
	assert.Error(t, Config{APIKey: "k", BaseURL: "http://x"}.Validate())
	assert.NoError(t, Config{APIKey: "k", Model: "m", BaseURL: "http://x"}.Validate())
}

func TestGenerateText_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key-1", r.URL.Query().Get("key"))

		var req GenerateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Contents, 1) && assert.Len(t, req.Contents[0].Parts, 1) {
			assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)
		}

		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Hi there"}]}}]}`)
	})

	reply, err := c.GenerateText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
}

func TestGenerateText_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		check       func(t *testing.T, err error)
	}{
		{
			name:        "HTTP error keeps body",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `bad key`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
				assert.Equal(t, "API error (400): bad key", err.Error())
			},
		},
		{
			name:        "Non JSON content type",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        `<html></html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidResponse)
			},
		},
		{
			name:        "Error object",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"error":{"message":"quota exceeded"}}`,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "API error: quota exceeded", err.Error())
			},
		},
		{
			name:        "No candidates",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"candidates":[]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoCandidates)
			},
		},
		{
			name:        "Empty text",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"candidates":[{"content":{"parts":[]}}]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyReply)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.GenerateText(context.Background(), "q")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
