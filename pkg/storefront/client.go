package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/storefront/pkg/logger"
)

const (
	// CSRFHeader carries the anti-forgery token on every mutating request.
	CSRFHeader = "X-CSRF-Token"

	defaultTimeout = 30 * time.Second
	maxBodySize    = 4 << 20
)

// Client talks to the storefront HTTP API
type Client struct {
	config     Config
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransport keeps the configured timeout but swaps the round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// NewClient creates a new storefront client with the given configuration
func NewClient(config Config, tokens TokenSource, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	base, _ := url.Parse(strings.TrimRight(config.BaseURL, "/"))

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if tokens == nil {
		tokens = StaticToken("")
	}

	c := &Client{
		config:     config,
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured origin
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Token returns the current anti-forgery token
func (c *Client) Token() string {
	return c.tokens.Token()
}

// ResolveURL makes a server-relative path absolute. Absolute URLs are returned as is.
func (c *Client) ResolveURL(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	return c.baseURL.ResolveReference(ref).String()
}

type payload struct {
	contentType string
	body        []byte
}

func jsonPayload(v interface{}) (*payload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return &payload{contentType: "application/json", body: b}, nil
}

func formPayload(v url.Values) *payload {
	return &payload{contentType: "application/x-www-form-urlencoded", body: []byte(v.Encode())}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   *payload

	// mutating requests carry the anti-forgery header
	mutating bool
	// rawResult skips the success/error envelope check for endpoints whose
	// payload uses "error" as a regular field
	rawResult bool
	// allowEmpty accepts a 2xx with an empty or non-JSON body
	allowEmpty bool
}

type envelope struct {
	Success    jsonFlag        `json:"success"`
	Error      json.RawMessage `json:"error"`
	Message    json.RawMessage `json:"message"`
	SuggestCOD jsonFlag        `json:"suggest_cod"`
}

// jsonFlag is a boolean the server may send as true, "true", 1 or "1".
// Set is false when the field is absent or null.
type jsonFlag struct {
	Set   bool
	Value bool
}

func (f *jsonFlag) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*f = jsonFlag{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		raw = strings.ToLower(strings.TrimSpace(s))
	}
	switch raw {
	case "true", "1":
		*f = jsonFlag{Set: true, Value: true}
	case "false", "0", "":
		*f = jsonFlag{Set: true}
	default:
		var n float64
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return fmt.Errorf("invalid boolean %s", b)
		}
		*f = jsonFlag{Set: true, Value: n != 0}
	}
	return nil
}

// hasError reports whether the error field signals a failure. false, 0,
// "", null and empty objects or arrays do not.
func (e envelope) hasError() bool {
	raw := bytes.TrimSpace(e.Error)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case '"':
		var s string
		return json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != ""
	case '{':
		var m map[string]json.RawMessage
		return json.Unmarshal(raw, &m) != nil || len(m) > 0
	case '[':
		var a []json.RawMessage
		return json.Unmarshal(raw, &a) != nil || len(a) > 0
	case 't':
		return true
	case 'f', 'n':
		return false
	default:
		var n float64
		return json.Unmarshal(raw, &n) != nil || n != 0
	}
}

func (e envelope) failed() bool {
	return e.hasError() || (e.Success.Set && !e.Success.Value)
}

// errorText is the text of the error field; an object contributes its
// message member. Flags and numbers have no text.
func (e envelope) errorText() string {
	if !e.hasError() {
		return ""
	}
	raw := bytes.TrimSpace(e.Error)
	switch raw[0] {
	case '"':
		var s string
		_ = json.Unmarshal(raw, &s)
		return strings.TrimSpace(s)
	case '{':
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		return string(raw)
	case '[':
		return string(raw)
	}
	return ""
}

func (e envelope) messageText() string {
	raw := bytes.TrimSpace(e.Message)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// normalize rewrites a successful body so typed results decode: success
// becomes a JSON boolean, a falsy error is dropped and message is a string.
func (e envelope) normalize(body []byte) []byte {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}
	if e.Success.Set {
		fields["success"] = json.RawMessage(strconv.FormatBool(e.Success.Value))
	} else {
		delete(fields, "success")
	}
	if !e.hasError() {
		delete(fields, "error")
	}
	if msg, ok := fields["message"]; ok {
		if m, err := json.Marshal(e.messageText()); err == nil && string(msg) != string(m) {
			fields["message"] = m
		}
	}
	if out, err := json.Marshal(fields); err == nil {
		return out
	}
	return body
}

// failureText prefers the error field and falls back to message.
func (e envelope) failureText() string {
	if t := e.errorText(); t != "" {
		return t
	}
	return e.messageText()
}

// do sends the request and decodes the JSON response into out. Failures
// come back as *TransportError, *StatusError, *APIError or ErrNonJSONResponse.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	target := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}
	endpoint := target.String()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", r.body.contentType)
	}
	if r.mutating {
		req.Header.Set(CSRFHeader, c.tokens.Token())
	}
	if c.config.SessionCookie != "" {
		req.Header.Set("Cookie", c.config.SessionCookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: r.method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return &TransportError{Method: r.method, URL: endpoint, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	tooLarge := len(raw) > maxBodySize
	if tooLarge {
		raw = nil
	}
	trimmed := bytes.TrimSpace(raw)
	isJSON := len(trimmed) > 0 && json.Valid(trimmed)

	var env envelope
	var envErr error
	isObject := isJSON && trimmed[0] == '{'
	if isObject {
		if envErr = json.Unmarshal(trimmed, &env); envErr != nil && !r.rawResult {
			logger.Warn("Storefront response envelope is malformed", map[string]interface{}{
				"method": r.method,
				"path":   r.path,
				"error":  envErr.Error(),
			})
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Storefront request returned error status", map[string]interface{}{
			"method":      r.method,
			"path":        r.path,
			"status_code": resp.StatusCode,
		})
		statusErr := newStatusError(resp.StatusCode, env.failureText())
		statusErr.SuggestCOD = env.SuggestCOD.Value
		return statusErr
	}

	if tooLarge {
		return fmt.Errorf("%w: %s %s exceeds %d bytes", ErrResponseTooLarge, r.method, r.path, maxBodySize)
	}

	if !isJSON {
		if r.allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: %s %s (status %d)", ErrNonJSONResponse, r.method, r.path, resp.StatusCode)
	}

	if isObject && !r.rawResult {
		if envErr != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, r.method, r.path, envErr)
		}
		if env.failed() {
			return &APIError{StatusCode: resp.StatusCode, Message: env.failureText(), SuggestCOD: env.SuggestCOD.Value}
		}
	}

	if out == nil {
		return nil
	}
	if isObject && !r.rawResult {
		trimmed = env.normalize(trimmed)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", r.path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	var p *payload
	if in != nil {
		var err error
		if p, err = jsonPayload(in); err != nil {
			return err
		}
	}
	return c.do(ctx, request{method: http.MethodPost, path: path, body: p, mutating: true}, out)
}
