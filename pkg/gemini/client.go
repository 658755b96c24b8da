package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrAPIKeyMissing is returned when no API key is configured
	ErrAPIKeyMissing = errors.New("generative API key is not configured")
	// ErrInvalidResponse is returned when the API answers with something other than JSON
	ErrInvalidResponse = errors.New("invalid response from generative API")
	// ErrNoCandidates is returned when the response has no candidates
	ErrNoCandidates = errors.New("no valid response received from generative API")
	// ErrEmptyReply is returned when the first candidate has no text
	ErrEmptyReply = errors.New("response has no content")
)

// APIError is a failed generateContent call
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("API error: %s", e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Config holds the generative API configuration
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.APIKey == "" || c.APIKey == "YOUR_API_KEY" {
		return ErrAPIKeyMissing
	}
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	return nil
}

// Part is a single text part of a content block
type Part struct {
	Text string `json:"text"`
}

// Content is one message of the conversation
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerateRequest is the generateContent body
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Candidate is one generated answer
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateResponse is the generateContent payload
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Client calls the generateContent endpoint
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new generative API client with the given configuration
func NewClient(config Config, httpClient *http.Client) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{config: config, httpClient: httpClient}, nil
}

// GenerateText sends a single-part prompt and returns the first candidate's text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.GenerateContent(ctx, GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", ErrEmptyReply
	}
	return parts[0].Text, nil
}

// GenerateContent performs the raw generateContent call
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.config.BaseURL, "/"), c.config.Model, url.QueryEscape(c.config.APIKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call generative API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return nil, ErrInvalidResponse
	}

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.Error != nil {
		msg := out.Error.Message
		if msg == "" {
			msg = "unknown"
		}
		return nil, &APIError{Message: msg}
	}
	return &out, nil
}
