package storefront

import (
	"errors"
	"fmt"
)

var (
	// ErrNonJSONResponse is returned when a JSON endpoint answers with something else
	ErrNonJSONResponse = errors.New("response is not JSON")
	// ErrMalformedResponse is returned when the success/error envelope cannot be read
	ErrMalformedResponse = errors.New("response envelope is malformed")
	// ErrResponseTooLarge is returned when a body exceeds the read limit
	ErrResponseTooLarge = errors.New("response body is too large")
	// ErrMissingToken is returned when a mutating request has no anti-forgery token
	ErrMissingToken = errors.New("anti-forgery token is not available")
)

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response. Message comes from the JSON body when
// there is one and is synthesized from the status code otherwise.
type StatusError struct {
	StatusCode int
	Message    string
	// SuggestCOD is set when the body asks to retry with cash on delivery
	SuggestCOD bool
}

func (e *StatusError) Error() string {
	return e.Message
}

// APIError is a 2xx response whose body reports failure through an error
// field or success:false. Message may be empty when the server gave no text.
type APIError struct {
	StatusCode int
	Message    string
	SuggestCOD bool
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// ServerMessage extracts the server-provided failure text from err, or "".
func ServerMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// SuggestsCOD reports whether the server flagged err with suggest_cod
func SuggestsCOD(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.SuggestCOD
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.SuggestCOD
	}
	return false
}

func newStatusError(code int, message string) *StatusError {
	if message == "" {
		message = fmt.Sprintf("Server error: %d", code)
	}
	return &StatusError{StatusCode: code, Message: message}
}
