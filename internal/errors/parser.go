package errors

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/ikkim/storefront/pkg/gemini"
	"github.com/ikkim/storefront/pkg/storefront"
)

// ErrorInfo is what a notice needs to render a failure
type ErrorInfo struct {
	Code    string // see codes.go
	Message string // user facing text
}

const (
	msgNetwork = "Unable to reach the server. Please check your connection and try again."
	msgTimeout = "The server took too long to respond. Please try again."
	msgGeneric = "Something went wrong. Please try again."
)

// As and Is re-export the standard helpers so callers need a single import.
var (
	As = stderrors.As
	Is = stderrors.Is
)

// UserMessage maps err to a code and the text to show the user. fallback is
// used when the server gave no text of its own.
func UserMessage(err error, fallback string) ErrorInfo {
	if fallback == "" {
		fallback = msgGeneric
	}
	if err == nil {
		return ErrorInfo{Code: InternalError, Message: fallback}
	}

	// 1. Client-side failures
	var appErr *AppError
	if As(err, &appErr) {
		return ErrorInfo{Code: appErr.Code, Message: appErr.Message}
	}

	// 2. Deadline before transport, since timeouts also surface as transport errors
	if Is(err, context.DeadlineExceeded) {
		return ErrorInfo{Code: NetworkTimeout, Message: msgTimeout}
	}
	var transportErr *storefront.TransportError
	if As(err, &transportErr) {
		if strings.Contains(strings.ToLower(transportErr.Err.Error()), "timeout") {
			return ErrorInfo{Code: NetworkTimeout, Message: msgTimeout}
		}
		return ErrorInfo{Code: NetworkUnavailable, Message: msgNetwork}
	}

	// 3. Server answered with a failure
	var statusErr *storefront.StatusError
	if As(err, &statusErr) {
		return ErrorInfo{Code: ServerError, Message: statusErr.Message}
	}
	var apiErr *storefront.APIError
	if As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return ErrorInfo{Code: ServerRejected, Message: msg}
	}
	if Is(err, storefront.ErrNonJSONResponse) || Is(err, storefront.ErrMalformedResponse) || Is(err, storefront.ErrResponseTooLarge) {
		return ErrorInfo{Code: ServerInvalidResponse, Message: fallback}
	}
	if Is(err, storefront.ErrMissingToken) {
		return ErrorInfo{Code: AuthTokenInvalid, Message: "Your session has expired. Please reload the page."}
	}

	// 4. Generative API
	if Is(err, gemini.ErrAPIKeyMissing) {
		return ErrorInfo{Code: ChatAPIKeyMissing, Message: "The assistant is not configured."}
	}
	var geminiErr *gemini.APIError
	if As(err, &geminiErr) || Is(err, gemini.ErrInvalidResponse) ||
		Is(err, gemini.ErrNoCandidates) || Is(err, gemini.ErrEmptyReply) {
		return ErrorInfo{Code: ChatUpstream, Message: err.Error()}
	}

	// 5. Anything else
	return ErrorInfo{Code: InternalError, Message: fallback}
}
