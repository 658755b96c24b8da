package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the storefront's standard failure body. Error carries the
// user facing text, which the client shows verbatim, and Code the machine code.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// RespondWithError writes a failure body with the given status
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    errorCode,
	})
}

// Reject answers 200 with success:false, the way the storefront reports
// business-rule failures.
func Reject(c *gin.Context, errorCode string, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": message,
		"code":    errorCode,
	})
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid or missing anti-forgery token"
	}
	RespondWithError(c, http.StatusForbidden, AuthTokenInvalid, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalError, message)
}
