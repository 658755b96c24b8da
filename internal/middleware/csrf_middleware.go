package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/pkg/storefront"
)

// CSRFFormField is the form field that may carry the token when the header is absent
const CSRFFormField = "csrf_token"

type CSRFMiddleware struct {
	token string
}

func NewCSRFMiddleware(token string) *CSRFMiddleware {
	return &CSRFMiddleware{
		token: token,
	}
}

// RequireToken rejects mutating requests whose anti-forgery token does not
// match. The header is checked first, then the csrf_token form field.
func (m *CSRFMiddleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token := c.GetHeader(storefront.CSRFHeader)
		source := "header"
		if token == "" {
			token = c.PostForm(CSRFFormField)
			source = "form"
		}

		if token == "" {
			log.Warn("Missing anti-forgery token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Forbidden(c, "")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.token)) != 1 {
			log.Warn("Anti-forgery token mismatch", map[string]interface{}{
				"path":   c.Request.URL.Path,
				"source": source,
			})
			errors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
