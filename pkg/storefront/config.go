package storefront

import (
	"errors"
	"net/url"
	"time"
)

// Config holds the storefront API client configuration
type Config struct {
	// BaseURL is the storefront origin; every endpoint path is resolved against it.
	BaseURL string

	// Timeout bounds a single request. Zero means 30 seconds.
	Timeout time.Duration

	// SessionCookie is sent verbatim as the Cookie header when set.
	SessionCookie string
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("base URL must be http or https")
	}
	if u.Host == "" {
		return errors.New("base URL must include a host")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}
