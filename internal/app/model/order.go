package model

import (
	"time"
)

// CheckoutState is the submission state machine
type CheckoutState int

const (
	CheckoutIdle CheckoutState = iota
	CheckoutValidating
	CheckoutSubmitting
	CheckoutSuccessCOD
	CheckoutSuccessRedirect
	CheckoutFailed
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutIdle:
		return "idle"
	case CheckoutValidating:
		return "validating"
	case CheckoutSubmitting:
		return "submitting"
	case CheckoutSuccessCOD:
		return "success_cod"
	case CheckoutSuccessRedirect:
		return "success_redirect"
	case CheckoutFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends a submission
func (s CheckoutState) Terminal() bool {
	return s == CheckoutSuccessCOD || s == CheckoutSuccessRedirect || s == CheckoutFailed
}

// PaymentMethod is the checkout payment option
type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "cod"
	PaymentPayOS PaymentMethod = "payos"
)

// ShippingForm holds the raw checkout inputs as typed by the user
type ShippingForm struct {
	FirstName string
	LastName  string
	Address   string
	Address2  string
	City      string
	State     string
	Zip       string
	Phone     string
}

// CheckoutInput is one submission attempt
type CheckoutInput struct {
	Shipping      ShippingForm
	PaymentMethod PaymentMethod
}

// DefaultRedirectURL is used when the server gives no redirect target
const DefaultRedirectURL = "/orders"

// CheckoutResult is where a successful submission leads. Delay is zero for
// payment redirects.
type CheckoutResult struct {
	State       CheckoutState `json:"state"`
	RedirectURL string        `json:"redirect_url"`
	Delay       time.Duration `json:"delay"`
	Message     string        `json:"message,omitempty"`
}

// CancelReason is sent when the shopper does not give one
const CancelReason = "User requested cancellation"
