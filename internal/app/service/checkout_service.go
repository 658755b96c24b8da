package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/ikkim/storefront/pkg/util"
)

const (
	MsgOrderPlaced     = "Order placed successfully! Redirecting to your orders..."
	MsgCheckoutFailed  = "Failed to process checkout"
	MsgSelectPayment   = "Please select a payment method"
	MsgZipInvalid      = "ZIP code must be exactly 5 digits"
	MsgPhoneTooShort   = "Phone number must be at least 10 digits"
	DefaultRedirectGap = 1500 * time.Millisecond
)

// CheckoutService runs the order submission state machine:
// Idle -> Validating -> Submitting -> SuccessCOD | SuccessRedirect | Failed.
// A failure returns the machine to Idle so the form can be resubmitted.
type CheckoutService interface {
	State() model.CheckoutState
	Submit(ctx context.Context, in model.CheckoutInput) (*model.CheckoutResult, error)
	Reset()
}

type checkoutService struct {
	cartRepo      repository.CartRepository
	bus           *events.Bus
	redirectDelay time.Duration

	mu    sync.Mutex
	state model.CheckoutState
}

func NewCheckoutService(cartRepo repository.CartRepository, bus *events.Bus, redirectDelay time.Duration) CheckoutService {
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectGap
	}
	return &checkoutService{
		cartRepo:      cartRepo,
		bus:           bus,
		redirectDelay: redirectDelay,
		state:         model.CheckoutIdle,
	}
}

func (s *checkoutService) State() model.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset returns a finished machine to Idle, as a page reload would
func (s *checkoutService) Reset() {
	s.setState(model.CheckoutIdle)
}

func (s *checkoutService) Submit(ctx context.Context, in model.CheckoutInput) (*model.CheckoutResult, error) {
	s.mu.Lock()
	if s.state != model.CheckoutIdle {
		state := s.state
		s.mu.Unlock()
		logger.Warn("Checkout submission rejected", map[string]interface{}{
			"state": state.String(),
		})
		return nil, apperrors.ErrCheckoutInProgress
	}
	s.state = model.CheckoutValidating
	s.mu.Unlock()

	req, err := s.validate(ctx, in)
	if err != nil {
		return nil, s.fail(err)
	}

	s.setState(model.CheckoutSubmitting)
	logger.Info("Submitting order", map[string]interface{}{
		"payment_method": req.PaymentMethod,
	})

	resp, err := s.cartRepo.Checkout(ctx, *req)
	if err != nil {
		return nil, s.fail(err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = MsgCheckoutFailed
		}
		var failure error = apperrors.New(apperrors.CheckoutFailed, msg)
		if resp.SuggestCOD {
			failure = codSuggestion{failure}
		}
		return nil, s.fail(failure)
	}

	if s.bus != nil {
		s.bus.Publish(events.CartUpdated, nil)
	}

	if resp.RequiresPayment && resp.PaymentURL != "" {
		s.setState(model.CheckoutSuccessRedirect)
		logger.Info("Order requires online payment", map[string]interface{}{
			"payment_url": resp.PaymentURL,
		})
		return &model.CheckoutResult{
			State:       model.CheckoutSuccessRedirect,
			RedirectURL: resp.PaymentURL,
		}, nil
	}

	redirect := resp.RedirectURL
	if redirect == "" {
		redirect = model.DefaultRedirectURL
	}
	s.setState(model.CheckoutSuccessCOD)
	logger.Info("Order placed", map[string]interface{}{
		"redirect_url": redirect,
	})
	return &model.CheckoutResult{
		State:       model.CheckoutSuccessCOD,
		RedirectURL: redirect,
		Delay:       s.redirectDelay,
		Message:     MsgOrderPlaced,
	}, nil
}

// validate checks the cart, the payment method and then each shipping field
// in form order. It returns the normalized request.
func (s *checkoutService) validate(ctx context.Context, in model.CheckoutInput) (*storefront.CheckoutRequest, error) {
	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.ErrCartEmpty
	}

	if in.PaymentMethod != model.PaymentCOD && in.PaymentMethod != model.PaymentPayOS {
		return nil, apperrors.Required("payment_method", MsgSelectPayment)
	}

	info, err := NormalizeShipping(in.Shipping)
	if err != nil {
		return nil, err
	}
	return &storefront.CheckoutRequest{
		ShippingInfo:  info,
		PaymentMethod: string(in.PaymentMethod),
	}, nil
}

func (s *checkoutService) fail(err error) error {
	s.setState(model.CheckoutFailed)
	logger.Warn("Checkout failed", map[string]interface{}{
		"error":       err.Error(),
		"suggest_cod": SuggestsCOD(err),
	})
	s.setState(model.CheckoutIdle)
	return err
}

func (s *checkoutService) setState(state model.CheckoutState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// NormalizeShipping trims the text fields, pads the zip to five digits and
// caps the phone at fifteen digits, then validates the result.
func NormalizeShipping(form model.ShippingForm) (storefront.ShippingInfo, error) {
	info := storefront.ShippingInfo{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Address:   strings.TrimSpace(form.Address),
		Address2:  strings.TrimSpace(form.Address2),
		City:      strings.TrimSpace(form.City),
		State:     strings.TrimSpace(form.State),
		Zip:       util.NormalizeZip(form.Zip),
		Phone:     util.NormalizePhone(form.Phone),
	}

	required := []struct {
		key   string
		value string
	}{
		{"first_name", info.FirstName},
		{"last_name", info.LastName},
		{"address", info.Address},
		{"city", info.City},
		{"state", info.State},
		{"zip", util.DigitsOnly(form.Zip)},
		{"phone", info.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			return info, apperrors.Required(f.key, util.HumanizeField(f.key)+" is required")
		}
	}

	if !util.IsValidZip(info.Zip) {
		return info, apperrors.Validation("zip", apperrors.ValidationInvalidFormat, MsgZipInvalid)
	}
	if !util.IsValidPhone(info.Phone) {
		return info, apperrors.Validation("phone", apperrors.ValidationInvalidFormat, MsgPhoneTooShort)
	}
	return info, nil
}

var codPattern = regexp.MustCompile(`(?i)\bCOD\b|cash on delivery`)

// codSuggestion marks a failure the server flagged with suggest_cod
type codSuggestion struct {
	error
}

func (e codSuggestion) Unwrap() error {
	return e.error
}

// SuggestsCOD reports whether a checkout failure asks the shopper to switch
// to cash on delivery, either through the suggest_cod flag or in its text.
func SuggestsCOD(err error) bool {
	if err == nil {
		return false
	}
	var flagged codSuggestion
	if apperrors.As(err, &flagged) || storefront.SuggestsCOD(err) {
		return true
	}
	return codPattern.MatchString(apperrors.UserMessage(err, "").Message)
}
