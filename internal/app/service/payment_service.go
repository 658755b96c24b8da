package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/util"
)

const (
	MsgCardFieldsMissing  = "Please fill in all credit card fields"
	MsgCardNumberLength   = "Card number must be 16 digits"
	MsgExpiryFormat       = "Invalid expiry date format (MM/YY)"
	MsgInvalidCVV         = "Invalid CVV"
	MsgWalletPhone        = "Please enter a valid 10-digit phone number"
	MsgWalletFailed       = "Failed to create ZaloPay payment"
	MsgPaymentFailed      = "Error processing payment. Please try again."
	MsgInvalidCard        = "Invalid card"
	MsgCardLookupFailed   = "Error validating card"
	MsgPaymentMethodAdded = "Payment method added"

	tokenNonceBytes = 16
)

// PaymentService drives the add-payment-method form
type PaymentService interface {
	// SelectProvider switches the form to provider and clears every input
	SelectProvider(provider model.PaymentProvider) model.CardForm
	// Format normalizes the typed inputs; card lookup feedback is cleared
	// when the card number changed.
	Format(prev, next model.CardForm) model.CardForm
	// LookupCard asks the store for the card issuer once enough digits are typed
	LookupCard(ctx context.Context, form model.CardForm) model.CardForm
	Validate(form model.CardForm) error
	// AddCard tokenizes the card and saves it as a payment method
	AddCard(ctx context.Context, form model.CardForm) (string, error)
	// StartWallet creates a wallet payment and returns its payment URL
	StartWallet(ctx context.Context, form model.CardForm) (string, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	now         func() time.Time
}

func NewPaymentService(paymentRepo repository.PaymentRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

func (s *paymentService) SelectProvider(provider model.PaymentProvider) model.CardForm {
	logger.Debug("Payment provider selected", map[string]interface{}{
		"provider": provider,
	})
	return model.CardForm{Provider: provider}
}

func (s *paymentService) Format(prev, next model.CardForm) model.CardForm {
	next.CardNumber = util.FormatCardNumber(next.CardNumber)
	next.Expiry = util.FormatExpiry(next.Expiry)
	next.CVV = util.FormatCVV(next.CVV)
	next.WalletPhone = util.FormatWalletPhone(next.WalletPhone)

	if util.CardDigits(prev.CardNumber) != util.CardDigits(next.CardNumber) {
		next.CardType = ""
		next.ValidationMessage = ""
		next.ValidationOK = false
		next.CardholderName = ""
	}
	return next
}

func (s *paymentService) LookupCard(ctx context.Context, form model.CardForm) model.CardForm {
	digits := util.CardDigits(form.CardNumber)
	if !util.HasCardBIN(digits) {
		return form
	}

	result, err := s.paymentRepo.ValidateCard(ctx, digits)
	if err != nil {
		form.CardType = ""
		form.CardholderName = ""
		form.ValidationOK = false
		form.ValidationMessage = MsgCardLookupFailed
		return form
	}

	if !result.Valid {
		form.CardType = ""
		form.CardholderName = ""
		form.ValidationOK = false
		form.ValidationMessage = result.Error
		if form.ValidationMessage == "" {
			form.ValidationMessage = MsgInvalidCard
		}
		return form
	}

	form.CardType = result.Type
	if result.CardholderName != "" {
		form.CardholderName = result.CardholderName
	}
	form.ValidationOK = true
	form.ValidationMessage = fmt.Sprintf("Valid %s card", result.Issuer)
	return form
}

func (s *paymentService) Validate(form model.CardForm) error {
	switch form.Provider {
	case model.ProviderZaloPay:
		if !util.IsValidWalletPhone(form.WalletPhone) {
			return apperrors.Validation("wallet_phone", apperrors.ValidationInvalidFormat, MsgWalletPhone)
		}
		return nil
	case model.ProviderCreditCard:
	default:
		return apperrors.Required("payment_provider", MsgSelectPayment)
	}

	digits := util.CardDigits(form.CardNumber)
	if digits == "" || form.Expiry == "" || form.CVV == "" || form.CardholderName == "" {
		return apperrors.Required("card", MsgCardFieldsMissing)
	}
	if !util.IsFullCardNumber(digits) {
		return apperrors.Validation("card_number", apperrors.ValidationInvalidFormat, MsgCardNumberLength)
	}
	if !util.IsValidExpiry(form.Expiry) {
		return apperrors.Validation("expiry", apperrors.ValidationInvalidFormat, MsgExpiryFormat)
	}
	if !util.IsValidCVV(form.CVV) {
		return apperrors.Validation("cvv", apperrors.ValidationInvalidFormat, MsgInvalidCVV)
	}
	return nil
}

func (s *paymentService) AddCard(ctx context.Context, form model.CardForm) (string, error) {
	if form.Provider != model.ProviderCreditCard {
		return "", apperrors.Required("payment_provider", MsgSelectPayment)
	}
	if err := s.Validate(form); err != nil {
		return "", err
	}

	data := model.CardData{
		Number: util.CardDigits(form.CardNumber),
		Expiry: form.Expiry,
		CVV:    form.CVV,
		Name:   form.CardholderName,
	}
	token, err := BuildPaymentToken(form.Provider, data, s.now())
	if err != nil {
		logger.Error("Failed to build payment token", err, nil)
		return "", apperrors.New(apperrors.InternalError, MsgPaymentFailed)
	}

	if err := s.paymentRepo.AddMethod(ctx, string(form.Provider), token); err != nil {
		return "", err
	}

	logger.Info("Payment method added", map[string]interface{}{
		"provider": form.Provider,
		"last4":    util.LastFour(data.Number),
	})
	return MsgPaymentMethodAdded, nil
}

func (s *paymentService) StartWallet(ctx context.Context, form model.CardForm) (string, error) {
	if form.Provider != model.ProviderZaloPay {
		return "", apperrors.Required("payment_provider", MsgSelectPayment)
	}
	if err := s.Validate(form); err != nil {
		return "", err
	}

	resp, err := s.paymentRepo.CreateWalletPayment(ctx, form.WalletPhone)
	if err != nil {
		return "", err
	}
	if !resp.Success || resp.PaymentURL == "" {
		msg := resp.Error
		if msg == "" {
			msg = MsgWalletFailed
		}
		return "", apperrors.New(apperrors.ServerRejected, msg)
	}

	logger.Info("Wallet payment created", map[string]interface{}{
		"provider": form.Provider,
	})
	return resp.PaymentURL, nil
}

// BuildPaymentToken encodes the provider, a nonce, the last four digits and
// a SHA-256 hash of data. Raw card fields never leave the client.
func BuildPaymentToken(provider model.PaymentProvider, data model.CardData, now time.Time) (string, error) {
	nonce, err := util.GenerateNonce(tokenNonceBytes)
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode card data: %w", err)
	}
	sum := sha256.Sum256(raw)

	token := model.PaymentToken{
		Provider:  provider,
		Timestamp: now.UnixMilli(),
		Nonce:     nonce,
		Last4:     util.LastFour(data.Number),
		Hash:      hex.EncodeToString(sum[:]),
	}
	encoded, err := json.Marshal(token)
	if err != nil {
		return "", fmt.Errorf("failed to encode payment token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}
