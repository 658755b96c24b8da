package repository

import (
	"context"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

type PaymentRepository interface {
	ValidateCard(ctx context.Context, cardNumber string) (*storefront.CardValidation, error)
	CreateWalletPayment(ctx context.Context, phone string) (*storefront.WalletPaymentResponse, error)
	AddMethod(ctx context.Context, provider, token string) error
}

type paymentRepository struct {
	client *storefront.Client
}

func NewPaymentRepository(client *storefront.Client) PaymentRepository {
	return &paymentRepository{client: client}
}

func (r *paymentRepository) ValidateCard(ctx context.Context, cardNumber string) (*storefront.CardValidation, error) {
	result, err := r.client.ValidateCard(ctx, cardNumber)
	if err != nil {
		logger.Error("Card validation request failed", err, map[string]interface{}{
			"prefix_length": len(cardNumber),
		})
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) CreateWalletPayment(ctx context.Context, phone string) (*storefront.WalletPaymentResponse, error) {
	resp, err := r.client.CreateWalletPayment(ctx, phone)
	if err != nil {
		logger.Error("Wallet payment request failed", err, nil)
		return nil, err
	}
	return resp, nil
}

func (r *paymentRepository) AddMethod(ctx context.Context, provider, token string) error {
	if err := r.client.AddPaymentMethod(ctx, provider, token); err != nil {
		logger.Error("Failed to save payment method", err, map[string]interface{}{
			"provider": provider,
		})
		return err
	}
	return nil
}
