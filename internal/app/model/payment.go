package model

// PaymentProvider is the saved payment method type
type PaymentProvider string

const (
	ProviderCreditCard PaymentProvider = "credit_card"
	ProviderZaloPay    PaymentProvider = "zalopay"
)

// CardForm is the payment method form as the user sees it. Inputs are kept
// in their formatted form.
type CardForm struct {
	Provider       PaymentProvider `json:"provider"`
	CardNumber     string          `json:"card_number"`
	Expiry         string          `json:"expiry"`
	CVV            string          `json:"cvv"`
	CardholderName string          `json:"cardholder_name"`
	WalletPhone    string          `json:"wallet_phone"`

	// Card lookup feedback
	CardType          string `json:"card_type,omitempty"`
	ValidationMessage string `json:"validation_message,omitempty"`
	ValidationOK      bool   `json:"validation_ok"`
}

// CardData is hashed into the client payment token
type CardData struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
	Name   string `json:"name"`
}

// PaymentToken is base64-encoded JSON sent instead of raw card data
type PaymentToken struct {
	Provider  PaymentProvider `json:"provider"`
	Timestamp int64           `json:"timestamp"`
	Nonce     string          `json:"nonce"`
	Last4     string          `json:"last4"`
	Hash      string          `json:"hash"`
}
