package errors

// AppError is a client-side failure with a code and the notice text to show.
// Field is set for validation failures.
type AppError struct {
	Code    string
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

// New creates an AppError
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Validation creates a validation failure for field
func Validation(field, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Field: field}
}

// Required reports a missing value
func Required(field, message string) *AppError {
	return Validation(field, ValidationRequired, message)
}

// IsValidation reports whether err is a client-side validation failure
func IsValidation(err error) bool {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Field != "" || appErr.Code == ValidationRequired ||
			appErr.Code == ValidationInvalidFormat || appErr.Code == ValidationInvalidRange
	}
	return false
}

var (
	ErrCartEmpty          = New(CartEmpty, "Your cart is empty. Please add items before checking out.")
	ErrCheckoutDisabled   = New(CartEmpty, "Please add items to your cart before proceeding to checkout.")
	ErrControlBusy        = New(CartControlBusy, "An update for this item is already in progress")
	ErrCheckoutInProgress = New(CheckoutInProgress, "Your order is already being processed")
)
