package errors

// Error code constants
// Format: CATEGORY_SPECIFIC_DETAIL
// Notices and the fake storefront both report these codes.

const (
	// ==================== Network (NETWORK_) ====================
	NetworkUnavailable = "NETWORK_UNAVAILABLE" // request never completed
	NetworkTimeout     = "NETWORK_TIMEOUT"     // deadline exceeded

	// ==================== Server (SERVER_) ====================
	ServerError           = "SERVER_ERROR"            // non-2xx status
	ServerRejected        = "SERVER_REJECTED"         // 2xx with error or success:false
	ServerInvalidResponse = "SERVER_INVALID_RESPONSE" // body was not JSON

	// ==================== Validation (VALIDATION_) ====================
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // wrong format
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // out of range
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request

	// ==================== Cart (CART_) ====================
	CartEmpty        = "CART_EMPTY"
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartOutOfStock   = "CART_OUT_OF_STOCK"
	CartControlBusy  = "CART_CONTROL_BUSY"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutInProgress = "CHECKOUT_IN_PROGRESS"
	CheckoutFailed     = "CHECKOUT_FAILED"

	// ==================== Chat (CHAT_) ====================
	ChatAPIKeyMissing = "CHAT_API_KEY_MISSING"
	ChatUpstream      = "CHAT_UPSTREAM"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// ==================== Auth (AUTH_) ====================
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // anti-forgery token rejected

	// ==================== Internal (INTERNAL_) ====================
	InternalError = "INTERNAL_ERROR"
)
