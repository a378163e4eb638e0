package checkout

import "errors"

// Guard and flow errors. All of them are recoverable: the flow stays in its
// current stage and the caller may retry.
var (
	ErrIncompleteCustomerInfo = errors.New("name, phone and delivery address are required")
	ErrIncompleteShipping     = errors.New("city and postal code are required")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrSubmitInFlight         = errors.New("order submission already in progress")
	ErrAlreadySubmitted       = errors.New("order has already been submitted")
	ErrNotAwaitingPayment     = errors.New("checkout is not awaiting payment verification")
	ErrCodeTooShort           = errors.New("confirmation code must be at least 6 characters")
	ErrPaymentExpired         = errors.New("payment window has expired")
	ErrPushActive             = errors.New("a payment push request is already active")
	ErrFlowClosed             = errors.New("checkout flow is closed")
)
