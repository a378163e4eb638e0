package checkout

import (
	"strings"
	"time"

	"jengamart/internal/common/enum"
)

// MinConfirmationCodeLen is the client-side gate on manual confirmation
// codes; shorter codes are rejected before any verification call is made.
const MinConfirmationCodeLen = 6

// DefaultPaymentWindow is how long the customer has to confirm a
// mobile-money payment once stage 4 is entered.
const DefaultPaymentWindow = 5 * time.Minute

// PaymentSession tracks one mobile-money confirmation attempt. It is created
// when the flow enters the verification stage and becomes terminal when the
// payment is verified or the flow is abandoned.
type PaymentSession struct {
	OrderID     int64                `json:"order_id"`
	Phone       string               `json:"phone"`
	Amount      int64                `json:"amount"`
	Mode        enum.PaymentModeEnum `json:"mode"`
	PushID      string               `json:"push_id,omitempty"`
	ExpiresAt   time.Time            `json:"expires_at"`
	Verified    bool                 `json:"verified"`
	PushPending bool                 `json:"push_pending"`
}

func NewPaymentSession(orderID int64, phone string, amount int64, now time.Time, window time.Duration) *PaymentSession {
	if window <= 0 {
		window = DefaultPaymentWindow
	}
	return &PaymentSession{
		OrderID:   orderID,
		Phone:     phone,
		Amount:    amount,
		Mode:      enum.MANUAL_CODE,
		ExpiresAt: now.Add(window),
	}
}

func (p *PaymentSession) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Remaining returns the countdown in whole seconds, never negative.
func (p *PaymentSession) Remaining(now time.Time) int {
	d := p.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// CheckManualCode gates the manual path: expiry blocks submission, and codes
// below the minimum length never reach the payment service. Expiry does not
// touch an active push poll; that loop keeps running until it is torn down.
func (p *PaymentSession) CheckManualCode(code string, now time.Time) error {
	if p.Expired(now) {
		return ErrPaymentExpired
	}
	if len(strings.TrimSpace(code)) < MinConfirmationCodeLen {
		return ErrCodeTooShort
	}
	return nil
}

// BeginPush records an accepted push request. A second push while one is
// pending is rejected; manual code entry stays available throughout.
func (p *PaymentSession) BeginPush(pushID string) error {
	if p.PushPending {
		return ErrPushActive
	}
	p.Mode = enum.PUSH_POLL
	p.PushID = pushID
	p.PushPending = true
	return nil
}

func (p *PaymentSession) EndPush() {
	p.PushPending = false
}
