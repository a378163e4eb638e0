package checkout

import (
	"time"

	"jengamart/internal/common/enum"
)

// Flow is one checkout attempt: the wizard position, the collected draft and
// a snapshot of the cart. It is owned by exactly one customer session; all
// mutation goes through its methods so the stage invariants hold.
type Flow struct {
	ID         string          `json:"id"`
	Status     FlowStatus      `json:"status"`
	Stage      Stage           `json:"stage"`
	Draft      Draft           `json:"draft"`
	Cart       []CartLine      `json:"cart"`
	OrderID    int64           `json:"order_id,omitempty"`
	Submitting bool            `json:"submitting"`
	Payment    *PaymentSession `json:"payment,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func NewFlow(id string, cart []CartLine, now time.Time) *Flow {
	return &Flow{
		ID:        id,
		Status:    FlowActive,
		Stage:     StageCustomerInfo,
		Cart:      NormalizeCart(cart),
		CreatedAt: now,
	}
}

// SetDraft replaces the collected form data. The draft is frozen once the
// order has been submitted.
func (f *Flow) SetDraft(d Draft) error {
	if f.Status.IsTerminal() {
		return ErrFlowClosed
	}
	if f.OrderID != 0 {
		return ErrAlreadySubmitted
	}
	f.Draft = d
	return nil
}

// Next advances one stage when the current stage's guard passes. Stage 3 is
// left via Submit, never via Next.
func (f *Flow) Next() error {
	if f.Status.IsTerminal() {
		return ErrFlowClosed
	}
	switch f.Stage {
	case StageCustomerInfo:
		if !f.Draft.CustomerInfoComplete() {
			return ErrIncompleteCustomerInfo
		}
		f.Stage = StageShippingDetails
	case StageShippingDetails:
		if !f.Draft.ShippingComplete() {
			return ErrIncompleteShipping
		}
		f.Stage = StageReviewAndPayment
	default:
		return ErrAlreadySubmitted
	}
	return nil
}

// Back moves one stage backward without re-validating forward guards. The
// verification stage is left through Cancel, not Back.
func (f *Flow) Back() {
	if f.Stage > StageCustomerInfo && f.Stage < StagePaymentVerification {
		f.Stage--
	}
}

// BeginSubmit gates the order submission: review stage, non-empty cart, no
// submission already running or done. It flags the flow so a second submit
// during the in-flight call is rejected. The already-submitted check runs
// before the stage check: a duplicate submit of a flow that moved on to
// verification is a conflict, not a validation failure.
func (f *Flow) BeginSubmit() error {
	if f.Status.IsTerminal() {
		return ErrFlowClosed
	}
	if f.OrderID != 0 {
		return ErrAlreadySubmitted
	}
	if f.Submitting {
		return ErrSubmitInFlight
	}
	if f.Stage != StageReviewAndPayment {
		return ErrIncompleteShipping
	}
	if len(f.Cart) == 0 {
		return ErrEmptyCart
	}
	f.Submitting = true
	return nil
}

// FailSubmit keeps the flow in the review stage after a failed order call;
// nothing is committed and the customer may retry.
func (f *Flow) FailSubmit() {
	f.Submitting = false
}

// CompleteSubmit records the created order. For mobile-money the flow enters
// the verification stage with a fresh payment session and the caller must
// drive confirmation; for other methods the flow is ready to finalize
// immediately. Returns true when verification is required.
func (f *Flow) CompleteSubmit(orderID int64, shippingFee int64, now time.Time, window time.Duration) bool {
	f.Submitting = false
	f.OrderID = orderID
	if f.Draft.PaymentMethod != enum.MOBILE_MONEY {
		return false
	}
	total := Summarize(f.Cart, shippingFee).Total
	f.Payment = NewPaymentSession(orderID, f.Draft.Phone, total, now, window)
	f.Stage = StagePaymentVerification
	return true
}

// MarkVerified flips the payment session to verified. Idempotent: a second
// verification signal is absorbed.
func (f *Flow) MarkVerified() {
	if f.Payment != nil {
		f.Payment.Verified = true
	}
}

// Complete closes the flow exactly once. A second call reports the flow as
// closed so a racing confirmation cannot re-finalize.
func (f *Flow) Complete() error {
	if f.Status.IsTerminal() {
		return ErrFlowClosed
	}
	f.Status = FlowCompleted
	return nil
}

// Abandon closes the flow without payment. The created order keeps its last
// (unpaid) status; there is no rollback.
func (f *Flow) Abandon() error {
	if f.Status.IsTerminal() {
		return ErrFlowClosed
	}
	f.Status = FlowAbandoned
	return nil
}
