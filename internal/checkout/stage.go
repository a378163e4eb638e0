package checkout

// Stage is one step of the checkout wizard. Stages advance monotonically on
// successful validation and never skip; backward moves are always allowed.
type Stage int

const (
	StageCustomerInfo Stage = iota + 1
	StageShippingDetails
	StageReviewAndPayment
	StagePaymentVerification
)

func (s Stage) String() string {
	switch s {
	case StageCustomerInfo:
		return "customer_info"
	case StageShippingDetails:
		return "shipping_details"
	case StageReviewAndPayment:
		return "review_and_payment"
	case StagePaymentVerification:
		return "payment_verification"
	}
	return "unknown"
}

// FlowStatus is the lifecycle of one checkout attempt.
type FlowStatus string

const (
	FlowActive    FlowStatus = "ACTIVE"
	FlowCompleted FlowStatus = "COMPLETED"
	FlowAbandoned FlowStatus = "ABANDONED"
)

func (s FlowStatus) IsTerminal() bool {
	return s == FlowCompleted || s == FlowAbandoned
}

func (s FlowStatus) String() string {
	return string(s)
}
