package checkout

import (
	"context"
	"time"

	"jengamart/internal/checkout"
	"jengamart/internal/common/enum"
	types "jengamart/internal/common/type"
	"jengamart/internal/pkg/clock"
	ordersPkg "jengamart/internal/pkg/orders"
	"jengamart/internal/pkg/poller"
	s3aws "jengamart/internal/pkg/storage/s3"
	"jengamart/internal/repository"
	"jengamart/internal/repository/flowsession"
)

// EventPublisher is the slice of the rabbitmq publisher the service needs.
type EventPublisher interface {
	Publish(queueName, pattern string, payload interface{}) error
}

type Service struct {
	ctx           context.Context
	rp            repository.IRepository
	orders        ordersPkg.IOrders
	publisher     EventPublisher
	s3            s3aws.Is3
	pollers       *poller.Registry
	locks         *flowsession.KeyedMutex
	clock         clock.Clock
	shippingFee   int64
	paymentWindow time.Duration
	eventsQueue   string
}

type IService interface {
	StartCheckout(req *StartCheckoutRequest) *types.Response
	GetFlow(flowID string) *types.Response
	SaveDraft(flowID string, req *DraftRequest) *types.Response
	Next(flowID string) *types.Response
	Back(flowID string) *types.Response
	Submit(flowID string) *types.Response
	Finalize(flowID string) *types.Response
	Cancel(flowID string) *types.Response
	GetRecord(flowID string) *types.Response
}

type Options struct {
	ShippingFee   int64
	PaymentWindow time.Duration
	EventsQueue   string
}

func NewService(
	ctx context.Context,
	rp repository.IRepository,
	orders ordersPkg.IOrders,
	publisher EventPublisher,
	s3 s3aws.Is3,
	pollers *poller.Registry,
	locks *flowsession.KeyedMutex,
	clk clock.Clock,
	opts Options,
) IService {
	if opts.PaymentWindow <= 0 {
		opts.PaymentWindow = checkout.DefaultPaymentWindow
	}
	if opts.EventsQueue == "" {
		opts.EventsQueue = "checkout_events"
	}
	return &Service{
		ctx:           ctx,
		rp:            rp,
		orders:        orders,
		publisher:     publisher,
		s3:            s3,
		pollers:       pollers,
		locks:         locks,
		clock:         clk,
		shippingFee:   opts.ShippingFee,
		paymentWindow: opts.PaymentWindow,
		eventsQueue:   opts.EventsQueue,
	}
}

// Request/Response DTOs

type ItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Price     int64  `json:"price" binding:"required,gte=0"`
	Qty       int    `json:"qty" binding:"required,gte=1"`
}

type StartCheckoutRequest struct {
	Items []ItemRequest `json:"items"`
}

type DraftRequest struct {
	Name          string                 `json:"name"`
	Email         string                 `json:"email" binding:"omitempty,email"`
	Phone         string                 `json:"phone" binding:"omitempty,phone"`
	Address       string                 `json:"address"`
	City          string                 `json:"city"`
	PostalCode    string                 `json:"postal_code"`
	PaymentMethod enum.PaymentMethodEnum `json:"payment_method" binding:"omitempty,enum"`
	Notes         string                 `json:"notes"`
}

type PaymentState struct {
	Mode             string `json:"mode"`
	Amount           int64  `json:"amount"`
	AmountDisplay    string `json:"amount_display"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Expired          bool   `json:"expired"`
	Verified         bool   `json:"verified"`
	PushPending      bool   `json:"push_pending"`
}

type FlowState struct {
	FlowID     string              `json:"flow_id"`
	Status     string              `json:"status"`
	Stage      int                 `json:"stage"`
	StageName  string              `json:"stage_name"`
	Draft      checkout.Draft      `json:"draft"`
	Cart       []checkout.CartLine `json:"cart"`
	Summary    checkout.Summary    `json:"summary"`
	OrderID    int64               `json:"order_id,omitempty"`
	Payment    *PaymentState       `json:"payment,omitempty"`
	ReceiptURL string              `json:"receipt_url,omitempty"`
}

// CompletedEvent is the payload published when a flow reaches a terminal
// state.
type CompletedEvent struct {
	FlowID        string                 `json:"flow_id"`
	OrderID       int64                  `json:"order_id,omitempty"`
	PaymentMethod enum.PaymentMethodEnum `json:"payment_method,omitempty"`
	TotalAmount   int64                  `json:"total_amount"`
	Paid          bool                   `json:"paid"`
	OccurredAt    time.Time              `json:"occurred_at"`
}
