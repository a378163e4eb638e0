package payment

import (
	"context"
	"time"

	types "jengamart/internal/common/type"
	"jengamart/internal/pkg/clock"
	mpesaPkg "jengamart/internal/pkg/mpesa"
	"jengamart/internal/pkg/poller"
	"jengamart/internal/repository"
	"jengamart/internal/repository/flowsession"
	checkoutService "jengamart/internal/service/checkout"
)

// DefaultPollInterval is how often an accepted push request is checked
// against the payment service.
const DefaultPollInterval = 5 * time.Second

type Service struct {
	ctx          context.Context
	rp           repository.IRepository
	mpesa        mpesaPkg.IMpesa
	checkout     checkoutService.IService
	pollers      *poller.Registry
	locks        *flowsession.KeyedMutex
	clock        clock.Clock
	pollInterval time.Duration
}

type IService interface {
	VerifyCode(flowID string, req *VerifyCodeRequest) *types.Response
	RequestPush(flowID string, req *PushRequest) *types.Response
	Status(flowID string) *types.Response
	Instructions(flowID string) *types.Response
}

func NewService(
	ctx context.Context,
	rp repository.IRepository,
	mpesa mpesaPkg.IMpesa,
	checkout checkoutService.IService,
	pollers *poller.Registry,
	locks *flowsession.KeyedMutex,
	clk clock.Clock,
	pollInterval time.Duration,
) IService {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Service{
		ctx:          ctx,
		rp:           rp,
		mpesa:        mpesa,
		checkout:     checkout,
		pollers:      pollers,
		locks:        locks,
		clock:        clk,
		pollInterval: pollInterval,
	}
}

// Request/Response DTOs

type VerifyCodeRequest struct {
	Code string `json:"code" binding:"required,mpesacode"`
}

type PushRequest struct {
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
}

type StatusResponse struct {
	Mode             string `json:"mode"`
	Verified         bool   `json:"verified"`
	PushPending      bool   `json:"push_pending"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Expired          bool   `json:"expired"`
}

type InstructionsResponse struct {
	BusinessNumber string   `json:"business_number"`
	Reference      string   `json:"reference"`
	Amount         int64    `json:"amount"`
	AmountDisplay  string   `json:"amount_display"`
	Steps          []string `json:"steps"`
}
