package checkout

import (
	"errors"
	"fmt"
	"net/http"

	"jengamart/internal/checkout"
	"jengamart/internal/common/models"
	types "jengamart/internal/common/type"
	"jengamart/internal/pkg/helper"
	"jengamart/internal/pkg/logger"
	ordersPkg "jengamart/internal/pkg/orders"
	"jengamart/internal/repository/flowsession"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/samber/lo"
)

func (s *Service) StartCheckout(req *StartCheckoutRequest) *types.Response {
	lines := lo.Map(req.Items, func(item ItemRequest, _ int) checkout.CartLine {
		return checkout.CartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Qty:       item.Qty,
		}
	})

	id, err := gonanoid.New()
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to start checkout",
			Error:   err,
		})
	}
	flowID := fmt.Sprintf("chk_%s", id)

	flow := checkout.NewFlow(flowID, lines, s.clock.Now())
	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Checkout started",
		Data:    s.state(flow),
	})
}

func (s *Service) GetFlow(flowID string) *types.Response {
	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: s.state(flow),
	})
}

func (s *Service) SaveDraft(flowID string, req *DraftRequest) *types.Response {
	unlock := s.locks.Lock(flowID)
	defer unlock()

	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}

	draft := checkout.Draft{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if err := flow.SetDraft(draft); err != nil {
		return DomainError(err)
	}

	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Draft saved",
		Data:    s.state(flow),
	})
}

func (s *Service) Next(flowID string) *types.Response {
	unlock := s.locks.Lock(flowID)
	defer unlock()

	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}

	if err := flow.Next(); err != nil {
		return DomainError(err)
	}

	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: s.state(flow),
	})
}

func (s *Service) Back(flowID string) *types.Response {
	unlock := s.locks.Lock(flowID)
	defer unlock()

	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}

	flow.Back()

	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: s.state(flow),
	})
}

// Submit places the order with the order service. The flow is flagged while
// the call is in flight so a double click cannot create two orders; a failed
// call leaves the flow on the review stage for a retry.
func (s *Service) Submit(flowID string) *types.Response {
	unlock := s.locks.Lock(flowID)
	defer unlock()

	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}

	if !flow.Draft.PaymentMethod.IsValid() {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Payment method is required",
		})
	}

	if err := flow.BeginSubmit(); err != nil {
		return DomainError(err)
	}
	if err := s.rp.FlowSession.Save(flow); err != nil {
		flow.FailSubmit()
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	sub := flow.Submission(s.shippingFee)
	orderID, err := s.orders.CreateOrder(s.ctx, sub)
	if err != nil {
		flow.FailSubmit()
		if saveErr := s.rp.FlowSession.Save(flow); saveErr != nil {
			logger.Error.Printf("Failed to save flow %s after order failure: %v", flow.ID, saveErr)
		}

		var remote *ordersPkg.RemoteError
		if errors.As(err, &remote) {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusBadGateway,
				Message: remote.Error(),
				Error:   err,
			})
		}
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadGateway,
			Message: "Failed to place order",
			Error:   err,
		})
	}

	needsVerification := flow.CompleteSubmit(orderID, s.shippingFee, s.clock.Now(), s.paymentWindow)

	items, _ := helper.JSONToByte(flow.Cart)
	record := &models.CheckoutRecord{
		FlowID:          flow.ID,
		OrderID:         orderID,
		CustomerName:    flow.Draft.Name,
		CustomerPhone:   flow.Draft.Phone,
		CustomerEmail:   flow.Draft.Email,
		DeliveryAddress: flow.Draft.DeliveryAddress(),
		PaymentMethod:   flow.Draft.PaymentMethod,
		TotalAmount:     sub.TotalAmount,
		Items:           models.JSONB(items),
	}
	if err := s.rp.Checkout.CreateRecord(s.ctx, record); err != nil {
		logger.Error.Printf("Failed to record checkout %s: %v", flow.ID, err)
	}

	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	if !needsVerification {
		return s.finalizeLocked(flow)
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Order placed, awaiting payment confirmation",
		Data:    s.state(flow),
	})
}

// Finalize closes a flow whose payment has been confirmed (or that never
// needed confirmation). Safe to call from racing confirmation paths; only
// the first caller completes the flow.
func (s *Service) Finalize(flowID string) *types.Response {
	unlock := s.locks.Lock(flowID)
	defer unlock()

	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}

	if flow.OrderID == 0 {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusConflict,
			Message: "No order to finalize",
		})
	}
	if flow.Payment != nil && !flow.Payment.Verified {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusPaymentRequired,
			Message: "Payment has not been verified",
		})
	}

	return s.finalizeLocked(flow)
}

// Cancel abandons the flow. A created order keeps its unpaid status on the
// order service side; there is no rollback.
func (s *Service) Cancel(flowID string) *types.Response {
	unlock := s.locks.Lock(flowID)
	defer unlock()

	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}

	if err := flow.Abandon(); err != nil {
		return DomainError(err)
	}

	s.pollers.Stop(flow.ID)

	if flow.OrderID != 0 {
		if err := s.rp.Checkout.MarkAbandoned(s.ctx, flow.ID); err != nil {
			logger.Error.Printf("Failed to mark checkout %s abandoned: %v", flow.ID, err)
		}
	}

	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	s.publish("checkout.abandoned", CompletedEvent{
		FlowID:        flow.ID,
		OrderID:       flow.OrderID,
		PaymentMethod: flow.Draft.PaymentMethod,
		TotalAmount:   checkout.Summarize(flow.Cart, s.shippingFee).Total,
		Paid:          false,
		OccurredAt:    s.clock.Now(),
	})

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Checkout cancelled",
		Data:    s.state(flow),
	})
}

// GetRecord returns the audit row for a submitted checkout. Staff only.
func (s *Service) GetRecord(flowID string) *types.Response {
	record, err := s.rp.Checkout.FindByFlowID(s.ctx, flowID)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Checkout record not found",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: record,
	})
}

func (s *Service) finalizeLocked(flow *checkout.Flow) *types.Response {
	if err := flow.Complete(); err != nil {
		return DomainError(err)
	}

	s.pollers.Stop(flow.ID)

	paid := flow.Payment != nil && flow.Payment.Verified
	if paid {
		if err := s.rp.Checkout.MarkPaid(s.ctx, flow.ID, s.clock.Now()); err != nil {
			logger.Error.Printf("Failed to mark checkout %s paid: %v", flow.ID, err)
		}
	}

	state := s.state(flow)

	// Customers without an email get no confirmation mail; archive the
	// receipt and hand back a link instead.
	if flow.Draft.Email == "" && flow.OrderID != 0 {
		state.ReceiptURL = s.archiveReceipt(flow.OrderID)
	}

	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	s.publish("checkout.completed", CompletedEvent{
		FlowID:        flow.ID,
		OrderID:       flow.OrderID,
		PaymentMethod: flow.Draft.PaymentMethod,
		TotalAmount:   checkout.Summarize(flow.Cart, s.shippingFee).Total,
		Paid:          paid,
		OccurredAt:    s.clock.Now(),
	})

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Checkout completed",
		Data:    state,
	})
}

func (s *Service) archiveReceipt(orderID int64) string {
	pdf, err := s.orders.GetReceipt(s.ctx, orderID)
	if err != nil {
		logger.Warning.Printf("Failed to fetch receipt for order %d: %v", orderID, err)
		return ""
	}

	if s.s3 == nil {
		return ""
	}

	key := fmt.Sprintf("receipts/order_%d.pdf", orderID)
	if err := s.s3.UploadFile(key, pdf, "application/pdf"); err != nil {
		logger.Warning.Printf("Failed to archive receipt for order %d: %v", orderID, err)
		return ""
	}

	url, err := s.s3.GetPresignedURL(key)
	if err != nil {
		logger.Warning.Printf("Failed to presign receipt for order %d: %v", orderID, err)
		return ""
	}
	return url
}

func (s *Service) publish(pattern string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(s.eventsQueue, pattern, payload); err != nil {
		logger.Error.Printf("Failed to publish %s for queue %s: %v", pattern, s.eventsQueue, err)
	}
}

func (s *Service) state(flow *checkout.Flow) FlowState {
	state := FlowState{
		FlowID:    flow.ID,
		Status:    string(flow.Status),
		Stage:     int(flow.Stage),
		StageName: flow.Stage.String(),
		Draft:     flow.Draft,
		Cart:      flow.Cart,
		Summary:   checkout.Summarize(flow.Cart, s.shippingFee),
		OrderID:   flow.OrderID,
	}

	if flow.Payment != nil {
		now := s.clock.Now()
		state.Payment = &PaymentState{
			Mode:             string(flow.Payment.Mode),
			Amount:           flow.Payment.Amount,
			AmountDisplay:    helper.FormatKES(flow.Payment.Amount),
			RemainingSeconds: flow.Payment.Remaining(now),
			Expired:          flow.Payment.Expired(now),
			Verified:         flow.Payment.Verified,
			PushPending:      flow.Payment.PushPending,
		}
	}

	return state
}

func (s *Service) load(flowID string) (*checkout.Flow, *types.Response) {
	flow, err := s.rp.FlowSession.Find(flowID)
	if err != nil {
		if errors.Is(err, flowsession.ErrNotFound) {
			return nil, helper.ParseResponse(&types.Response{
				Code:    http.StatusNotFound,
				Message: "Checkout flow not found",
				Error:   err,
			})
		}
		return nil, helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load checkout flow",
			Error:   err,
		})
	}
	return flow, nil
}

// DomainError maps a checkout domain error onto the response envelope.
func DomainError(err error) *types.Response {
	code := http.StatusBadRequest
	switch {
	case errors.Is(err, checkout.ErrSubmitInFlight),
		errors.Is(err, checkout.ErrAlreadySubmitted),
		errors.Is(err, checkout.ErrPushActive),
		errors.Is(err, checkout.ErrNotAwaitingPayment),
		errors.Is(err, checkout.ErrFlowClosed):
		code = http.StatusConflict
	case errors.Is(err, checkout.ErrIncompleteCustomerInfo),
		errors.Is(err, checkout.ErrIncompleteShipping):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrPaymentExpired):
		code = http.StatusGone
	case errors.Is(err, checkout.ErrEmptyCart):
		code = http.StatusUnprocessableEntity
	}
	return helper.ParseResponse(&types.Response{
		Code:    code,
		Message: err.Error(),
		Error:   err,
	})
}
