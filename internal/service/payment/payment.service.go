package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"jengamart/internal/checkout"
	"jengamart/internal/common/enum"
	"jengamart/internal/common/models"
	types "jengamart/internal/common/type"
	"jengamart/internal/pkg/clock"
	"jengamart/internal/pkg/helper"
	"jengamart/internal/pkg/logger"
	mpesaPkg "jengamart/internal/pkg/mpesa"
	"jengamart/internal/repository/flowsession"
	checkoutService "jengamart/internal/service/checkout"
)

// VerifyCode runs the manual confirmation path: local gates first (code
// length, payment window), then the remote verification call. A verified
// payment finalizes the checkout; only the first confirmation wins.
func (s *Service) VerifyCode(flowID string, req *VerifyCodeRequest) *types.Response {
	resp, verified := s.verifyLocked(flowID, req)
	if !verified {
		return resp
	}
	return s.checkout.Finalize(flowID)
}

func (s *Service) verifyLocked(flowID string, req *VerifyCodeRequest) (*types.Response, bool) {
	unlock := s.locks.Lock(flowID)
	defer unlock()

	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp, false
	}
	if errResp := requireSession(flow); errResp != nil {
		return errResp, false
	}

	sess := flow.Payment
	code := helper.NormalizeConfirmationCode(req.Code)
	if err := sess.CheckManualCode(code, s.clock.Now()); err != nil {
		return checkoutService.DomainError(err), false
	}

	_, err := s.mpesa.VerifyPayment(s.ctx, sess.OrderID, code, sess.Phone)
	if err != nil {
		s.recordAttempt(flow, enum.MANUAL_CODE, code, "", false, err.Error())

		var verr *mpesaPkg.VerificationError
		if errors.As(err, &verr) {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusPaymentRequired,
				Message: verr.Error(),
				Error:   err,
			}), false
		}
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadGateway,
			Message: "Failed to verify payment",
			Error:   err,
		}), false
	}

	s.recordAttempt(flow, enum.MANUAL_CODE, code, "", true, "code accepted")

	flow.MarkVerified()
	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		}), false
	}

	return nil, true
}

// RequestPush asks the payment service to send an STK push to the customer's
// phone, then polls for confirmation in the background. One push at a time;
// manual code entry stays available while the poll runs.
func (s *Service) RequestPush(flowID string, req *PushRequest) *types.Response {
	unlock := s.locks.Lock(flowID)
	defer unlock()

	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}
	if errResp := requireSession(flow); errResp != nil {
		return errResp
	}

	sess := flow.Payment
	if sess.Verified {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusConflict,
			Message: "Payment already verified",
		})
	}
	if sess.PushPending {
		return checkoutService.DomainError(checkout.ErrPushActive)
	}
	if sess.Expired(s.clock.Now()) {
		return checkoutService.DomainError(checkout.ErrPaymentExpired)
	}

	phone := req.PhoneNumber
	if phone == "" {
		phone = sess.Phone
	}

	pushID, err := s.mpesa.RequestPush(s.ctx, sess.OrderID, phone, sess.Amount)
	if err != nil {
		s.recordAttempt(flow, enum.PUSH_POLL, "", "", false, err.Error())

		var verr *mpesaPkg.VerificationError
		if errors.As(err, &verr) {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusPaymentRequired,
				Message: verr.Error(),
				Error:   err,
			})
		}
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadGateway,
			Message: "Failed to request payment",
			Error:   err,
		})
	}

	if err := sess.BeginPush(pushID); err != nil {
		return checkoutService.DomainError(err)
	}
	s.recordAttempt(flow, enum.PUSH_POLL, "", pushID, true, "push sent")

	if err := s.rp.FlowSession.Save(flow); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save checkout flow",
			Error:   err,
		})
	}

	orderID := sess.OrderID
	err = s.pollers.Start(s.ctx, flowID, s.pollInterval, func(ctx context.Context) bool {
		return s.pollOnce(ctx, flowID, orderID)
	})
	if err != nil {
		logger.Error.Printf("Failed to start poll for flow %s: %v", flowID, err)
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusAccepted,
		Message: "Payment request sent to your phone",
		Data:    statusOf(flow, s.clock),
	})
}

// pollOnce is one status check. Errors are logged and the loop keeps going;
// the poll outlives the payment window and only stops on confirmation or
// cancellation.
func (s *Service) pollOnce(ctx context.Context, flowID string, orderID int64) bool {
	verified, err := s.mpesa.PushStatus(ctx, orderID)
	if err != nil {
		logger.Warning.Printf("Push status check for order %d failed: %v", orderID, err)
		return false
	}
	if !verified {
		return false
	}

	s.completePush(flowID)
	return true
}

func (s *Service) completePush(flowID string) {
	unlock := s.locks.Lock(flowID)

	flow, err := s.rp.FlowSession.Find(flowID)
	if err != nil {
		unlock()
		logger.Error.Printf("Failed to load flow %s after push confirmation: %v", flowID, err)
		return
	}

	// A poll result that lost the race against Cancel or an earlier
	// confirmation must not touch the closed flow.
	if flow.Status.IsTerminal() {
		unlock()
		return
	}

	if flow.Payment != nil {
		flow.Payment.EndPush()
		flow.MarkVerified()
		s.recordAttempt(flow, enum.PUSH_POLL, "", flow.Payment.PushID, true, "push confirmed")
	}

	if err := s.rp.FlowSession.Save(flow); err != nil {
		logger.Error.Printf("Failed to save flow %s after push confirmation: %v", flowID, err)
	}
	unlock()

	if resp := s.checkout.Finalize(flowID); resp.Code >= http.StatusBadRequest && resp.Code != http.StatusConflict {
		logger.Error.Printf("Failed to finalize flow %s after push confirmation: %s", flowID, resp.Message)
	}
}

func (s *Service) Status(flowID string) *types.Response {
	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}
	if flow.Payment == nil {
		return checkoutService.DomainError(checkout.ErrNotAwaitingPayment)
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: statusOf(flow, s.clock),
	})
}

func (s *Service) Instructions(flowID string) *types.Response {
	flow, errResp := s.load(flowID)
	if errResp != nil {
		return errResp
	}
	if flow.Payment == nil {
		return checkoutService.DomainError(checkout.ErrNotAwaitingPayment)
	}

	sess := flow.Payment
	business := s.mpesa.BusinessNumber()
	display := helper.FormatKES(sess.Amount)
	reference := fmt.Sprintf("%d", sess.OrderID)

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: InstructionsResponse{
			BusinessNumber: business,
			Reference:      reference,
			Amount:         sess.Amount,
			AmountDisplay:  display,
			Steps: []string{
				"Go to M-PESA on your phone and select Pay Bill",
				fmt.Sprintf("Enter business number %s", business),
				fmt.Sprintf("Enter account number %s", reference),
				fmt.Sprintf("Enter amount %s", display),
				"Enter your M-PESA PIN and confirm",
				"Enter the confirmation code you receive below",
			},
		},
	})
}

func (s *Service) recordAttempt(flow *checkout.Flow, mode enum.PaymentModeEnum, code, pushID string, accepted bool, message string) {
	attempt := &models.PaymentAttempt{
		FlowID:   flow.ID,
		OrderID:  flow.Payment.OrderID,
		Mode:     mode,
		Code:     code,
		PushID:   pushID,
		Accepted: accepted,
		Message:  message,
	}
	if err := s.rp.Checkout.RecordAttempt(s.ctx, attempt); err != nil {
		logger.Warning.Printf("Failed to record payment attempt for flow %s: %v", flow.ID, err)
	}
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

func requireSession(flow *checkout.Flow) *types.Response {
	if flow.Status.IsTerminal() || flow.Stage != checkout.StagePaymentVerification || flow.Payment == nil {
		return checkoutService.DomainError(checkout.ErrNotAwaitingPayment)
	}
	return nil
}

func statusOf(flow *checkout.Flow, clk clock.Clock) StatusResponse {
	sess := flow.Payment
	now := clk.Now()
	return StatusResponse{
		Mode:             string(sess.Mode),
		Verified:         sess.Verified,
		PushPending:      sess.PushPending,
		RemainingSeconds: sess.Remaining(now),
		Expired:          sess.Expired(now),
	}
}
