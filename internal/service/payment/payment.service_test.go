package payment

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"jengamart/internal/common/enum"
	"jengamart/internal/pkg/clock"
	mpesaPkg "jengamart/internal/pkg/mpesa"
	"jengamart/internal/pkg/poller"
	"jengamart/internal/repository"
	"jengamart/internal/repository/flowsession"
	checkoutService "jengamart/internal/service/checkout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMpesa struct {
	mu           sync.Mutex
	verifyErr    error
	verifyCalls  int
	pushID       string
	pushErr      error
	pushCalls    int
	statusCalls  int
	statusScript func(call int) (bool, error)
}

func (m *stubMpesa) VerifyPayment(_ context.Context, _ int64, _, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyCalls++
	if m.verifyErr != nil {
		return false, m.verifyErr
	}
	return true, nil
}

func (m *stubMpesa) RequestPush(_ context.Context, _ int64, _ string, _ int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushCalls++
	if m.pushErr != nil {
		return "", m.pushErr
	}
	if m.pushID == "" {
		return "push_001", nil
	}
	return m.pushID, nil
}

func (m *stubMpesa) PushStatus(_ context.Context, _ int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls++
	if m.statusScript == nil {
		return false, nil
	}
	return m.statusScript(m.statusCalls)
}

func (m *stubMpesa) BusinessNumber() string { return "542542" }

func (m *stubMpesa) statusCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusCalls
}

type paymentFixture struct {
	svc       IService
	checkout  checkoutService.IService
	store     *memStore
	repo      *recordRepo
	publisher *stubPublisher
	mpesa     *stubMpesa
	clock     *clock.Fixed
}

func newPaymentFixture(t *testing.T, pollInterval time.Duration) *paymentFixture {
	t.Helper()

	store := newMemStore()
	repo := &recordRepo{}
	orders := &stubOrders{orderID: 77}
	publisher := &stubPublisher{}
	mpesa := &stubMpesa{}
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	pollers, err := poller.NewRegistry(4)
	require.NoError(t, err)
	t.Cleanup(pollers.Release)

	rp := repository.IRepository{Checkout: repo, FlowSession: store}
	locks := flowsession.NewKeyedMutex()

	checkoutSvc := checkoutService.NewService(
		context.Background(), rp, orders, publisher, nil, pollers, locks, clk,
		checkoutService.Options{ShippingFee: 500, PaymentWindow: 5 * time.Minute},
	)

	svc := NewService(context.Background(), rp, mpesa, checkoutSvc, pollers, locks, clk, pollInterval)

	return &paymentFixture{
		svc: svc, checkout: checkoutSvc, store: store, repo: repo,
		publisher: publisher, mpesa: mpesa, clock: clk,
	}
}

// awaitingPayment drives a mobile-money checkout into stage 4.
func (f *paymentFixture) awaitingPayment(t *testing.T) string {
	t.Helper()

	resp := f.checkout.StartCheckout(&checkoutService.StartCheckoutRequest{Items: cartItems()})
	require.Equal(t, http.StatusCreated, resp.Code)
	flowID := resp.Data.(checkoutService.FlowState).FlowID

	require.Equal(t, http.StatusOK, f.checkout.SaveDraft(flowID, draft(enum.MOBILE_MONEY)).Code)
	require.Equal(t, http.StatusOK, f.checkout.Next(flowID).Code)
	require.Equal(t, http.StatusOK, f.checkout.Next(flowID).Code)
	require.Equal(t, http.StatusCreated, f.checkout.Submit(flowID).Code)

	return flowID
}

func (f *paymentFixture) flowStatus(t *testing.T, flowID string) string {
	t.Helper()
	flow, err := f.store.Find(flowID)
	require.NoError(t, err)
	return string(flow.Status)
}

func TestVerifyCodeTooShort(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	resp := f.svc.VerifyCode(flowID, &VerifyCodeRequest{Code: "AB12C"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, f.mpesa.verifyCalls)
}

func TestVerifyCodeAccepted(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	resp := f.svc.VerifyCode(flowID, &VerifyCodeRequest{Code: "qh4rt8k9l2"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, f.mpesa.verifyCalls)
	assert.Equal(t, "COMPLETED", f.flowStatus(t, flowID))
	assert.Equal(t, []string{flowID}, f.repo.paid)
	assert.Equal(t, 1, f.publisher.published("checkout.completed"))

	require.Len(t, f.repo.attempts, 1)
	assert.True(t, f.repo.attempts[0].Accepted)
	assert.Equal(t, "QH4RT8K9L2", f.repo.attempts[0].Code)
}

func TestVerifyCodeRejectedAllowsRetry(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	f.mpesa.verifyErr = &mpesaPkg.VerificationError{Detail: "code not found"}
	resp := f.svc.VerifyCode(flowID, &VerifyCodeRequest{Code: "QH4RT8K9L2"})
	assert.Equal(t, http.StatusPaymentRequired, resp.Code)
	assert.Equal(t, "code not found", resp.Message)
	assert.Equal(t, "ACTIVE", f.flowStatus(t, flowID))

	require.Len(t, f.repo.attempts, 1)
	assert.False(t, f.repo.attempts[0].Accepted)

	f.mpesa.verifyErr = nil
	resp = f.svc.VerifyCode(flowID, &VerifyCodeRequest{Code: "QH4RT8K9L2"})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestVerifyCodeGatewayFailure(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	f.mpesa.verifyErr = errors.New("timeout")
	resp := f.svc.VerifyCode(flowID, &VerifyCodeRequest{Code: "QH4RT8K9L2"})
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Equal(t, "ACTIVE", f.flowStatus(t, flowID))
}

func TestVerifyCodeAfterExpiry(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	f.clock.Advance(5 * time.Minute)
	resp := f.svc.VerifyCode(flowID, &VerifyCodeRequest{Code: "QH4RT8K9L2"})
	assert.Equal(t, http.StatusGone, resp.Code)
	assert.Equal(t, 0, f.mpesa.verifyCalls)
}

func TestVerifyBeforeSubmit(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)

	resp := f.checkout.StartCheckout(&checkoutService.StartCheckoutRequest{Items: cartItems()})
	flowID := resp.Data.(checkoutService.FlowState).FlowID

	verify := f.svc.VerifyCode(flowID, &VerifyCodeRequest{Code: "QH4RT8K9L2"})
	assert.Equal(t, http.StatusConflict, verify.Code)
}

func TestRequestPushOnlyOneAtATime(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	resp := f.svc.RequestPush(flowID, &PushRequest{})
	require.Equal(t, http.StatusAccepted, resp.Code)
	assert.Equal(t, 1, f.mpesa.pushCalls)

	resp = f.svc.RequestPush(flowID, &PushRequest{})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, 1, f.mpesa.pushCalls)
}

func TestPushPollConfirmsAfterRetries(t *testing.T) {
	f := newPaymentFixture(t, 10*time.Millisecond)
	flowID := f.awaitingPayment(t)

	// Two transient failures, one pending answer, then confirmation. The
	// loop has to ride out the errors.
	f.mpesa.statusScript = func(call int) (bool, error) {
		switch {
		case call <= 2:
			return false, errors.New("gateway flapping")
		case call == 3:
			return false, nil
		default:
			return true, nil
		}
	}

	require.Equal(t, http.StatusAccepted, f.svc.RequestPush(flowID, &PushRequest{}).Code)

	require.Eventually(t, func() bool {
		return f.flowStatus(t, flowID) == "COMPLETED"
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{flowID}, f.repo.paid)
	assert.Equal(t, 1, f.publisher.published("checkout.completed"))
	assert.GreaterOrEqual(t, f.mpesa.statusCallCount(), 4)
}

func TestPushPollSurvivesExpiry(t *testing.T) {
	f := newPaymentFixture(t, 10*time.Millisecond)
	flowID := f.awaitingPayment(t)

	f.mpesa.statusScript = func(call int) (bool, error) {
		return call >= 3, nil
	}

	require.Equal(t, http.StatusAccepted, f.svc.RequestPush(flowID, &PushRequest{}).Code)

	// The payment window lapses while the poll is in flight; the loop is
	// not torn down and still confirms.
	f.clock.Advance(10 * time.Minute)

	require.Eventually(t, func() bool {
		return f.flowStatus(t, flowID) == "COMPLETED"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestCancelStopsPolling(t *testing.T) {
	f := newPaymentFixture(t, 10*time.Millisecond)
	flowID := f.awaitingPayment(t)

	require.Equal(t, http.StatusAccepted, f.svc.RequestPush(flowID, &PushRequest{}).Code)

	require.Eventually(t, func() bool {
		return f.mpesa.statusCallCount() > 0
	}, 2*time.Second, 5*time.Millisecond)

	require.Equal(t, http.StatusOK, f.checkout.Cancel(flowID).Code)

	calls := f.mpesa.statusCallCount()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, f.mpesa.statusCallCount(), calls+1)
	assert.Equal(t, "ABANDONED", f.flowStatus(t, flowID))
}

func TestLatePushResultAfterCancel(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	require.Equal(t, http.StatusAccepted, f.svc.RequestPush(flowID, &PushRequest{}).Code)
	require.Equal(t, http.StatusOK, f.checkout.Cancel(flowID).Code)

	// A status check already past the gateway delivers its result after the
	// cancel; the abandoned flow must stay untouched.
	f.svc.(*Service).completePush(flowID)

	assert.Equal(t, "ABANDONED", f.flowStatus(t, flowID))
	flow, err := f.store.Find(flowID)
	require.NoError(t, err)
	assert.False(t, flow.Payment.Verified)
	assert.Len(t, f.repo.attempts, 1) // the "push sent" row only
	assert.Equal(t, 0, f.publisher.published("checkout.completed"))
	assert.Empty(t, f.repo.paid)
}

func TestPushAfterExpiry(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	f.clock.Advance(6 * time.Minute)
	resp := f.svc.RequestPush(flowID, &PushRequest{})
	assert.Equal(t, http.StatusGone, resp.Code)
	assert.Equal(t, 0, f.mpesa.pushCalls)
}

func TestStatusCountdown(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	resp := f.svc.Status(flowID)
	require.Equal(t, http.StatusOK, resp.Code)
	st := resp.Data.(StatusResponse)
	assert.Equal(t, 300, st.RemainingSeconds)
	assert.False(t, st.Expired)

	f.clock.Advance(40 * time.Second)
	st = f.svc.Status(flowID).Data.(StatusResponse)
	assert.Equal(t, 260, st.RemainingSeconds)

	f.clock.Advance(5 * time.Minute)
	st = f.svc.Status(flowID).Data.(StatusResponse)
	assert.Equal(t, 0, st.RemainingSeconds)
	assert.True(t, st.Expired)
}

func TestInstructions(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	flowID := f.awaitingPayment(t)

	resp := f.svc.Instructions(flowID)
	require.Equal(t, http.StatusOK, resp.Code)

	inst := resp.Data.(InstructionsResponse)
	assert.Equal(t, "542542", inst.BusinessNumber)
	assert.Equal(t, "77", inst.Reference)
	assert.Equal(t, int64(2500), inst.Amount)
	assert.Equal(t, "KES 2,500", inst.AmountDisplay)
	assert.NotEmpty(t, inst.Steps)
}
