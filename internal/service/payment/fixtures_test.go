package payment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"jengamart/internal/checkout"
	"jengamart/internal/common/enum"
	"jengamart/internal/common/models"
	"jengamart/internal/repository/flowsession"
	checkoutService "jengamart/internal/service/checkout"
)

// memStore mimics the redis store with a JSON round trip so tests exercise
// the same serialization the real store does.
type memStore struct {
	mu    sync.Mutex
	flows map[string]string
}

func newMemStore() *memStore {
	return &memStore{flows: make(map[string]string)}
}

func (m *memStore) Save(flow *checkout.Flow) error {
	b, err := json.Marshal(flow)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[flow.ID] = string(b)
	return nil
}

func (m *memStore) Find(flowID string) (*checkout.Flow, error) {
	m.mu.Lock()
	payload, ok := m.flows[flowID]
	m.mu.Unlock()
	if !ok {
		return nil, flowsession.ErrNotFound
	}
	var flow checkout.Flow
	if err := json.Unmarshal([]byte(payload), &flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

func (m *memStore) Delete(flowID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, flowID)
	return nil
}

type recordRepo struct {
	mu        sync.Mutex
	records   []*models.CheckoutRecord
	attempts  []*models.PaymentAttempt
	paid      []string
	abandoned []string
}

func (r *recordRepo) CreateRecord(_ context.Context, record *models.CheckoutRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *recordRepo) FindByFlowID(_ context.Context, flowID string) (*models.CheckoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.FlowID == flowID {
			return rec, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *recordRepo) MarkPaid(_ context.Context, flowID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paid = append(r.paid, flowID)
	return nil
}

func (r *recordRepo) MarkAbandoned(_ context.Context, flowID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.abandoned = append(r.abandoned, flowID)
	return nil
}

func (r *recordRepo) RecordAttempt(_ context.Context, attempt *models.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return nil
}

type stubOrders struct {
	mu          sync.Mutex
	orderID     int64
	createErr   error
	createCalls int
}

func (o *stubOrders) CreateOrder(_ context.Context, _ checkout.OrderSubmission) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.createCalls++
	if o.createErr != nil {
		return 0, o.createErr
	}
	return o.orderID, nil
}

func (o *stubOrders) GetReceipt(_ context.Context, _ int64) ([]byte, error) {
	return nil, errors.New("no receipt in tests")
}

type stubPublisher struct {
	mu       sync.Mutex
	patterns []string
}

func (p *stubPublisher) Publish(_, pattern string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.patterns = append(p.patterns, pattern)
	return nil
}

func (p *stubPublisher) published(pattern string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, got := range p.patterns {
		if got == pattern {
			n++
		}
	}
	return n
}

func cartItems() []checkoutService.ItemRequest {
	return []checkoutService.ItemRequest{
		{ProductID: 1, Name: "Cement 50kg", Price: 1200, Qty: 1},
		{ProductID: 2, Name: "Steel rod", Price: 400, Qty: 2},
	}
}

func draft(method enum.PaymentMethodEnum) *checkoutService.DraftRequest {
	return &checkoutService.DraftRequest{
		Name:          "Wanjiku Kamau",
		Phone:         "+254712345678",
		Address:       "Moi Avenue 12",
		City:          "Nairobi",
		PostalCode:    "00100",
		PaymentMethod: method,
	}
}
