package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jengamart/internal/checkout"
)

// Client talks to the remote order service, which owns order persistence,
// stock adjustment and invoice generation.
type Client struct {
	http    *http.Client
	baseURL string
}

type Config struct {
	BaseURL        string
	RequestTimeout int // seconds
}

type IOrders interface {
	CreateOrder(ctx context.Context, sub checkout.OrderSubmission) (int64, error)
	GetReceipt(ctx context.Context, orderID int64) ([]byte, error)
}

// RemoteError carries the order service's own error detail so it can be
// surfaced to the customer verbatim.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("order service returned status %d", e.StatusCode)
}

func Setup(cfg *Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL: cfg.BaseURL,
	}
}

type createOrderResponse struct {
	ID int64 `json:"id"`
}

func (c *Client) CreateOrder(ctx context.Context, sub checkout.OrderSubmission) (int64, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return 0, fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders/", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return 0, remoteError(resp)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode order response: %w", err)
	}
	return out.ID, nil
}

// GetReceipt fetches the order's receipt PDF. Callers treat failure as
// non-fatal.
func (c *Client) GetReceipt(ctx context.Context, orderID int64) ([]byte, error) {
	url := fmt.Sprintf("%s/orders/%d/receipt", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}

	return io.ReadAll(resp.Body)
}

func remoteError(resp *http.Response) error {
	detail := struct {
		Detail string `json:"detail"`
	}{}
	_ = json.NewDecoder(resp.Body).Decode(&detail)
	return &RemoteError{StatusCode: resp.StatusCode, Detail: detail.Detail}
}
