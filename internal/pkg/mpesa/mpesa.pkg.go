package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the MPESA bridge of the order backend: manual code
// verification, STK push initiation and push status lookup.
type Client struct {
	http           *http.Client
	baseURL        string
	businessNumber string
}

type Config struct {
	BaseURL        string
	BusinessNumber string
	RequestTimeout int // seconds
}

type IMpesa interface {
	VerifyPayment(ctx context.Context, orderID int64, code, phone string) (bool, error)
	RequestPush(ctx context.Context, orderID int64, phone string, amount int64) (string, error)
	PushStatus(ctx context.Context, orderID int64) (bool, error)
	BusinessNumber() string
}

// VerificationError is a rejected confirmation code; the customer may
// correct the code and retry.
type VerificationError struct {
	Detail string
}

func (e *VerificationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "payment verification failed"
}

func Setup(cfg *Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		http:           &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL:        cfg.BaseURL,
		businessNumber: cfg.BusinessNumber,
	}
}

func (c *Client) BusinessNumber() string {
	return c.businessNumber
}

type verifyRequest struct {
	MpesaCode   string `json:"mpesa_code"`
	PhoneNumber string `json:"phone_number"`
}

type verifyResponse struct {
	Verified bool   `json:"verified"`
	Detail   string `json:"detail"`
}

func (c *Client) VerifyPayment(ctx context.Context, orderID int64, code, phone string) (bool, error) {
	url := fmt.Sprintf("%s/orders/%d/verify-payment", c.baseURL, orderID)

	var out verifyResponse
	if err := c.post(ctx, url, verifyRequest{MpesaCode: code, PhoneNumber: phone}, &out); err != nil {
		return false, err
	}
	if !out.Verified {
		return false, &VerificationError{Detail: out.Detail}
	}
	return true, nil
}

type pushRequest struct {
	PhoneNumber string `json:"phone_number"`
	Amount      int64  `json:"amount"`
}

type pushResponse struct {
	RequestID string `json:"request_id"`
}

func (c *Client) RequestPush(ctx context.Context, orderID int64, phone string, amount int64) (string, error) {
	url := fmt.Sprintf("%s/orders/%d/mpesa/push", c.baseURL, orderID)

	var out pushResponse
	if err := c.post(ctx, url, pushRequest{PhoneNumber: phone, Amount: amount}, &out); err != nil {
		return "", err
	}
	if out.RequestID == "" {
		return "", fmt.Errorf("push request was not accepted")
	}
	return out.RequestID, nil
}

type statusResponse struct {
	PaymentVerified bool `json:"payment_verified"`
}

func (c *Client) PushStatus(ctx context.Context, orderID int64) (bool, error) {
	url := fmt.Sprintf("%s/orders/%d/mpesa/status", c.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, decodeError(resp)
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("failed to decode status response: %w", err)
	}
	return out.PaymentVerified, nil
}

func (c *Client) post(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return decodeError(resp)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		detail := decodeDetail(resp)
		return &VerificationError{Detail: detail}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeDetail(resp *http.Response) string {
	detail := struct {
		Detail string `json:"detail"`
	}{}
	_ = json.NewDecoder(resp.Body).Decode(&detail)
	return detail.Detail
}

func decodeError(resp *http.Response) error {
	if d := decodeDetail(resp); d != "" {
		return fmt.Errorf("payment service error: %s", d)
	}
	return fmt.Errorf("payment service returned status %d", resp.StatusCode)
}
