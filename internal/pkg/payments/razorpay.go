package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/latpategaurav/blu/internal/pkg/env"
)

const defaultRazorpayAPIBaseURL = "https://api.razorpay.com/v1"

// GatewayClient creates hosted checkout orders at the payment gateway.
type GatewayClient interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*GatewayOrder, error)
}

// CreateOrderInput is the order the gateway is asked to host. Amount is in
// paise; Notes travel with the order and come back on webhooks, which is what
// makes metadata-based reconciliation possible.
type CreateOrderInput struct {
	AmountPaise int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// GatewayOrder is the gateway's view of a created order.
type GatewayOrder struct {
	ID          string `json:"id"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Status      string `json:"status"`
}

type RazorpayClient struct {
	KeyID      string
	KeySecret  string
	APIBaseURL string

	HTTPClient *http.Client
}

func NewRazorpayClientFromEnv() *RazorpayClient {
	return &RazorpayClient{
		KeyID:      strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		KeySecret:  strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_SECRET", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("RAZORPAY_API_BASE_URL", defaultRazorpayAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder calls the Razorpay Orders API with basic auth. No local state
// is touched here; a failure surfaces as *GatewayError and the caller may
// retry.
func (c *RazorpayClient) CreateOrder(ctx context.Context, in CreateOrderInput) (*GatewayOrder, error) {
	if strings.TrimSpace(c.KeyID) == "" || strings.TrimSpace(c.KeySecret) == "" {
		return nil, &GatewayError{Op: "create order", Err: errors.New("RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET are not configured")}
	}
	if in.AmountPaise <= 0 {
		return nil, &GatewayError{Op: "create order", Err: fmt.Errorf("invalid amount %d", in.AmountPaise)}
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, &GatewayError{Op: "create order", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, &GatewayError{Op: "create order", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: "create order", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &GatewayError{Op: "create order", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{Op: "create order", Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))}
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, &GatewayError{Op: "create order", Err: fmt.Errorf("decode response: %w", err)}
	}
	if order.ID == "" {
		return nil, &GatewayError{Op: "create order", Err: errors.New("gateway returned no order id")}
	}
	return &order, nil
}
