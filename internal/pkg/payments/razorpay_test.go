package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestRazorpayClient(baseURL string) *RazorpayClient {
	return &RazorpayClient{
		KeyID:      "rzp_test_key",
		KeySecret:  "rzp_test_secret",
		APIBaseURL: baseURL,
		HTTPClient: http.DefaultClient,
	}
}

func TestRazorpayCreateOrder(t *testing.T) {
	var gotReq CreateOrderInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "rzp_test_secret" {
			t.Errorf("basic auth not forwarded, got %q/%q", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(GatewayOrder{
			ID:          "order_test123",
			AmountPaise: gotReq.AmountPaise,
			Currency:    gotReq.Currency,
			Receipt:     gotReq.Receipt,
			Status:      "created",
		})
	}))
	defer srv.Close()

	client := newTestRazorpayClient(srv.URL)
	order, err := client.CreateOrder(context.Background(), CreateOrderInput{
		AmountPaise: 5500000,
		Currency:    "INR",
		Receipt:     "booking_abc",
		Notes:       map[string]string{"booking_id": "abc"},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "order_test123" {
		t.Fatalf("unexpected order id %q", order.ID)
	}
	if order.AmountPaise != 5500000 || order.Currency != "INR" {
		t.Fatalf("order echoed wrong amount/currency: %+v", order)
	}
	if gotReq.Notes["booking_id"] != "abc" {
		t.Fatalf("notes not sent, got %+v", gotReq.Notes)
	}
}

func TestRazorpayCreateOrderGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	client := newTestRazorpayClient(srv.URL)
	_, err := client.CreateOrder(context.Background(), CreateOrderInput{AmountPaise: 100, Currency: "INR"})
	if err == nil {
		t.Fatal("expected error on 401 response")
	}
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *GatewayError, got %T: %v", err, err)
	}
}

func TestRazorpayCreateOrderValidation(t *testing.T) {
	client := newTestRazorpayClient("http://127.0.0.1:1")

	if _, err := client.CreateOrder(context.Background(), CreateOrderInput{AmountPaise: 0, Currency: "INR"}); err == nil {
		t.Fatal("expected error for zero amount")
	}

	client.KeySecret = ""
	if _, err := client.CreateOrder(context.Background(), CreateOrderInput{AmountPaise: 100, Currency: "INR"}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
