package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func signHex(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	const secret = "test_key_secret"
	valid := signHex("order_abc|pay_xyz", secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{name: "valid", orderID: "order_abc", paymentID: "pay_xyz", signature: valid, secret: secret, want: true},
		{name: "uppercase hex accepted", orderID: "order_abc", paymentID: "pay_xyz", signature: strings.ToUpper(valid), secret: secret, want: true},
		{name: "wrong secret", orderID: "order_abc", paymentID: "pay_xyz", signature: valid, secret: "other", want: false},
		{name: "swapped ids", orderID: "pay_xyz", paymentID: "order_abc", signature: valid, secret: secret, want: false},
		{name: "empty order id", orderID: "", paymentID: "pay_xyz", signature: valid, secret: secret, want: false},
		{name: "empty payment id", orderID: "order_abc", paymentID: "", signature: valid, secret: secret, want: false},
		{name: "empty signature", orderID: "order_abc", paymentID: "pay_xyz", signature: "", secret: secret, want: false},
		{name: "non-hex signature", orderID: "order_abc", paymentID: "pay_xyz", signature: "zz-not-hex", secret: secret, want: false},
		{name: "empty secret", orderID: "order_abc", paymentID: "pay_xyz", signature: valid, secret: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyPaymentSignature(tt.orderID, tt.paymentID, tt.signature, tt.secret)
			if got != tt.want {
				t.Fatalf("VerifyPaymentSignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	const secret = "test_webhook_secret"
	body := []byte(`{"event":"payment.captured"}`)
	valid := signHex(string(body), secret)

	if !VerifyWebhookSignature(body, valid, secret) {
		t.Fatal("expected valid webhook signature to verify")
	}
	if VerifyWebhookSignature(body, valid, "wrong") {
		t.Fatal("expected signature with wrong secret to fail")
	}
	if VerifyWebhookSignature([]byte(`{"event":"tampered"}`), valid, secret) {
		t.Fatal("expected tampered payload to fail")
	}
	if VerifyWebhookSignature(body, "", secret) {
		t.Fatal("expected empty signature to fail")
	}
	// Whitespace around the header value is tolerated.
	if !VerifyWebhookSignature(body, "  "+valid+"\n", secret) {
		t.Fatal("expected padded signature to verify")
	}
}
