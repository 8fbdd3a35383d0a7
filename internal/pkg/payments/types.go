package payments

import "encoding/json"

// Webhook event types the reconciler understands. Anything else is journaled
// and ignored.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderPaid       = "order.paid"
)

const ProviderRazorpay = "razorpay"

// OrderResult is everything the caller needs to render the hosted checkout
// button. It never carries a secret.
type OrderResult struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`

	BookingDetails  BookingSummary  `json:"bookingDetails"`
	CustomerDetails CustomerSummary `json:"customerDetails"`
}

// BookingSummary is the checkout-facing subset of a booking.
type BookingSummary struct {
	ID             string `json:"id"`
	MoodboardTitle string `json:"moodboardTitle"`
	ModelName      string `json:"modelName"`
	TotalAmount    int64  `json:"totalAmount"`
	DepositAmount  int64  `json:"depositAmount"`
}

// CustomerSummary prefills the gateway checkout form.
type CustomerSummary struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// VerifyInput carries the synchronous browser callback after hosted checkout
// closes successfully.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
	BookingID string
	CallerID  string
}

// webhookEnvelope mirrors the gateway's webhook JSON shape.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity orderEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID          string            `json:"id"`
	OrderID     string            `json:"order_id"`
	AmountPaise int64             `json:"amount"`
	Status      string            `json:"status"`
	Notes       map[string]string `json:"notes"`
	CreatedAt   int64             `json:"created_at"`
}

type orderEntity struct {
	ID          string            `json:"id"`
	AmountPaise int64             `json:"amount"`
	Notes       map[string]string `json:"notes"`
}

func parseWebhookEnvelope(body []byte) (*webhookEnvelope, error) {
	var ev webhookEnvelope
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
