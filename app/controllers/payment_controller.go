package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/latpategaurav/blu/internal/pkg/database"
	"github.com/latpategaurav/blu/internal/pkg/payments"
	"github.com/latpategaurav/blu/internal/pkg/usercontext"
)

type createOrderRequest struct {
	BookingID string `json:"bookingId"`
}

// HandleCreateOrder creates a gateway order for a booking's deposit and
// returns the data the client needs to open checkout.
func HandleCreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.BookingID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "bookingId is required")
	}

	userCtx := usercontext.GetUserContext(c)
	svc := payments.NewServiceFromDB(database.GetDB())

	order, err := svc.CreateDepositOrder(c.Context(), req.BookingID, userCtx.UserID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrUnauthenticated):
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Sign in to pay for a booking")
		case errors.Is(err, payments.ErrBookingNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
		case errors.Is(err, payments.ErrNotOwner):
			return jsonError(c, fiber.StatusForbidden, "forbidden", "Booking belongs to another client")
		case errors.Is(err, payments.ErrAlreadyPaid):
			return jsonError(c, fiber.StatusBadRequest, "already_paid", "Deposit already paid for this booking")
		case errors.Is(err, payments.ErrBookingNotPayable):
			return jsonError(c, fiber.StatusBadRequest, "not_payable", "Booking is cancelled and cannot accept a deposit")
		case errors.Is(err, payments.ErrDepositMismatch):
			return jsonError(c, fiber.StatusBadRequest, "deposit_mismatch", "Booking deposit does not match the expected rate")
		default:
			log.Errorf("create-order failed for booking %s: %v", req.BookingID, err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not create payment order")
		}
	}

	return c.JSON(fiber.Map{
		"orderId":         order.OrderID,
		"amount":          order.Amount,
		"currency":        order.Currency,
		"bookingDetails":  order.BookingDetails,
		"customerDetails": order.CustomerDetails,
	})
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	BookingID         string `json:"bookingId"`
}

// HandleVerifyPayment confirms a deposit from the synchronous checkout
// callback. The webhook path may already have won the race; both outcomes
// report success.
func HandleVerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}

	userCtx := usercontext.GetUserContext(c)
	svc := payments.NewServiceFromDB(database.GetDB())

	err := svc.ConfirmDeposit(c.Context(), payments.VerifyInput{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
		BookingID: req.BookingID,
		CallerID:  userCtx.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			return jsonError(c, fiber.StatusBadRequest, "invalid_signature", "Payment signature verification failed")
		case errors.Is(err, payments.ErrUnauthenticated):
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Sign in to verify a payment")
		case errors.Is(err, payments.ErrNotOwner):
			return jsonError(c, fiber.StatusForbidden, "forbidden", "Booking belongs to another client")
		case errors.Is(err, payments.ErrPaymentNotFound), errors.Is(err, payments.ErrBookingNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Payment not found for this order")
		default:
			log.Errorf("verify failed for order %s: %v", req.RazorpayOrderID, err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not verify payment")
		}
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"bookingStatus": "confirmed",
	})
}

// HandlePaymentWebhook ingests gateway webhook deliveries. Internal
// processing errors still answer 200 so the gateway does not enter a retry
// storm; only a bad signature is rejected.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	signature := c.Get("X-Razorpay-Signature")
	eventID := c.Get("X-Razorpay-Event-Id")
	body := c.Body()

	svc := payments.NewServiceFromDB(database.GetDB())
	if err := svc.ApplyWebhookEvent(c.Context(), body, signature, eventID); err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_signature", "Webhook signature verification failed")
		}
		// Reachable only if journaling itself failed before processing.
		log.Errorf("webhook ingestion failed: %v", err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
