package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/latpategaurav/blu/app/models"
	"github.com/latpategaurav/blu/internal/pkg/env"
)

// Service runs the deposit order initiation and the dual-trigger confirmation
// reconciliation. The browser callback and the gateway webhook both converge
// on applyCapture; the repository's conditional update guarantees the
// pending->terminal transition happens exactly once.
type Service struct {
	repo     Repository
	gateway  GatewayClient
	notifier ConfirmationNotifier

	keySecret     string
	webhookSecret string
}

// NewService creates a payment service from injected collaborators.
func NewService(repo Repository, gateway GatewayClient, notifier ConfirmationNotifier, keySecret, webhookSecret string) *Service {
	return &Service{
		repo:          repo,
		gateway:       gateway,
		notifier:      notifier,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// NewServiceFromDB wires the service with the GORM repository, the Razorpay
// client and the default notifier, reading secrets from the environment.
func NewServiceFromDB(db *gorm.DB) *Service {
	repo := NewRepository(db)
	return NewService(
		repo,
		NewRazorpayClientFromEnv(),
		NewEmitter(repo),
		env.GetEnv("RAZORPAY_KEY_SECRET", ""),
		env.GetEnv("RAZORPAY_WEBHOOK_SECRET", ""),
	)
}

// CreateDepositOrder validates that a booking is payable, creates a hosted
// gateway order for the deposit and records a pending payment attempt.
func (s *Service) CreateDepositOrder(ctx context.Context, bookingID, callerID string) (*OrderResult, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, ErrUnauthenticated
	}

	booking, err := s.repo.GetBooking(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking.ClientID != callerID {
		return nil, ErrNotOwner
	}
	if booking.DepositPaid {
		return nil, ErrAlreadyPaid
	}
	if !booking.IsPayable() {
		return nil, ErrBookingNotPayable
	}
	// Guard against tampered or stale rows before money is involved.
	if !DepositMatches(booking.DepositAmount, booking.TotalAmount) {
		log.Errorf("booking %s deposit %d disagrees with computed %d", booking.ID, booking.DepositAmount, ComputeDeposit(booking.TotalAmount))
		return nil, ErrDepositMismatch
	}

	order, err := s.gateway.CreateOrder(ctx, CreateOrderInput{
		AmountPaise: ToPaise(booking.DepositAmount),
		Currency:    Currency,
		Receipt:     "booking_" + booking.ID,
		Notes: map[string]string{
			"booking_id":      booking.ID,
			"client_id":       booking.ClientID,
			"moodboard_title": booking.Moodboard.Title,
			"model_name":      booking.Model.Name,
		},
	})
	if err != nil {
		// No payment row was written, so a retry is safe.
		return nil, err
	}

	payment := &models.Payment{
		BookingID:       booking.ID,
		Amount:          booking.DepositAmount,
		PaymentType:     models.PaymentTypeDeposit,
		RazorpayOrderID: order.ID,
		Status:          models.PaymentStatusPending,
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		// The order now exists at the gateway with no local record. The
		// webhook reconciler rebuilds the row from the order notes when the
		// gateway reports a capture, so this stays recoverable.
		log.Errorf("payment insert failed for gateway order %s (booking %s), awaiting webhook reconciliation: %v", order.ID, booking.ID, err)
		return nil, fmt.Errorf("record payment attempt: %w", err)
	}

	return &OrderResult{
		OrderID:  order.ID,
		Amount:   booking.DepositAmount,
		Currency: Currency,
		BookingDetails: BookingSummary{
			ID:             booking.ID,
			MoodboardTitle: booking.Moodboard.Title,
			ModelName:      booking.Model.Name,
			TotalAmount:    booking.TotalAmount,
			DepositAmount:  booking.DepositAmount,
		},
		CustomerDetails: CustomerSummary{
			Name:    booking.Client.Name,
			Email:   booking.Client.Email,
			Contact: booking.Client.PhoneNumber,
		},
	}, nil
}

// ConfirmDeposit is the synchronous confirmation path, invoked by the
// client's browser after hosted checkout succeeds.
func (s *Service) ConfirmDeposit(ctx context.Context, in VerifyInput) error {
	if !VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature, s.keySecret) {
		return ErrInvalidSignature
	}
	if strings.TrimSpace(in.CallerID) == "" {
		return ErrUnauthenticated
	}

	booking, err := s.repo.GetBooking(in.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("load booking: %w", err)
	}
	if booking.ClientID != in.CallerID {
		return ErrNotOwner
	}

	// The checkout signature covers only the order and payment ids, so the
	// caller-supplied booking must not feed orphan recovery; an unknown order
	// is an error here and reconciliation is left to the webhook.
	return s.applyCapture(ctx, in.OrderID, capture{
		paymentID:     in.PaymentID,
		signature:     in.Signature,
		transactionID: in.PaymentID,
		paidAt:        time.Now(),
	})
}

// ApplyWebhookEvent is the asynchronous confirmation path. After signature
// verification every outcome is swallowed: the endpoint must acknowledge the
// gateway to avoid duplicate-delivery storms, and the idempotent no-op branch
// makes redelivery safe.
func (s *Service) ApplyWebhookEvent(ctx context.Context, body []byte, signature, eventID string) error {
	if !VerifyWebhookSignature(body, signature, s.webhookSecret) {
		return ErrInvalidSignature
	}

	ev, parseErr := parseWebhookEnvelope(body)
	eventType := ""
	if ev != nil {
		eventType = ev.Event
	}

	// Deliveries without an event id are journaled under a digest of the body
	// so each gets its own audit row and exact redeliveries still dedupe.
	if eventID == "" {
		sum := sha256.Sum256(body)
		eventID = "body-" + hex.EncodeToString(sum[:])
	}

	created, stored, err := s.repo.CreateWebhookEventIfNotExists(&models.WebhookEvent{
		Provider:        ProviderRazorpay,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(body),
		SignatureValid:  true,
	})
	if err != nil {
		// Journaling is an audit aid, not the correctness mechanism; the
		// conditional payment update below still dedupes.
		log.Warnf("webhook journal write failed: %v", err)
	} else if !created {
		log.Infof("duplicate webhook delivery %s (%s), skipping", eventID, eventType)
		return nil
	}

	if parseErr != nil {
		s.markProcessed(stored, parseErr)
		log.Errorf("webhook payload parse failed: %v", parseErr)
		return nil
	}

	var procErr error
	switch ev.Event {
	case EventPaymentCaptured:
		procErr = s.handlePaymentCaptured(ctx, ev.Payload.Payment.Entity)
	case EventPaymentFailed:
		procErr = s.handlePaymentFailed(ev.Payload.Payment.Entity)
	case EventOrderPaid:
		procErr = s.handleOrderPaid(ev.Payload.Order.Entity)
	default:
		log.Infof("unhandled webhook event type: %s", ev.Event)
	}
	if procErr != nil {
		log.Errorf("webhook %s processing failed: %v", ev.Event, procErr)
	}
	s.markProcessed(stored, procErr)
	return nil
}

// ExpireStalePayments sweeps abandoned pending payments older than ttl.
func (s *Service) ExpireStalePayments(ttl time.Duration) (int64, error) {
	return s.repo.ExpireStalePayments(time.Now().Add(-ttl))
}

type capture struct {
	paymentID     string
	signature     string
	transactionID string
	paidAt        time.Time

	// bookingID and amount are only trustworthy when they arrived inside a
	// signature-covered webhook body; recoverable gates orphan recovery on
	// exactly that.
	bookingID   string
	amount      int64
	recoverable bool
}

// applyCapture is the single idempotent "apply payment event" operation both
// confirmation paths feed into, keyed by the gateway order id.
func (s *Service) applyCapture(ctx context.Context, orderID string, c capture) error {
	payment, err := s.repo.GetPaymentByOrderID(orderID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load payment: %w", err)
		}
		if !c.recoverable {
			return ErrPaymentNotFound
		}
		payment, err = s.recoverOrphanedOrder(orderID, c)
		if err != nil {
			return err
		}
		if payment == nil {
			log.Warnf("no payment row for order %s, ignoring", orderID)
			return nil
		}
	}

	if payment.IsTerminal() {
		// Duplicate delivery or the race loser; state is already settled.
		return nil
	}

	won, err := s.repo.CompletePaymentIfPending(orderID, c.paymentID, c.signature, c.transactionID, c.paidAt)
	if err != nil {
		return fmt.Errorf("complete payment: %w", err)
	}
	if !won {
		return nil
	}

	if err := s.repo.ConfirmBookingDeposit(payment.BookingID, payment.Amount); err != nil {
		return fmt.Errorf("confirm booking: %w", err)
	}

	booking, err := s.repo.GetBooking(payment.BookingID)
	if err == nil {
		if err := s.repo.MarkMoodboardBooked(booking.MoodboardID); err != nil {
			log.Warnf("mark moodboard %s booked: %v", booking.MoodboardID, err)
		}
	}

	// Best effort: a notification failure must not undo the confirmation.
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, payment.BookingID)
	}
	return nil
}

// recoverOrphanedOrder rebuilds a missing payment row from order metadata.
// This covers the initiation failure mode where the gateway order was created
// but the local insert failed.
func (s *Service) recoverOrphanedOrder(orderID string, c capture) (*models.Payment, error) {
	if c.bookingID == "" {
		return nil, nil
	}
	payment := &models.Payment{
		BookingID:       c.bookingID,
		Amount:          c.amount,
		PaymentType:     models.PaymentTypeDeposit,
		RazorpayOrderID: orderID,
		Status:          models.PaymentStatusPending,
	}
	log.Warnf("recreating missing payment row for gateway order %s (booking %s)", orderID, c.bookingID)
	if err := s.repo.CreatePayment(payment); err != nil {
		// A concurrent path may have inserted it first; re-read either way.
		if existing, readErr := s.repo.GetPaymentByOrderID(orderID); readErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("recover orphaned order %s: %w", orderID, err)
	}
	return payment, nil
}

func (s *Service) handlePaymentCaptured(ctx context.Context, entity paymentEntity) error {
	if entity.OrderID == "" {
		return errors.New("payment.captured event without order_id")
	}
	paidAt := time.Now()
	if entity.CreatedAt > 0 {
		paidAt = time.Unix(entity.CreatedAt, 0)
	}
	return s.applyCapture(ctx, entity.OrderID, capture{
		paymentID:     entity.ID,
		transactionID: entity.ID,
		paidAt:        paidAt,
		bookingID:     entity.Notes["booking_id"],
		amount:        FromPaise(entity.AmountPaise),
		recoverable:   true,
	})
}

// handlePaymentFailed marks the attempt failed and leaves the booking
// pending and unpaid, so order initiation stays open for a retry.
func (s *Service) handlePaymentFailed(entity paymentEntity) error {
	if entity.OrderID == "" {
		return errors.New("payment.failed event without order_id")
	}
	won, err := s.repo.FailPaymentIfPending(entity.OrderID, entity.ID)
	if err != nil {
		return fmt.Errorf("fail payment: %w", err)
	}
	if !won {
		log.Infof("payment for order %s already terminal, ignoring failure event", entity.OrderID)
	}
	return nil
}

// handleOrderPaid is a backup confirmation for the payment.captured event.
func (s *Service) handleOrderPaid(entity orderEntity) error {
	if entity.ID == "" {
		return errors.New("order.paid event without order id")
	}
	payment, err := s.repo.GetPaymentByOrderID(entity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("order.paid for unknown order %s, ignoring", entity.ID)
			return nil
		}
		return fmt.Errorf("load payment: %w", err)
	}
	return s.repo.ConfirmBookingStatus(payment.BookingID)
}

func (s *Service) markProcessed(stored *models.WebhookEvent, procErr error) {
	if stored == nil || stored.ID == 0 {
		return
	}
	errMsg := ""
	if procErr != nil {
		errMsg = procErr.Error()
	}
	if err := s.repo.MarkWebhookProcessed(stored.ID, errMsg); err != nil {
		log.Warnf("mark webhook %d processed: %v", stored.ID, err)
	}
}
