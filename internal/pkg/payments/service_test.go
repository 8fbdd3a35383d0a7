package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/latpategaurav/blu/app/models"
)

// fakeRepo is an in-memory Repository with the same transition semantics as
// the GORM implementation: CompletePaymentIfPending and FailPaymentIfPending
// only succeed while the row is still pending, under a single lock.
type fakeRepo struct {
	mu sync.Mutex

	bookings  map[string]*models.Booking
	payments  map[string]*models.Payment // keyed by razorpay order id
	events    map[string]*models.WebhookEvent
	nextEvent uint

	bookedMoodboards map[string]bool
	notifications    []*models.Notification
	processed        map[uint]string

	failCreatePayment bool
	expiredCutoff     time.Time
	expiredCount      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:         make(map[string]*models.Booking),
		payments:         make(map[string]*models.Payment),
		events:           make(map[string]*models.WebhookEvent),
		bookedMoodboards: make(map[string]bool),
		processed:        make(map[uint]string),
	}
}

func (f *fakeRepo) GetBooking(id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) CreatePayment(payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreatePayment {
		return errors.New("insert failed")
	}
	if _, exists := f.payments[payment.RazorpayOrderID]; exists {
		return errors.New("duplicate razorpay_order_id")
	}
	cp := *payment
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("pay-row-%d", len(f.payments)+1)
	}
	f.payments[payment.RazorpayOrderID] = &cp
	return nil
}

func (f *fakeRepo) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) CompletePaymentIfPending(orderID, paymentID, signature, transactionID string, paidAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[orderID]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusCompleted
	p.RazorpayPaymentID = paymentID
	p.RazorpaySignature = signature
	p.TransactionID = transactionID
	p.PaymentDate = &paidAt
	return true, nil
}

func (f *fakeRepo) FailPaymentIfPending(orderID, transactionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[orderID]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusFailed
	p.TransactionID = transactionID
	return true, nil
}

func (f *fakeRepo) ConfirmBookingDeposit(bookingID string, amountPaid int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.DepositPaid = true
	b.AmountPaid += amountPaid
	b.Status = models.BookingStatusConfirmed
	return nil
}

func (f *fakeRepo) ConfirmBookingStatus(bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = models.BookingStatusConfirmed
	return nil
}

func (f *fakeRepo) MarkMoodboardBooked(moodboardID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookedMoodboards[moodboardID] = true
	return nil
}

func (f *fakeRepo) CreateNotification(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeRepo) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.ProviderEventID != "" {
		if existing, ok := f.events[event.ProviderEventID]; ok {
			cp := *existing
			return false, &cp, nil
		}
	}
	f.nextEvent++
	cp := *event
	cp.ID = f.nextEvent
	if event.ProviderEventID != "" {
		f.events[event.ProviderEventID] = &cp
	}
	out := cp
	return true, &out, nil
}

func (f *fakeRepo) MarkWebhookProcessed(id uint, processingError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed[id] = processingError
	return nil
}

func (f *fakeRepo) ExpireStalePayments(olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expiredCutoff = olderThan
	return f.expiredCount, nil
}

type fakeGateway struct {
	orderID string
	err     error

	mu      sync.Mutex
	lastReq CreateOrderInput
}

func (g *fakeGateway) CreateOrder(_ context.Context, in CreateOrderInput) (*GatewayOrder, error) {
	g.mu.Lock()
	g.lastReq = in
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return &GatewayOrder{ID: g.orderID, AmountPaise: in.AmountPaise, Currency: in.Currency, Receipt: in.Receipt, Status: "created"}, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *fakeNotifier) BookingConfirmed(_ context.Context, bookingID string) {
	n.mu.Lock()
	n.calls = append(n.calls, bookingID)
	n.mu.Unlock()
}

const (
	testKeySecret     = "key_secret"
	testWebhookSecret = "webhook_secret"
)

func seedBooking(repo *fakeRepo) *models.Booking {
	b := &models.Booking{
		ID:            "bkg-1",
		ClientID:      "client-1",
		MoodboardID:   "mb-1",
		ModelID:       "mdl-1",
		Status:        models.BookingStatusPending,
		TotalAmount:   550000,
		DepositAmount: 55000,
		Moodboard:     models.Moodboard{Title: "Monsoon Editorial"},
		Model:         models.Model{Name: "Asha"},
		Client:        models.Profile{Name: "Ravi", Email: "ravi@example.com", PhoneNumber: "+919876543210"},
	}
	repo.bookings[b.ID] = b
	return b
}

func newTestService(repo *fakeRepo, gw GatewayClient, n ConfirmationNotifier) *Service {
	return NewService(repo, gw, n, testKeySecret, testWebhookSecret)
}

func TestCreateDepositOrder(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	gw := &fakeGateway{orderID: "order_live1"}
	svc := newTestService(repo, gw, &fakeNotifier{})

	result, err := svc.CreateDepositOrder(context.Background(), "bkg-1", "client-1")
	if err != nil {
		t.Fatalf("CreateDepositOrder failed: %v", err)
	}

	if result.OrderID != "order_live1" {
		t.Fatalf("unexpected order id %q", result.OrderID)
	}
	if result.Amount != 55000 || result.Currency != "INR" {
		t.Fatalf("unexpected amount/currency: %+v", result)
	}
	if result.BookingDetails.MoodboardTitle != "Monsoon Editorial" || result.BookingDetails.ModelName != "Asha" {
		t.Fatalf("booking details not filled: %+v", result.BookingDetails)
	}
	if result.CustomerDetails.Contact != "+919876543210" {
		t.Fatalf("customer contact not filled: %+v", result.CustomerDetails)
	}

	if gw.lastReq.AmountPaise != 5500000 {
		t.Fatalf("gateway asked for %d paise, want 5500000", gw.lastReq.AmountPaise)
	}
	if gw.lastReq.Receipt != "booking_bkg-1" {
		t.Fatalf("unexpected receipt %q", gw.lastReq.Receipt)
	}
	if gw.lastReq.Notes["booking_id"] != "bkg-1" || gw.lastReq.Notes["client_id"] != "client-1" {
		t.Fatalf("order notes missing reconciliation metadata: %+v", gw.lastReq.Notes)
	}

	p, err := repo.GetPaymentByOrderID("order_live1")
	if err != nil {
		t.Fatalf("payment row not recorded: %v", err)
	}
	if p.Status != models.PaymentStatusPending || p.Amount != 55000 || p.BookingID != "bkg-1" {
		t.Fatalf("unexpected payment row: %+v", p)
	}
}

func TestCreateDepositOrderGuards(t *testing.T) {
	tests := []struct {
		name      string
		bookingID string
		callerID  string
		mutate    func(*models.Booking)
		wantErr   error
	}{
		{name: "unauthenticated", bookingID: "bkg-1", callerID: "  ", wantErr: ErrUnauthenticated},
		{name: "unknown booking", bookingID: "nope", callerID: "client-1", wantErr: ErrBookingNotFound},
		{name: "foreign booking", bookingID: "bkg-1", callerID: "client-2", wantErr: ErrNotOwner},
		{
			name: "already paid", bookingID: "bkg-1", callerID: "client-1",
			mutate:  func(b *models.Booking) { b.DepositPaid = true },
			wantErr: ErrAlreadyPaid,
		},
		{
			name: "tampered deposit", bookingID: "bkg-1", callerID: "client-1",
			mutate:  func(b *models.Booking) { b.DepositAmount = 1 },
			wantErr: ErrDepositMismatch,
		},
		{
			name: "cancelled booking", bookingID: "bkg-1", callerID: "client-1",
			mutate:  func(b *models.Booking) { b.Status = models.BookingStatusCancelled },
			wantErr: ErrBookingNotPayable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			b := seedBooking(repo)
			if tt.mutate != nil {
				tt.mutate(b)
			}
			svc := newTestService(repo, &fakeGateway{orderID: "order_x"}, &fakeNotifier{})

			_, err := svc.CreateDepositOrder(context.Background(), tt.bookingID, tt.callerID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if len(repo.payments) != 0 {
				t.Fatalf("guard failure must not record a payment, got %d rows", len(repo.payments))
			}
		})
	}
}

func TestCreateDepositOrderGatewayDown(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	gw := &fakeGateway{err: &GatewayError{Op: "create order", Err: errors.New("timeout")}}
	svc := newTestService(repo, gw, &fakeNotifier{})

	_, err := svc.CreateDepositOrder(context.Background(), "bkg-1", "client-1")
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *GatewayError, got %v", err)
	}
	if len(repo.payments) != 0 {
		t.Fatal("no payment row may exist after a gateway failure")
	}
}

func seedPendingPayment(repo *fakeRepo, orderID, bookingID string, amount int64) {
	repo.payments[orderID] = &models.Payment{
		ID:              "pay-row-1",
		BookingID:       bookingID,
		Amount:          amount,
		PaymentType:     models.PaymentTypeDeposit,
		RazorpayOrderID: orderID,
		Status:          models.PaymentStatusPending,
	}
}

func TestConfirmDeposit(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	seedPendingPayment(repo, "order_live1", "bkg-1", 55000)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeGateway{}, notifier)

	in := VerifyInput{
		OrderID:   "order_live1",
		PaymentID: "pay_abc",
		Signature: signHex("order_live1|pay_abc", testKeySecret),
		BookingID: "bkg-1",
		CallerID:  "client-1",
	}
	if err := svc.ConfirmDeposit(context.Background(), in); err != nil {
		t.Fatalf("ConfirmDeposit failed: %v", err)
	}

	p, _ := repo.GetPaymentByOrderID("order_live1")
	if p.Status != models.PaymentStatusCompleted || p.RazorpayPaymentID != "pay_abc" {
		t.Fatalf("payment not completed: %+v", p)
	}
	b, _ := repo.GetBooking("bkg-1")
	if !b.DepositPaid || b.Status != models.BookingStatusConfirmed || b.AmountPaid != 55000 {
		t.Fatalf("booking not confirmed: %+v", b)
	}
	if !repo.bookedMoodboards["mb-1"] {
		t.Fatal("moodboard not marked booked")
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "bkg-1" {
		t.Fatalf("notifier calls = %v, want exactly one for bkg-1", notifier.calls)
	}

	// Re-running the callback is a silent no-op.
	if err := svc.ConfirmDeposit(context.Background(), in); err != nil {
		t.Fatalf("repeat ConfirmDeposit failed: %v", err)
	}
	b, _ = repo.GetBooking("bkg-1")
	if b.AmountPaid != 55000 {
		t.Fatalf("amount paid doubled on replay: %d", b.AmountPaid)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("notifier fired again on replay: %v", notifier.calls)
	}
}

func TestConfirmDepositRejections(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	seedPendingPayment(repo, "order_live1", "bkg-1", 55000)
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	valid := signHex("order_live1|pay_abc", testKeySecret)

	tests := []struct {
		name    string
		in      VerifyInput
		wantErr error
	}{
		{
			name:    "forged signature",
			in:      VerifyInput{OrderID: "order_live1", PaymentID: "pay_abc", Signature: signHex("order_live1|pay_abc", "wrong"), BookingID: "bkg-1", CallerID: "client-1"},
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "anonymous caller",
			in:      VerifyInput{OrderID: "order_live1", PaymentID: "pay_abc", Signature: valid, BookingID: "bkg-1", CallerID: ""},
			wantErr: ErrUnauthenticated,
		},
		{
			name:    "unknown booking",
			in:      VerifyInput{OrderID: "order_live1", PaymentID: "pay_abc", Signature: valid, BookingID: "missing", CallerID: "client-1"},
			wantErr: ErrBookingNotFound,
		},
		{
			name:    "foreign booking",
			in:      VerifyInput{OrderID: "order_live1", PaymentID: "pay_abc", Signature: valid, BookingID: "bkg-1", CallerID: "client-2"},
			wantErr: ErrNotOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.ConfirmDeposit(context.Background(), tt.in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	p, _ := repo.GetPaymentByOrderID("order_live1")
	if p.Status != models.PaymentStatusPending {
		t.Fatalf("rejected callbacks must not touch the payment, got %s", p.Status)
	}
}

// TestConfirmDepositDoesNotRecoverUnknownOrder pins down that the sync path
// never rebuilds a missing payment row. The checkout signature binds only the
// order and payment ids, so the caller-supplied booking id must not be able
// to redirect a cheap order's capture onto a pricier booking.
func TestConfirmDepositDoesNotRecoverUnknownOrder(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo) // bkg-1, deposit 55000
	repo.bookings["bkg-2"] = &models.Booking{
		ID:            "bkg-2",
		ClientID:      "client-1",
		MoodboardID:   "mb-2",
		Status:        models.BookingStatusPending,
		TotalAmount:   9900000,
		DepositAmount: 990000,
	}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeGateway{}, notifier)

	// order_cheap was created for bkg-1 but its local insert failed; no row
	// exists. The signature for it is genuinely valid.
	err := svc.ConfirmDeposit(context.Background(), VerifyInput{
		OrderID:   "order_cheap",
		PaymentID: "pay_abc",
		Signature: signHex("order_cheap|pay_abc", testKeySecret),
		BookingID: "bkg-2",
		CallerID:  "client-1",
	})
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("got %v, want ErrPaymentNotFound", err)
	}

	if len(repo.payments) != 0 {
		t.Fatalf("sync path invented %d payment rows", len(repo.payments))
	}
	b, _ := repo.GetBooking("bkg-2")
	if b.DepositPaid || b.Status != models.BookingStatusPending || b.AmountPaid != 0 {
		t.Fatalf("booking bkg-2 mutated without any money collected: %+v", b)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("notifier fired: %v", notifier.calls)
	}
}

func capturedWebhookBody(orderID, paymentID string, amountPaise int64, notes map[string]string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"event": EventPaymentCaptured,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":         paymentID,
					"order_id":   orderID,
					"amount":     amountPaise,
					"status":     "captured",
					"notes":      notes,
					"created_at": time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).Unix(),
				},
			},
		},
	})
	return body
}

func TestApplyWebhookEventCaptured(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	seedPendingPayment(repo, "order_live1", "bkg-1", 55000)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeGateway{}, notifier)

	body := capturedWebhookBody("order_live1", "pay_abc", 5500000, map[string]string{"booking_id": "bkg-1"})
	sig := signHex(string(body), testWebhookSecret)

	if err := svc.ApplyWebhookEvent(context.Background(), body, sig, "evt_1"); err != nil {
		t.Fatalf("ApplyWebhookEvent failed: %v", err)
	}

	p, _ := repo.GetPaymentByOrderID("order_live1")
	if p.Status != models.PaymentStatusCompleted {
		t.Fatalf("payment not completed: %+v", p)
	}
	if p.PaymentDate == nil || p.PaymentDate.Unix() != time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).Unix() {
		t.Fatalf("payment date not taken from event: %v", p.PaymentDate)
	}
	b, _ := repo.GetBooking("bkg-1")
	if !b.DepositPaid || b.Status != models.BookingStatusConfirmed {
		t.Fatalf("booking not confirmed: %+v", b)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("notifier calls = %d, want 1", len(notifier.calls))
	}

	ev, ok := repo.events["evt_1"]
	if !ok {
		t.Fatal("webhook event not journaled")
	}
	if msg, done := repo.processed[ev.ID]; !done || msg != "" {
		t.Fatalf("event not marked processed cleanly: %q", msg)
	}

	// Redelivery with the same event id is dropped by the journal.
	if err := svc.ApplyWebhookEvent(context.Background(), body, sig, "evt_1"); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	b, _ = repo.GetBooking("bkg-1")
	if b.AmountPaid != 55000 {
		t.Fatalf("amount paid double-counted on redelivery: %d", b.AmountPaid)
	}
}

func TestApplyWebhookEventBadSignature(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	seedPendingPayment(repo, "order_live1", "bkg-1", 55000)
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	body := capturedWebhookBody("order_live1", "pay_abc", 5500000, nil)
	err := svc.ApplyWebhookEvent(context.Background(), body, signHex(string(body), "wrong"), "evt_1")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("got %v, want ErrInvalidSignature", err)
	}
	if len(repo.events) != 0 {
		t.Fatal("unsigned payloads must not be journaled")
	}
	p, _ := repo.GetPaymentByOrderID("order_live1")
	if p.Status != models.PaymentStatusPending {
		t.Fatalf("unsigned payload mutated the payment: %s", p.Status)
	}
}

func TestApplyWebhookEventFailed(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	seedPendingPayment(repo, "order_live1", "bkg-1", 55000)
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	body, _ := json.Marshal(map[string]interface{}{
		"event": EventPaymentFailed,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":       "pay_abc",
					"order_id": "order_live1",
					"status":   "failed",
				},
			},
		},
	})
	sig := signHex(string(body), testWebhookSecret)

	if err := svc.ApplyWebhookEvent(context.Background(), body, sig, "evt_fail"); err != nil {
		t.Fatalf("ApplyWebhookEvent failed: %v", err)
	}

	p, _ := repo.GetPaymentByOrderID("order_live1")
	if p.Status != models.PaymentStatusFailed {
		t.Fatalf("payment status = %s, want failed", p.Status)
	}
	b, _ := repo.GetBooking("bkg-1")
	if b.DepositPaid || b.Status != models.BookingStatusPending {
		t.Fatalf("failure event must leave the booking retryable: %+v", b)
	}
}

func TestApplyWebhookEventOrderPaid(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	seedPendingPayment(repo, "order_live1", "bkg-1", 55000)
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	body, _ := json.Marshal(map[string]interface{}{
		"event": EventOrderPaid,
		"payload": map[string]interface{}{
			"order": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":     "order_live1",
					"amount": 5500000,
				},
			},
		},
	})
	sig := signHex(string(body), testWebhookSecret)

	if err := svc.ApplyWebhookEvent(context.Background(), body, sig, "evt_paid"); err != nil {
		t.Fatalf("ApplyWebhookEvent failed: %v", err)
	}
	b, _ := repo.GetBooking("bkg-1")
	if b.Status != models.BookingStatusConfirmed {
		t.Fatalf("booking status = %s, want confirmed", b.Status)
	}
}

func TestApplyWebhookEventUnknownType(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	body := []byte(`{"event":"refund.created","payload":{}}`)
	sig := signHex(string(body), testWebhookSecret)
	if err := svc.ApplyWebhookEvent(context.Background(), body, sig, "evt_other"); err != nil {
		t.Fatalf("unknown event must be acknowledged: %v", err)
	}
	if _, ok := repo.events["evt_other"]; !ok {
		t.Fatal("unknown event must still be journaled")
	}
}

func TestApplyWebhookEventMalformedBody(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	body := []byte(`not json at all`)
	sig := signHex(string(body), testWebhookSecret)
	if err := svc.ApplyWebhookEvent(context.Background(), body, sig, "evt_bad"); err != nil {
		t.Fatalf("malformed but signed body must be acknowledged: %v", err)
	}
	ev := repo.events["evt_bad"]
	if ev == nil {
		t.Fatal("malformed payload not journaled")
	}
	if msg := repo.processed[ev.ID]; msg == "" {
		t.Fatal("parse failure not recorded on the journal row")
	}
}

func TestWebhookRecoversOrphanedOrder(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	// Initiation failure mode: the gateway order exists, the local row does not.
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeGateway{}, notifier)

	body := capturedWebhookBody("order_orphan", "pay_xyz", 5500000, map[string]string{"booking_id": "bkg-1"})
	sig := signHex(string(body), testWebhookSecret)

	if err := svc.ApplyWebhookEvent(context.Background(), body, sig, "evt_orphan"); err != nil {
		t.Fatalf("ApplyWebhookEvent failed: %v", err)
	}

	p, err := repo.GetPaymentByOrderID("order_orphan")
	if err != nil {
		t.Fatalf("orphaned order was not rebuilt: %v", err)
	}
	if p.Status != models.PaymentStatusCompleted || p.BookingID != "bkg-1" || p.Amount != 55000 {
		t.Fatalf("rebuilt payment wrong: %+v", p)
	}
	b, _ := repo.GetBooking("bkg-1")
	if !b.DepositPaid {
		t.Fatal("booking not confirmed through orphan recovery")
	}
}

func TestWebhookIgnoresOrphanWithoutMetadata(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	body := capturedWebhookBody("order_mystery", "pay_xyz", 5500000, nil)
	sig := signHex(string(body), testWebhookSecret)

	if err := svc.ApplyWebhookEvent(context.Background(), body, sig, "evt_mystery"); err != nil {
		t.Fatalf("ApplyWebhookEvent failed: %v", err)
	}
	if len(repo.payments) != 0 {
		t.Fatal("no payment may be invented without booking metadata")
	}
}

// TestApplyWebhookEventWithoutEventID covers deliveries where the gateway
// omits the event-id header: each body still gets its own journal row, keyed
// by a digest of the payload, and resending the same body dedupes.
func TestApplyWebhookEventWithoutEventID(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	seedPendingPayment(repo, "order_a", "bkg-1", 55000)
	repo.payments["order_b"] = &models.Payment{
		ID:              "pay-row-2",
		BookingID:       "bkg-1",
		Amount:          55000,
		PaymentType:     models.PaymentTypeDeposit,
		RazorpayOrderID: "order_b",
		Status:          models.PaymentStatusPending,
	}
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	bodyA := capturedWebhookBody("order_a", "pay_a", 5500000, map[string]string{"booking_id": "bkg-1"})
	if err := svc.ApplyWebhookEvent(context.Background(), bodyA, signHex(string(bodyA), testWebhookSecret), ""); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	bodyB, _ := json.Marshal(map[string]interface{}{
		"event": EventPaymentFailed,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{"id": "pay_b", "order_id": "order_b", "status": "failed"},
			},
		},
	})
	if err := svc.ApplyWebhookEvent(context.Background(), bodyB, signHex(string(bodyB), testWebhookSecret), ""); err != nil {
		t.Fatalf("second delivery failed: %v", err)
	}

	if len(repo.events) != 2 {
		t.Fatalf("journal has %d rows, want one per distinct body", len(repo.events))
	}
	for key, ev := range repo.events {
		if !strings.HasPrefix(key, "body-") {
			t.Fatalf("synthesized event id %q lacks the digest prefix", key)
		}
		if msg, done := repo.processed[ev.ID]; !done || msg != "" {
			t.Fatalf("journal row %d not marked cleanly processed: %q", ev.ID, msg)
		}
	}
	if p, _ := repo.GetPaymentByOrderID("order_a"); p.Status != models.PaymentStatusCompleted {
		t.Fatalf("order_a status = %s", p.Status)
	}
	if p, _ := repo.GetPaymentByOrderID("order_b"); p.Status != models.PaymentStatusFailed {
		t.Fatalf("order_b status = %s", p.Status)
	}

	// Resending the exact first body dedupes on its digest.
	if err := svc.ApplyWebhookEvent(context.Background(), bodyA, signHex(string(bodyA), testWebhookSecret), ""); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if len(repo.events) != 2 {
		t.Fatalf("redelivery grew the journal to %d rows", len(repo.events))
	}
	if b, _ := repo.GetBooking("bkg-1"); b.AmountPaid != 55000 {
		t.Fatalf("deposit applied more than once: %d", b.AmountPaid)
	}
}

// TestVerifyAndWebhookRace drives the browser callback and the webhook at the
// same order concurrently. Exactly one path may confirm the booking.
func TestVerifyAndWebhookRace(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	seedPendingPayment(repo, "order_live1", "bkg-1", 55000)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeGateway{}, notifier)

	verifyIn := VerifyInput{
		OrderID:   "order_live1",
		PaymentID: "pay_abc",
		Signature: signHex("order_live1|pay_abc", testKeySecret),
		BookingID: "bkg-1",
		CallerID:  "client-1",
	}
	body := capturedWebhookBody("order_live1", "pay_abc", 5500000, map[string]string{"booking_id": "bkg-1"})
	webhookSig := signHex(string(body), testWebhookSecret)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := svc.ConfirmDeposit(context.Background(), verifyIn); err != nil {
			t.Errorf("ConfirmDeposit: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := svc.ApplyWebhookEvent(context.Background(), body, webhookSig, "evt_race"); err != nil {
			t.Errorf("ApplyWebhookEvent: %v", err)
		}
	}()
	wg.Wait()

	p, _ := repo.GetPaymentByOrderID("order_live1")
	if p.Status != models.PaymentStatusCompleted {
		t.Fatalf("payment status = %s", p.Status)
	}
	b, _ := repo.GetBooking("bkg-1")
	if b.AmountPaid != 55000 {
		t.Fatalf("deposit applied %d times", b.AmountPaid/55000)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("notifier fired %d times, want exactly once", len(notifier.calls))
	}
}

func TestExpireStalePayments(t *testing.T) {
	repo := newFakeRepo()
	repo.expiredCount = 3
	svc := newTestService(repo, &fakeGateway{}, &fakeNotifier{})

	before := time.Now()
	n, err := svc.ExpireStalePayments(24 * time.Hour)
	if err != nil {
		t.Fatalf("ExpireStalePayments failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expired %d, want 3", n)
	}
	want := before.Add(-24 * time.Hour)
	if repo.expiredCutoff.Before(want.Add(-time.Minute)) || repo.expiredCutoff.After(want.Add(time.Minute)) {
		t.Fatalf("cutoff %v not ~24h in the past", repo.expiredCutoff)
	}
}
