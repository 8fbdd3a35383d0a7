package payments

import (
	"time"

	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the narrow persistence surface the payment flow needs. The
// reconciler is tested against an in-memory implementation of this interface.
type Repository interface {
	GetBooking(id string) (*models.Booking, error)
	CreatePayment(payment *models.Payment) error
	GetPaymentByOrderID(orderID string) (*models.Payment, error)
	// CompletePaymentIfPending atomically moves a payment from pending to
	// completed and reports whether this call won the transition. A false
	// return with nil error means another path already completed or failed
	// the payment.
	CompletePaymentIfPending(orderID, paymentID, signature, transactionID string, paidAt time.Time) (bool, error)
	// FailPaymentIfPending is the failure-path counterpart.
	FailPaymentIfPending(orderID, transactionID string) (bool, error)
	ConfirmBookingDeposit(bookingID string, amountPaid int64) error
	ConfirmBookingStatus(bookingID string) error
	MarkMoodboardBooked(moodboardID string) error
	CreateNotification(n *models.Notification) error
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
	// ExpireStalePayments fails pending payments older than the cutoff
	// (abandoned checkouts) and returns how many rows were swept.
	ExpireStalePayments(olderThan time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetBooking(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.
		Preload("Client").
		Preload("Moodboard").
		Preload("Model").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *gormRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *gormRepository) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("razorpay_order_id = ?", orderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// The WHERE status='pending' guard makes the read-then-write race between the
// browser callback and the webhook safe: exactly one caller sees
// RowsAffected=1, the loser falls into the duplicate no-op branch.
func (r *gormRepository) CompletePaymentIfPending(orderID, paymentID, signature, transactionID string, paidAt time.Time) (bool, error) {
	tx := r.db.Model(&models.Payment{}).
		Where("razorpay_order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":              models.PaymentStatusCompleted,
			"razorpay_payment_id": paymentID,
			"razorpay_signature":  signature,
			"transaction_id":      transactionID,
			"payment_date":        &paidAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) FailPaymentIfPending(orderID, transactionID string) (bool, error) {
	tx := r.db.Model(&models.Payment{}).
		Where("razorpay_order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         models.PaymentStatusFailed,
			"transaction_id": transactionID,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) ConfirmBookingDeposit(bookingID string, amountPaid int64) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]interface{}{
			"deposit_paid": true,
			"amount_paid":  amountPaid,
			"status":       models.BookingStatusConfirmed,
		}).Error
}

func (r *gormRepository) ConfirmBookingStatus(bookingID string) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, models.BookingStatusPending).
		Update("status", models.BookingStatusConfirmed).Error
}

func (r *gormRepository) MarkMoodboardBooked(moodboardID string) error {
	if moodboardID == "" {
		return nil
	}
	return r.db.Model(&models.Moodboard{}).
		Where("id = ?", moodboardID).
		Update("is_booked", true).Error
}

func (r *gormRepository) CreateNotification(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) ExpireStalePayments(olderThan time.Time) (int64, error) {
	tx := r.db.Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, olderThan).
		Update("status", models.PaymentStatusFailed)
	return tx.RowsAffected, tx.Error
}
