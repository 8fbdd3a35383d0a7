package repository

import (
	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
)

// paymentRepository implements the PaymentRepository interface. Payment
// writes go through the payments service; this repository only serves reads
// for client history and the admin panel.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Preload("Booking").First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByBookingID retrieves all payment attempts for a booking, oldest first
func (r *paymentRepository) GetByBookingID(bookingID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

// GetRecent retrieves payments for the admin list, newest first
func (r *paymentRepository) GetRecent(offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Preload("Booking").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// Count returns the total number of payment rows
func (r *paymentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of payments in a given status
func (r *paymentRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SumCompleted returns the total collected amount in rupees
func (r *paymentRepository) SumCompleted() (int64, error) {
	var total int64
	err := r.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
