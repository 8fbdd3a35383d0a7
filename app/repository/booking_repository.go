package repository

import (
	"time"

	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
)

// bookingRepository implements the BookingRepository interface
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository instance
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking in the database
func (r *bookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

// GetByID retrieves a booking with its related records
func (r *bookingRepository) GetByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Preload("Client").
		Preload("Moodboard").
		Preload("Model").
		Preload("Payments").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByClientID retrieves a client's bookings, newest first
func (r *bookingRepository) GetByClientID(clientID string, offset, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("Moodboard").
		Preload("Model").
		Preload("Payments").
		Where("client_id = ?", clientID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// GetAll retrieves all bookings for the admin list, newest first
func (r *bookingRepository) GetAll(offset, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("Client").
		Preload("Moodboard").
		Preload("Model").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// HasActiveForMoodboard reports whether any non-cancelled booking exists for
// a moodboard. Used to block double-booking a shoot date.
func (r *bookingRepository) HasActiveForMoodboard(moodboardID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("moodboard_id = ? AND status <> ?", moodboardID, models.BookingStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

// Update updates an existing booking in the database
func (r *bookingRepository) Update(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

// Cancel transitions a booking to cancelled. Completed bookings stay as they
// are.
func (r *bookingRepository) Cancel(id string) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ? AND status IN ?", id,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Update("status", models.BookingStatusCancelled).Error
}

// Count returns the total number of bookings
func (r *bookingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of bookings in a given status
func (r *bookingRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// GetDailyStats aggregates bookings and collected revenue per day for the
// admin dashboard
func (r *bookingRepository) GetDailyStats(startDate, endDate time.Time) ([]BookingDailyStats, error) {
	var stats []BookingDailyStats
	err := r.db.Model(&models.Booking{}).
		Select("DATE(created_at) as date, COUNT(*) as bookings, COALESCE(SUM(amount_paid), 0) as revenue").
		Where("created_at >= ? AND created_at < ?", startDate, endDate.AddDate(0, 0, 1)).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&stats).Error
	return stats, err
}
